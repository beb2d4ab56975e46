package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/supportmesh/completion"
	"github.com/hupe1980/supportmesh/internal/util"
	"github.com/hupe1980/supportmesh/protocol"
)

// SLARequirements maps priority numbers to resolution targets.
var SLARequirements = map[int]string{
	4: "1 hour",
	3: "4 hours",
	2: "24 hours",
	1: "48 hours",
}

// Priority defaults.
const (
	DefaultBusinessImpact  = "Unable to determine"
	DefaultUserFrustration = "Medium"
)

var priorityPrompt = util.MustParse("priority", `
Analyze this support ticket and determine:
1. SLA requirement based on urgency and impact
2. Business impact level
3. User frustration level

Ticket:
Title: {{.Title}}
Description: {{.Description}}
Current Priority: {{default "Not set" .Priority}}

Reference SLAs: Critical={{index .SLA 4}}, High={{index .SLA 3}}, Medium={{index .SLA 2}}, Low={{index .SLA 1}}

Respond in format:
priority_level|sla_requirement|business_impact|user_frustration
Where:
- priority_level is a number 1-4 (1=Low, 2=Medium, 3=High, 4=Critical)
- sla_requirement is the time within which this should be resolved
- business_impact is a brief description of the impact
- user_frustration is a level (Low/Medium/High)
`)

// PriorityAssessment is the result of PriorityUnderstandingAgent.
type PriorityAssessment struct {
	Priority        int    `json:"priority"`
	SLARequirement  string `json:"sla_requirement"`
	BusinessImpact  string `json:"business_impact"`
	UserFrustration string `json:"user_frustration"`
}

// ToMap renders the assessment as an agent result mapping.
func (p PriorityAssessment) ToMap() map[string]any {
	return map[string]any{
		"priority":         p.Priority,
		"sla_requirement":  p.SLARequirement,
		"business_impact":  p.BusinessImpact,
		"user_frustration": p.UserFrustration,
	}
}

// DefaultPriorityAssessment is the fallback for a ticket whose current
// priority is currentPriority (0 when unknown).
func DefaultPriorityAssessment(currentPriority int) PriorityAssessment {
	priority := currentPriority
	if priority == 0 {
		priority = DefaultPriority
	}
	return PriorityAssessment{
		Priority:        priority,
		SLARequirement:  SLARequirements[DefaultPriority],
		BusinessImpact:  DefaultBusinessImpact,
		UserFrustration: DefaultUserFrustration,
	}
}

// PriorityUnderstandingAgent derives SLA, business impact and user
// frustration for a ticket.
type PriorityUnderstandingAgent struct {
	Base
}

// NewPriorityUnderstandingAgent creates the priority agent.
func NewPriorityUnderstandingAgent(client completion.Completer, optFns ...func(o *Options)) *PriorityUnderstandingAgent {
	return &PriorityUnderstandingAgent{Base: NewBase("PriorityUnderstandingAgent", client, optFns...)}
}

// Assess analyzes the ticket. currentPriority of 0 means not set.
func (a *PriorityUnderstandingAgent) Assess(ctx context.Context, title, description string, currentPriority int) (PriorityAssessment, error) {
	prompt, err := util.Render(priorityPrompt, map[string]any{
		"Title":       title,
		"Description": description,
		"Priority":    currentPriority,
		"SLA":         SLARequirements,
	})
	if err != nil {
		return PriorityAssessment{}, fmt.Errorf("render priority prompt: %w", err)
	}

	reply := a.complete(ctx, prompt)
	fields, err := protocol.Parse(reply, 4)
	if err != nil {
		a.logParseFailure(reply, err)
		return DefaultPriorityAssessment(currentPriority), nil
	}
	priority, err := fields.Int(0)
	if err != nil {
		a.logParseFailure(reply, err)
		return DefaultPriorityAssessment(currentPriority), nil
	}

	return PriorityAssessment{
		Priority:        priority,
		SLARequirement:  fields.Text(1),
		BusinessImpact:  fields.Text(2),
		UserFrustration: fields.Text(3),
	}, nil
}

// Process implements Agent.
func (a *PriorityUnderstandingAgent) Process(ctx context.Context, in Input) (map[string]any, error) {
	p, err := a.Assess(ctx, in.Title, in.Description, in.Priority)
	if err != nil {
		return nil, err
	}
	return p.ToMap(), nil
}
