package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/supportmesh/completion"
	"github.com/hupe1980/supportmesh/internal/util"
	"github.com/hupe1980/supportmesh/protocol"
)

// AutomatableCategories are the request kinds the support tooling can
// resolve without a human.
var AutomatableCategories = []string{
	"password_reset",
	"account_activation",
	"system_status",
	"basic_troubleshooting",
	"documentation_request",
}

var automationPrompt = util.MustParse("automation", `
Analyze this support ticket and determine if it can be automated:

Ticket:
Title: {{.Title}}
Description: {{.Description}}
Category: {{default "Unknown" .Category}}
Priority: {{default "Not set" .Priority}}

Request kinds that are usually automatable: {{join ", " .Automatable}}

Determine:
1. Can this be automated?
2. What automated steps can be taken?
3. Success probability
4. Required API actions

Respond in format:
can_automate|automation_steps|success_probability|required_apis
Where:
- can_automate is 'yes' or 'no'
- automation_steps are comma-separated steps
- success_probability is a percentage (0-100)
- required_apis are comma-separated API endpoints needed
`)

// AutomationAssessment is the result of AutomatedResolutionAgent.
type AutomationAssessment struct {
	CanAutomate        bool     `json:"can_automate"`
	AutomationSteps    []string `json:"automation_steps"`
	SuccessProbability int      `json:"success_probability"`
	RequiredAPIs       []string `json:"required_apis"`
}

// ToMap renders the assessment as an agent result mapping.
func (a AutomationAssessment) ToMap() map[string]any {
	return map[string]any{
		"can_automate":        a.CanAutomate,
		"automation_steps":    a.AutomationSteps,
		"success_probability": a.SuccessProbability,
		"required_apis":       a.RequiredAPIs,
	}
}

// DefaultAutomationAssessment is the fallback assessment.
func DefaultAutomationAssessment() AutomationAssessment {
	return AutomationAssessment{
		AutomationSteps: []string{},
		RequiredAPIs:    []string{},
	}
}

// AutomatedResolutionAgent judges whether a ticket can be resolved by
// automation and which steps that would take.
type AutomatedResolutionAgent struct {
	Base
}

// NewAutomatedResolutionAgent creates the automation agent.
func NewAutomatedResolutionAgent(client completion.Completer, optFns ...func(o *Options)) *AutomatedResolutionAgent {
	return &AutomatedResolutionAgent{Base: NewBase("AutomatedResolutionAgent", client, optFns...)}
}

// Evaluate assesses automation feasibility.
func (a *AutomatedResolutionAgent) Evaluate(ctx context.Context, title, description, category string, priority int) (AutomationAssessment, error) {
	prompt, err := util.Render(automationPrompt, map[string]any{
		"Title":       title,
		"Description": description,
		"Category":    category,
		"Priority":    priority,
		"Automatable": AutomatableCategories,
	})
	if err != nil {
		return AutomationAssessment{}, fmt.Errorf("render automation prompt: %w", err)
	}

	reply := a.complete(ctx, prompt)
	fields, err := protocol.Parse(reply, 4)
	if err != nil {
		a.logParseFailure(reply, err)
		return DefaultAutomationAssessment(), nil
	}
	probability, err := fields.Percent(2)
	if err != nil {
		a.logParseFailure(reply, err)
		return DefaultAutomationAssessment(), nil
	}
	return AutomationAssessment{
		CanAutomate:        fields.Bool(0),
		AutomationSteps:    fields.List(1),
		SuccessProbability: probability,
		RequiredAPIs:       fields.List(3),
	}, nil
}

// Process implements Agent.
func (a *AutomatedResolutionAgent) Process(ctx context.Context, in Input) (map[string]any, error) {
	r, err := a.Evaluate(ctx, in.Title, in.Description, in.Category, in.Priority)
	if err != nil {
		return nil, err
	}
	return r.ToMap(), nil
}
