package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/supportmesh/completion"
	"github.com/hupe1980/supportmesh/internal/util"
	"github.com/hupe1980/supportmesh/protocol"
)

// IntentTypes lists the intents the model may choose from.
var IntentTypes = []string{
	"technical_support",
	"account_management",
	"billing_inquiry",
	"feature_request",
	"bug_report",
	"general_inquiry",
	"product_guidance",
	"service_outage",
}

// Intent defaults.
const (
	DefaultPrimaryIntent = "general_inquiry"
	DefaultAction        = "review_ticket"
	DefaultRouting       = "general_support"
)

var intentPrompt = util.MustParse("intent", `
Analyze this support ticket and determine:
1. Primary intent
2. Secondary intents (if any)
3. Required actions
4. Routing suggestion

Ticket:
Title: {{.Title}}
Description: {{.Description}}

Available intent types: {{join ", " .Intents}}

Respond in format:
primary_intent|secondary_intents|required_actions|routing
Where:
- primary_intent is one of the available intent types
- secondary_intents are comma-separated intents (if any)
- required_actions are comma-separated actions needed
- routing is the suggested department/team
`)

// Intent is the result of IntentExtractionAgent.
type Intent struct {
	PrimaryIntent    string   `json:"primary_intent"`
	SecondaryIntents []string `json:"secondary_intents"`
	RequiredActions  []string `json:"required_actions"`
	Routing          string   `json:"routing"`
}

// ToMap renders the intent as an agent result mapping.
func (i Intent) ToMap() map[string]any {
	return map[string]any{
		"primary_intent":    i.PrimaryIntent,
		"secondary_intents": i.SecondaryIntents,
		"required_actions":  i.RequiredActions,
		"routing":           i.Routing,
	}
}

// DefaultIntent is the fallback intent.
func DefaultIntent() Intent {
	return Intent{
		PrimaryIntent:    DefaultPrimaryIntent,
		SecondaryIntents: []string{},
		RequiredActions:  []string{DefaultAction},
		Routing:          DefaultRouting,
	}
}

// IntentExtractionAgent determines what the customer wants and where the
// ticket should be routed.
type IntentExtractionAgent struct {
	Base
}

// NewIntentExtractionAgent creates the intent agent.
func NewIntentExtractionAgent(client completion.Completer, optFns ...func(o *Options)) *IntentExtractionAgent {
	return &IntentExtractionAgent{Base: NewBase("IntentExtractionAgent", client, optFns...)}
}

// Extract runs intent extraction.
func (a *IntentExtractionAgent) Extract(ctx context.Context, title, description string) (Intent, error) {
	prompt, err := util.Render(intentPrompt, map[string]any{
		"Title":       title,
		"Description": description,
		"Intents":     IntentTypes,
	})
	if err != nil {
		return Intent{}, fmt.Errorf("render intent prompt: %w", err)
	}

	reply := a.complete(ctx, prompt)
	fields, err := protocol.Parse(reply, 4)
	if err != nil {
		a.logParseFailure(reply, err)
		return DefaultIntent(), nil
	}
	return Intent{
		PrimaryIntent:    fields.Text(0),
		SecondaryIntents: fields.List(1),
		RequiredActions:  fields.List(2),
		Routing:          fields.Text(3),
	}, nil
}

// Process implements Agent.
func (a *IntentExtractionAgent) Process(ctx context.Context, in Input) (map[string]any, error) {
	i, err := a.Extract(ctx, in.Title, in.Description)
	if err != nil {
		return nil, err
	}
	return i.ToMap(), nil
}
