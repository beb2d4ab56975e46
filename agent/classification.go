package agent

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/supportmesh/completion"
	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/internal/util"
	"github.com/hupe1980/supportmesh/protocol"
)

// Ticket categories understood by TicketClassificationAgent.
var Categories = []string{
	"Technical Issue",
	"Account Related",
	"Billing",
	"Feature Request",
	"General Inquiry",
}

// PriorityLevels maps priority numbers to their labels.
var PriorityLevels = map[int]string{
	1: "Low",
	2: "Medium",
	3: "High",
	4: "Critical",
}

// Classification defaults.
const (
	DefaultCategory = "General Inquiry"
	DefaultPriority = 2

	classificationConfidence = 0.8
)

var classificationPrompt = util.MustParse("classification", `
Analyze this support ticket and provide:
1. The most appropriate category from: {{join ", " .Categories}}
2. Priority level (1-4) based on urgency and impact

Ticket:
Title: {{.Title}}
Description: {{.Description}}

Respond in format: category|priority_number
`)

// Classification is the result of TicketClassificationAgent.
type Classification struct {
	Category    string  `json:"category"`
	Priority    int     `json:"priority"`
	Confidence  float64 `json:"confidence"`
	RawResponse string  `json:"raw_response"`
}

// ToMap renders the classification as an agent result mapping.
func (c Classification) ToMap() map[string]any {
	return map[string]any{
		"category":     c.Category,
		"priority":     c.Priority,
		"confidence":   c.Confidence,
		"raw_response": c.RawResponse,
	}
}

// TicketClassificationAgent assigns a category and a 1-4 priority. Unlike
// the other agents it fails loud on invalid input.
type TicketClassificationAgent struct {
	Base
}

// NewTicketClassificationAgent creates the classification agent.
func NewTicketClassificationAgent(client completion.Completer, optFns ...func(o *Options)) *TicketClassificationAgent {
	return &TicketClassificationAgent{Base: NewBase("TicketClassificationAgent", client, optFns...)}
}

// ValidateInput requires a non-blank title and description.
func (a *TicketClassificationAgent) ValidateInput(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title must be a non-empty string", core.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description must be a non-empty string", core.ErrInvalidInput)
	}
	return nil
}

// SanitizeResponse replaces unknown categories and out-of-range priorities
// with the defaults.
func (a *TicketClassificationAgent) SanitizeResponse(result map[string]any) map[string]any {
	if c, ok := result["category"].(string); !ok || !slices.Contains(Categories, c) {
		result["category"] = DefaultCategory
	}
	if p, ok := result["priority"].(int); !ok || PriorityLevels[p] == "" {
		result["priority"] = DefaultPriority
	}
	return result
}

// Classify returns the ticket's category and priority. Invalid input is
// returned as an error wrapping core.ErrInvalidInput; an unparseable reply
// yields the default classification.
func (a *TicketClassificationAgent) Classify(ctx context.Context, title, description string) (Classification, error) {
	in := Input{Title: title, Description: description}
	if err := a.ValidateInput(in); err != nil {
		return Classification{}, err
	}

	prompt, err := util.Render(classificationPrompt, map[string]any{
		"Categories":  Categories,
		"Title":       title,
		"Description": description,
	})
	if err != nil {
		return Classification{}, fmt.Errorf("render classification prompt: %w", err)
	}

	reply := a.complete(ctx, prompt)
	result := Classification{
		Category:    DefaultCategory,
		Priority:    DefaultPriority,
		RawResponse: reply,
	}

	fields, err := protocol.Parse(reply, 2)
	if err == nil {
		var priority int
		if priority, err = fields.Int(1); err == nil {
			result.Category = fields.Text(0)
			result.Priority = priority
			result.Confidence = classificationConfidence
		}
	}
	if err != nil {
		a.logParseFailure(reply, err)
		return result, nil
	}

	sanitized := a.SanitizeResponse(map[string]any{"category": result.Category, "priority": result.Priority})
	result.Category = sanitized["category"].(string)
	result.Priority = sanitized["priority"].(int)
	return result, nil
}

// Process implements Agent.
func (a *TicketClassificationAgent) Process(ctx context.Context, in Input) (map[string]any, error) {
	c, err := a.Classify(ctx, in.Title, in.Description)
	if err != nil {
		return nil, err
	}
	return c.ToMap(), nil
}
