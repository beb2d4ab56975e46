package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/supportmesh/completion"
	"github.com/hupe1980/supportmesh/internal/util"
	"github.com/hupe1980/supportmesh/protocol"
)

// Solution recommendation defaults.
const (
	DefaultSolution       = "Unable to determine best solution"
	DefaultResolutionTime = 30
)

var solutionPrompt = util.MustParse("solution", `
Given this support ticket and knowledge base solution, recommend the best approach to resolve the issue:

Ticket:
Title: {{.Title}}
Description: {{.Description}}
Category: {{default "Unknown" .Category}}

Known Solution: {{default "No direct knowledge base match" .Solution}}

Provide recommendations in this format:
primary_solution|alternative_approaches|estimated_resolution_time|confidence_level
Where:
- primary_solution is the main recommended solution
- alternative_approaches are comma-separated alternative solutions
- estimated_resolution_time is in minutes
- confidence_level is a percentage (0-100)
`)

// SolutionRecommendation is the result of SolutionRecommendationAgent.
type SolutionRecommendation struct {
	PrimarySolution         string   `json:"primary_solution"`
	AlternativeApproaches   []string `json:"alternative_approaches"`
	EstimatedResolutionTime int      `json:"estimated_resolution_time"`
	ConfidenceLevel         int      `json:"confidence_level"`
}

// ToMap renders the recommendation as an agent result mapping.
func (s SolutionRecommendation) ToMap() map[string]any {
	return map[string]any{
		"primary_solution":          s.PrimarySolution,
		"alternative_approaches":    s.AlternativeApproaches,
		"estimated_resolution_time": s.EstimatedResolutionTime,
		"confidence_level":          s.ConfidenceLevel,
	}
}

// DefaultSolutionRecommendation is the fallback recommendation.
func DefaultSolutionRecommendation() SolutionRecommendation {
	return SolutionRecommendation{
		PrimarySolution:         DefaultSolution,
		AlternativeApproaches:   []string{},
		EstimatedResolutionTime: DefaultResolutionTime,
		ConfidenceLevel:         0,
	}
}

// SolutionRecommendationAgent proposes a resolution, optionally informed by
// a knowledge base excerpt and the ticket category.
type SolutionRecommendationAgent struct {
	Base
}

// NewSolutionRecommendationAgent creates the solution agent.
func NewSolutionRecommendationAgent(client completion.Completer, optFns ...func(o *Options)) *SolutionRecommendationAgent {
	return &SolutionRecommendationAgent{Base: NewBase("SolutionRecommendationAgent", client, optFns...)}
}

// Recommend proposes a solution. kbSolution and category may be empty.
func (a *SolutionRecommendationAgent) Recommend(ctx context.Context, title, description, kbSolution, category string) (SolutionRecommendation, error) {
	prompt, err := util.Render(solutionPrompt, map[string]any{
		"Title":       title,
		"Description": description,
		"Category":    category,
		"Solution":    kbSolution,
	})
	if err != nil {
		return SolutionRecommendation{}, fmt.Errorf("render solution prompt: %w", err)
	}

	reply := a.complete(ctx, prompt)
	rec, err := parseSolution(reply)
	if err != nil {
		a.logParseFailure(reply, err)
		return DefaultSolutionRecommendation(), nil
	}
	return rec, nil
}

func parseSolution(reply string) (SolutionRecommendation, error) {
	fields, err := protocol.Parse(reply, 4)
	if err != nil {
		return SolutionRecommendation{}, err
	}
	minutes, err := fields.Int(2)
	if err != nil {
		return SolutionRecommendation{}, err
	}
	confidence, err := fields.Percent(3)
	if err != nil {
		return SolutionRecommendation{}, err
	}
	return SolutionRecommendation{
		PrimarySolution:         fields.Text(0),
		AlternativeApproaches:   fields.List(1),
		EstimatedResolutionTime: minutes,
		ConfidenceLevel:         confidence,
	}, nil
}

// Process implements Agent.
func (a *SolutionRecommendationAgent) Process(ctx context.Context, in Input) (map[string]any, error) {
	s, err := a.Recommend(ctx, in.Title, in.Description, in.KnowledgeSolution, in.Category)
	if err != nil {
		return nil, err
	}
	return s.ToMap(), nil
}
