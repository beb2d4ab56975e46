package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/supportmesh/completion"
	"github.com/hupe1980/supportmesh/internal/util"
)

var contentPrompt = util.MustParse("content", `
Generate a professional and helpful response for this support ticket:
Title: {{.Title}}
Description: {{.Description}}

Additional Context: {{default "No knowledge base solution available" .Solution}}

Requirements:
1. Be professional and empathetic
2. Address the specific issue
3. Provide clear next steps
4. Include relevant solution if available
`)

// ContentGenerationAgent drafts the customer-facing reply. Its output is
// free text and is passed through unparsed.
type ContentGenerationAgent struct {
	Base
}

// NewContentGenerationAgent creates the content agent.
func NewContentGenerationAgent(client completion.Completer, optFns ...func(o *Options)) *ContentGenerationAgent {
	return &ContentGenerationAgent{Base: NewBase("ContentGenerationAgent", client, optFns...)}
}

// Generate returns the model reply verbatim, including error sentinels.
func (a *ContentGenerationAgent) Generate(ctx context.Context, title, description, kbSolution string) (string, error) {
	prompt, err := util.Render(contentPrompt, map[string]any{
		"Title":       title,
		"Description": description,
		"Solution":    kbSolution,
	})
	if err != nil {
		return "", fmt.Errorf("render content prompt: %w", err)
	}
	return a.complete(ctx, prompt), nil
}

// Process implements Agent. A sentinel reply is returned as an error so the
// runner can retry it.
func (a *ContentGenerationAgent) Process(ctx context.Context, in Input) (map[string]any, error) {
	reply, err := a.Generate(ctx, in.Title, in.Description, in.KnowledgeSolution)
	if err != nil {
		return nil, err
	}
	if completion.IsError(reply) {
		return nil, fmt.Errorf("content generation: %s", reply)
	}
	return map[string]any{"response": reply}, nil
}
