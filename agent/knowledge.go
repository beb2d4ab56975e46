package agent

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/supportmesh/completion"
	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/internal/textutil"
	"github.com/hupe1980/supportmesh/internal/util"
)

// NoRelevantSolution is the reply the model gives when no entry applies.
const NoRelevantSolution = "NO_RELEVANT_SOLUTION"

// DefaultMaxEntries bounds how many knowledge entries go into one prompt.
const DefaultMaxEntries = 20

var knowledgePrompt = util.MustParse("knowledge", `
Given this support ticket:
Title: {{.Title}}
Description: {{.Description}}

Find the most relevant solution from these knowledge base entries:
{{range .Entries}}- {{.}}
{{end}}
Return only the most relevant solution.
If none of the entries is relevant, reply exactly {{.None}}.
`)

// KnowledgeBaseAgent picks the most relevant knowledge base entry for a
// ticket. It reads entries from a core.KnowledgeStore; store failures wrap
// core.ErrStorage and are not retried here.
type KnowledgeBaseAgent struct {
	Base
	store      core.KnowledgeStore
	maxEntries int
}

// NewKnowledgeBaseAgent creates the knowledge search agent.
func NewKnowledgeBaseAgent(client completion.Completer, store core.KnowledgeStore, optFns ...func(o *Options)) *KnowledgeBaseAgent {
	return &KnowledgeBaseAgent{
		Base:       NewBase("KnowledgeBaseAgent", client, optFns...),
		store:      store,
		maxEntries: DefaultMaxEntries,
	}
}

// SetMaxEntries changes how many entries are offered to the model (n > 0).
func (a *KnowledgeBaseAgent) SetMaxEntries(n int) {
	if n > 0 {
		a.maxEntries = n
	}
}

// Search returns the relevant solution and true, or false when the store is
// empty, no entry has content, the model finds nothing relevant or the
// completion failed.
func (a *KnowledgeBaseAgent) Search(ctx context.Context, title, description string) (string, bool, error) {
	entries, err := a.store.KnowledgeBaseEntries(ctx, "")
	if err != nil {
		return "", false, fmt.Errorf("%w: list knowledge base entries: %w", core.ErrStorage, err)
	}

	contents := a.rankContents(entries, textutil.Keywords(textutil.Normalize(title+" "+description)))
	if len(contents) == 0 {
		return "", false, nil
	}

	prompt, err := util.Render(knowledgePrompt, map[string]any{
		"Title":       title,
		"Description": description,
		"Entries":     contents,
		"None":        NoRelevantSolution,
	})
	if err != nil {
		return "", false, fmt.Errorf("render knowledge prompt: %w", err)
	}

	reply := strings.TrimSpace(a.complete(ctx, prompt))
	switch {
	case reply == NoRelevantSolution:
		return "", false, nil
	case completion.IsError(reply):
		a.logParseFailure(reply, fmt.Errorf("completion failed"))
		return "", false, nil
	}
	return reply, true, nil
}

// rankContents drops entries without content and orders the rest by keyword
// overlap with the ticket, keeping store order for ties.
func (a *KnowledgeBaseAgent) rankContents(entries []core.KnowledgeEntry, keywords []string) []string {
	type scored struct {
		content string
		score   int
	}
	candidates := make([]scored, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Content) == "" {
			continue
		}
		words := textutil.Normalize(e.Title + " " + e.Content + " " + strings.Join(e.Tags, " "))
		score := 0
		for _, k := range keywords {
			if strings.Contains(words, k) {
				score++
			}
		}
		candidates = append(candidates, scored{content: e.Content, score: score})
	}

	slices.SortStableFunc(candidates, func(x, y scored) int { return y.score - x.score })
	if len(candidates) > a.maxEntries {
		candidates = candidates[:a.maxEntries]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.content
	}
	return out
}

// Process implements Agent. A search without a match is a successful
// result with found=false.
func (a *KnowledgeBaseAgent) Process(ctx context.Context, in Input) (map[string]any, error) {
	solution, found, err := a.Search(ctx, in.Title, in.Description)
	if err != nil {
		return nil, err
	}
	return map[string]any{"solution": solution, "found": found}, nil
}
