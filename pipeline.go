package supportmesh

import (
	"context"
	"fmt"

	"github.com/hupe1980/supportmesh/agent"
	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/runner"
)

// TicketResult is the outcome of ProcessTicket.
type TicketResult struct {
	TicketID       int64              `json:"ticket_id"`
	Category       string             `json:"category"`
	Priority       int                `json:"priority"`
	Solution       string             `json:"solution,omitempty"`
	SolutionFound  bool               `json:"solution_found"`
	Reply          string             `json:"reply,omitempty"`
	Classification core.AgentResponse `json:"-"`
	Knowledge      core.AgentResponse `json:"-"`
	Response       core.AgentResponse `json:"-"`
}

// ProcessTicket runs intake for a new ticket: classification and knowledge
// search run concurrently under the batch timeout, then the customer reply
// is generated and the ticket is saved with its category and priority.
//
// Blank titles or descriptions fail with core.ErrInvalidInput before any
// model call. Failed agent envelopes degrade to defaults: the default
// classification, no knowledge solution and an empty reply.
func (m *Mesh) ProcessTicket(ctx context.Context, title, description string) (*TicketResult, error) {
	in := agent.Input{Title: title, Description: description}

	responses, err := runner.Gather(ctx, m.cfg.Agents.BatchTimeout,
		m.classifier.Bind(in),
		m.knowledge.Bind(in),
	)
	if err != nil {
		return nil, err
	}

	res := &TicketResult{
		Category:       agent.DefaultCategory,
		Priority:       agent.DefaultPriority,
		Classification: responses[0],
		Knowledge:      responses[1],
	}
	if c := responses[0]; c.Success() {
		res.Category = field(c, "category", agent.DefaultCategory)
		res.Priority = field(c, "priority", agent.DefaultPriority)
	}
	res.Solution, res.SolutionFound = knowledgeSolution(responses[1])

	in.Category = res.Category
	in.Priority = res.Priority
	in.KnowledgeSolution = res.Solution
	resp, err := m.content.Invoke(ctx, in)
	if err != nil {
		return nil, err
	}
	res.Response = resp
	res.Reply = field(resp, "response", "")

	id, err := m.store.SaveTicket(ctx, core.Ticket{
		Title:       title,
		Description: description,
		Category:    res.Category,
		Priority:    res.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("save ticket: %w", err)
	}
	res.TicketID = id

	m.logger.Info("ticket processed",
		"ticket_id", id,
		"category", res.Category,
		"priority", res.Priority,
		"solution_found", res.SolutionFound,
	)
	return res, nil
}

// Analysis is the outcome of Analyze, one envelope per agent.
type Analysis struct {
	Priority   core.AgentResponse
	Semantics  core.AgentResponse
	Intent     core.AgentResponse
	Solution   core.AgentResponse
	Automation core.AgentResponse
}

// Responses returns the envelopes in a fixed order.
func (a *Analysis) Responses() []core.AgentResponse {
	return []core.AgentResponse{a.Priority, a.Semantics, a.Intent, a.Solution, a.Automation}
}

// Analyze fans the priority, semantics, intent, solution and automation
// agents out over one ticket. The batch is all-or-nothing: when the batch
// timeout passes the calls are cancelled and an error wrapping
// core.ErrBatchTimeout is returned.
func (m *Mesh) Analyze(ctx context.Context, in agent.Input) (*Analysis, error) {
	responses, err := runner.Gather(ctx, m.cfg.Agents.BatchTimeout,
		m.priority.Bind(in),
		m.semantics.Bind(in),
		m.intent.Bind(in),
		m.solution.Bind(in),
		m.automation.Bind(in),
	)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Priority:   responses[0],
		Semantics:  responses[1],
		Intent:     responses[2],
		Solution:   responses[3],
		Automation: responses[4],
	}, nil
}

// AnalyzeTicket loads a stored ticket and runs Analyze on it with the best
// knowledge base solution found for it.
func (m *Mesh) AnalyzeTicket(ctx context.Context, id int64) (*Analysis, error) {
	t, err := m.store.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	in := agent.InputFromTicket(t)

	kb, err := m.knowledge.Invoke(ctx, in)
	if err != nil {
		return nil, err
	}
	in.KnowledgeSolution, _ = knowledgeSolution(kb)
	return m.Analyze(ctx, in)
}

// field returns resp's data field key as T, or def when the response failed
// or the field is missing or of another type.
func field[T any](resp core.AgentResponse, key string, def T) T {
	if !resp.Success() {
		return def
	}
	v, ok := resp.Get(key)
	if !ok {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}

func knowledgeSolution(resp core.AgentResponse) (string, bool) {
	if !field(resp, "found", false) {
		return "", false
	}
	return field(resp, "solution", ""), true
}

// AddKnowledgeEntry stores a knowledge base article.
func (m *Mesh) AddKnowledgeEntry(ctx context.Context, e core.KnowledgeEntry) (int64, error) {
	return m.store.AddKnowledgeEntry(ctx, e)
}

// KnowledgeBaseEntries lists knowledge base articles, optionally filtered
// by category.
func (m *Mesh) KnowledgeBaseEntries(ctx context.Context, category string) ([]core.KnowledgeEntry, error) {
	return m.store.KnowledgeBaseEntries(ctx, category)
}
