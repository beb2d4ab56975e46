package agent

import (
	"context"

	"github.com/hupe1980/supportmesh/completion"
	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/logging"
)

// Input is the ticket text plus the optional context individual agents
// embed in their prompts. Zero values mean "not set".
type Input struct {
	Title             string
	Description       string
	Category          string
	Priority          int
	KnowledgeSolution string
}

// InputFromTicket builds an Input from a stored ticket.
func InputFromTicket(t core.Ticket) Input {
	return Input{Title: t.Title, Description: t.Description, Category: t.Category, Priority: t.Priority}
}

// Agent is the capability contract every orchestrated agent satisfies.
//
// Process must return a non-empty mapping or an error. ValidateInput runs
// before any network call; SanitizeResponse coerces out-of-range fields.
type Agent interface {
	Name() string
	ValidateInput(in Input) error
	Process(ctx context.Context, in Input) (map[string]any, error)
	SanitizeResponse(result map[string]any) map[string]any
}

// Options configures the shared Base of every agent.
type Options struct {
	// Name overrides the agent name used for bus topics.
	Name string
	// MaxTokens is forwarded to the completion client (0 uses its default).
	MaxTokens int
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Base bundles identity, the completion client and the permissive defaults
// of the Agent contract. Embed it in concrete agents.
type Base struct {
	name      string
	client    completion.Completer
	maxTokens int
	logger    logging.Logger
}

// NewBase constructs a Base. defaultName is used unless Options.Name is set.
func NewBase(defaultName string, client completion.Completer, optFns ...func(o *Options)) Base {
	opts := Options{Name: defaultName, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return Base{name: opts.Name, client: client, maxTokens: opts.MaxTokens, logger: opts.Logger}
}

// Name returns the agent name.
func (b *Base) Name() string { return b.name }

// ValidateInput accepts everything.
func (b *Base) ValidateInput(Input) error { return nil }

// SanitizeResponse returns result unchanged.
func (b *Base) SanitizeResponse(result map[string]any) map[string]any { return result }

func (b *Base) complete(ctx context.Context, prompt string) string {
	reply := b.client.GetCompletion(ctx, prompt, b.maxTokens)
	b.logger.Debug("raw model reply", "agent", b.name, "reply", reply)
	return reply
}

func (b *Base) logParseFailure(reply string, err error) {
	b.logger.Warn("unparseable model reply, using defaults", "agent", b.name, "reply", reply, "error", err)
}
