// Package supportmesh is the high-level façade over the ticket intake
// pipeline. It wires configuration, the completion client, the event bus,
// the eight specialized agents with their retrying runners and the ticket
// and knowledge stores. Most applications interact with this package by:
//  1. Loading a config.Config (or using config.Defaults())
//  2. Creating a Mesh via New()
//  3. Calling ProcessTicket for intake and Analyze for deeper triage
//
// All defaults are safe for local development: tickets and knowledge live in
// memory unless a SQL store is configured, and tests inject a model to avoid
// network calls.
package supportmesh

import (
	"context"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/supportmesh/agent"
	"github.com/hupe1980/supportmesh/completion"
	"github.com/hupe1980/supportmesh/config"
	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/logging"
	"github.com/hupe1980/supportmesh/model"
	"github.com/hupe1980/supportmesh/model/anthropic"
	"github.com/hupe1980/supportmesh/model/openai"
	"github.com/hupe1980/supportmesh/runner"
	"github.com/hupe1980/supportmesh/store"
)

// Options configures the Mesh instance.
type Options struct {
	// Config (defaults to config.Defaults() if nil)
	Config *config.Config
	// Model replaces the configured provider. When set, no API key is
	// required.
	Model model.Model
	// Store replaces the configured backend. The Mesh does not close an
	// injected store.
	Store store.Store
	// Bus receives all agent outcome events (a new bus if nil).
	Bus *core.Bus
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Mesh runs the ticket intake pipeline.
type Mesh struct {
	cfg       config.Config
	bus       *core.Bus
	store     store.Store
	ownsStore bool
	client    *completion.Client
	logger    logging.Logger

	classifier *runner.Runner
	knowledge  *runner.Runner
	content    *runner.Runner
	priority   *runner.Runner
	semantics  *runner.Runner
	intent     *runner.Runner
	solution   *runner.Runner
	automation *runner.Runner
}

// New creates a Mesh. Unless Options.Model is set, the API key named by the
// provider config must be present; its absence is reported as an error
// wrapping core.ErrMissingAPIKey before any agent runs.
func New(ctx context.Context, optFns ...func(o *Options)) (*Mesh, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	cfg := config.Defaults()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	m := opts.Model
	if m == nil {
		var err error
		if m, err = newModel(&cfg); err != nil {
			return nil, err
		}
	}

	backoff, err := runner.BackoffByName(cfg.Agents.Backoff)
	if err != nil {
		return nil, err
	}

	mesh := &Mesh{
		cfg:    cfg,
		bus:    opts.Bus,
		store:  opts.Store,
		logger: opts.Logger,
	}
	if mesh.bus == nil {
		mesh.bus = core.NewBus()
	}
	if mesh.store == nil {
		if mesh.store, err = store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN); err != nil {
			return nil, err
		}
		mesh.ownsStore = true
	}

	mesh.client = completion.New(m, func(o *completion.Options) {
		o.Temperature = cfg.Completion.Temperature
		o.CacheSize = cfg.Completion.CacheSize
		o.Logger = opts.Logger
	})

	agentOpts := func(o *agent.Options) {
		o.MaxTokens = cfg.Completion.MaxTokens
		o.Logger = opts.Logger
	}
	runnerOpts := func(o *runner.Options) {
		o.MaxAttempts = cfg.Agents.MaxAttempts
		o.RetryDelay = cfg.Agents.RetryDelay
		o.Backoff = backoff
		o.Workers = cfg.Agents.Workers
		o.Bus = mesh.bus
		o.Logger = opts.Logger
	}
	wrap := func(a agent.Agent) *runner.Runner { return runner.New(a, runnerOpts) }

	mesh.classifier = wrap(agent.NewTicketClassificationAgent(mesh.client, agentOpts))
	mesh.knowledge = wrap(agent.NewKnowledgeBaseAgent(mesh.client, mesh.store, agentOpts))
	mesh.content = wrap(agent.NewContentGenerationAgent(mesh.client, agentOpts))
	mesh.priority = wrap(agent.NewPriorityUnderstandingAgent(mesh.client, agentOpts))
	mesh.semantics = wrap(agent.NewLanguageSemanticsAgent(mesh.client, agentOpts))
	mesh.intent = wrap(agent.NewIntentExtractionAgent(mesh.client, agentOpts))
	mesh.solution = wrap(agent.NewSolutionRecommendationAgent(mesh.client, agentOpts))
	mesh.automation = wrap(agent.NewAutomatedResolutionAgent(mesh.client, agentOpts))

	return mesh, nil
}

func newModel(cfg *config.Config) (model.Model, error) {
	key, err := cfg.RequireAPIKey()
	if err != nil {
		return nil, err
	}
	p := cfg.Provider
	switch p.Name {
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = key
			o.BaseURL = p.BaseURL
			if p.Model != "" {
				o.Model = anthropicsdk.Model(p.Model)
			}
			o.Temperature = cfg.Completion.Temperature
			o.MaxTokens = int64(cfg.Completion.MaxTokens)
		}), nil
	case "groq", "openai":
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = key
			o.BaseURL = p.BaseURL
			o.Model = p.Model
			o.Provider = p.Name
			o.Temperature = cfg.Completion.Temperature
			o.MaxTokens = int64(cfg.Completion.MaxTokens)
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", p.Name)
	}
}

// Bus returns the event bus all runners publish to.
func (m *Mesh) Bus() *core.Bus { return m.bus }

// Store returns the ticket and knowledge store.
func (m *Mesh) Store() store.Store { return m.store }

// Model returns metadata of the completion model in use.
func (m *Mesh) Model() model.Info { return m.client.Model() }

// Close releases the store when the Mesh opened it.
func (m *Mesh) Close() error {
	if m.ownsStore {
		return m.store.Close()
	}
	return nil
}
