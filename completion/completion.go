// Package completion implements the text-completion boundary used by every
// agent. A Client issues exactly one model call per GetCompletion and never
// returns an error: failures are reported as strings beginning with
// ErrorPrefix, which callers must check before parsing a reply.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hupe1980/supportmesh/logging"
	"github.com/hupe1980/supportmesh/model"
)

// ErrorPrefix starts every sentinel reply.
const ErrorPrefix = "Error:"

// Sentinel replies.
const (
	ReplyRequestFailed = "Error: Unable to process request"
	ReplyInvalidFormat = "Error: Invalid response format"
	ReplyUnexpected    = "Error: An unexpected error occurred"
)

// Request defaults.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// IsError reports whether reply is a sentinel produced by a Client.
func IsError(reply string) bool {
	return strings.HasPrefix(reply, ErrorPrefix)
}

// Completer is implemented by Client and by test doubles.
type Completer interface {
	GetCompletion(ctx context.Context, prompt string, maxTokens int) string
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, prompt string, maxTokens int) string

// GetCompletion implements Completer.
func (f CompleterFunc) GetCompletion(ctx context.Context, prompt string, maxTokens int) string {
	return f(ctx, prompt, maxTokens)
}

// Options configures a Client.
type Options struct {
	// Temperature is the fixed sampling temperature sent with every request.
	Temperature float64
	// CacheSize enables an LRU cache of successful replies keyed by prompt
	// and max tokens. Zero disables caching.
	CacheSize int
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

type cacheKey struct {
	prompt    string
	maxTokens int
}

// llmCallLogger is satisfied by logging.StructuredLogger.
type llmCallLogger interface {
	LogLLMCall(model string, tokens int, dur time.Duration, success bool, err error)
}

// Client wraps a model.Model with sentinel error reporting. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	model  model.Model
	opts   Options
	logger logging.Logger
	cache  *lru.Cache[cacheKey, string]
}

// New creates a Client over m.
func New(m model.Model, optFns ...func(o *Options)) *Client {
	opts := Options{
		Temperature: DefaultTemperature,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	c := &Client{model: m, opts: opts, logger: opts.Logger}
	if opts.CacheSize > 0 {
		if cache, err := lru.New[cacheKey, string](opts.CacheSize); err == nil {
			c.cache = cache
		}
	}
	return c
}

// Model returns metadata of the wrapped model.
func (c *Client) Model() model.Info { return c.model.Info() }

// GetCompletion sends prompt as a single-turn request. maxTokens <= 0 uses
// DefaultMaxTokens. Transport failures and non-2xx statuses yield
// ReplyRequestFailed, unusable bodies ReplyInvalidFormat and anything else
// ReplyUnexpected.
func (c *Client) GetCompletion(ctx context.Context, prompt string, maxTokens int) (reply string) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	key := cacheKey{prompt: prompt, maxTokens: maxTokens}
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			c.logger.Debug("completion cache hit", "model", c.model.Info().Name)
			return cached
		}
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.logCall(0, time.Since(start), fmt.Errorf("panic: %v", r))
			reply = ReplyUnexpected
		}
	}()

	resp, err := c.model.Complete(ctx, model.Request{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: c.opts.Temperature,
	})
	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = fmt.Errorf("%w: empty completion", model.ErrInvalidResponse)
	}

	tokens := 0
	if resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}
	c.logCall(tokens, time.Since(start), err)

	switch {
	case err == nil:
		if c.cache != nil {
			c.cache.Add(key, resp.Text)
		}
		return resp.Text
	case errors.Is(err, model.ErrInvalidResponse):
		return ReplyInvalidFormat
	case errors.Is(err, model.ErrRequest),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return ReplyRequestFailed
	default:
		return ReplyUnexpected
	}
}

func (c *Client) logCall(tokens int, dur time.Duration, err error) {
	name := c.model.Info().Name
	if l, ok := c.logger.(llmCallLogger); ok {
		l.LogLLMCall(name, tokens, dur, err == nil, err)
		return
	}
	if err != nil {
		c.logger.Error("completion failed", "model", name, "duration", dur, "error", err)
		return
	}
	c.logger.Debug("completion succeeded", "model", name, "duration", dur, "token_count", tokens)
}
