package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/supportmesh/agent"
	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/logging"
)

// Defaults applied by New.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
	DefaultWorkers     = 3
)

// Func is one unit of retried work. A nil or empty result counts as a
// failed attempt. Non-map results are wrapped as {"result": value}.
type Func func(ctx context.Context) (any, error)

// Options holds configuration overrides passed to New.
type Options struct {
	// MaxAttempts is the attempt budget per invocation.
	MaxAttempts int
	// RetryDelay is the base delay handed to Backoff.
	RetryDelay time.Duration
	// Backoff computes the wait between attempts (LinearBackoff if nil).
	Backoff BackoffFunc
	// Workers bounds concurrent attempts of this runner.
	Workers int
	// Bus receives one success or error event per invocation. Nil disables
	// publishing.
	Bus *core.Bus
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// agentCallLogger is satisfied by logging.StructuredLogger.
type agentCallLogger interface {
	LogAgentCall(agent string, attempt int, dur time.Duration, success bool, err error)
}

// Runner executes one agent with retries, timing, a bounded worker pool and
// event publication. Public methods are safe for concurrent use.
type Runner struct {
	name     string
	agent    agent.Agent
	sanitize func(map[string]any) map[string]any

	maxAttempts int
	retryDelay  time.Duration
	backoff     BackoffFunc
	pool        *semaphore.Weighted
	bus         *core.Bus
	logger      logging.Logger
}

// New constructs a Runner for a.
func New(a agent.Agent, optFns ...func(o *Options)) *Runner {
	r := newRunner(a.Name(), optFns...)
	r.agent = a
	r.sanitize = a.SanitizeResponse
	return r
}

// NewNamed constructs a Runner for plain functions passed to Do. Events are
// published under name.
func NewNamed(name string, optFns ...func(o *Options)) *Runner {
	return newRunner(name, optFns...)
}

func newRunner(name string, optFns ...func(o *Options)) *Runner {
	opts := Options{
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
		Backoff:     LinearBackoff,
		Workers:     DefaultWorkers,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Backoff == nil {
		opts.Backoff = LinearBackoff
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Runner{
		name:        name,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		backoff:     opts.Backoff,
		pool:        semaphore.NewWeighted(int64(opts.Workers)),
		bus:         opts.Bus,
		logger:      opts.Logger,
	}
}

// Name returns the name events are published under.
func (r *Runner) Name() string { return r.name }

// Invoke validates in and runs the agent through Do. A validation error is
// returned as is, without model calls, retries or events. Every other
// failure is reported through the returned envelope.
func (r *Runner) Invoke(ctx context.Context, in agent.Input) (core.AgentResponse, error) {
	if r.agent == nil {
		return core.AgentResponse{}, fmt.Errorf("runner %s has no agent", r.name)
	}
	if err := r.agent.ValidateInput(in); err != nil {
		return core.AgentResponse{}, err
	}
	return r.Do(ctx, func(ctx context.Context) (any, error) {
		return r.agent.Process(ctx, in)
	})
}

// Do runs fn up to MaxAttempts times, stopping early on a Permanent or storage
// failure. The returned error is non-nil only when
// a successful result violates the envelope invariant or a bus subscriber
// fails; attempt failures end up in a failed envelope.
func (r *Runner) Do(ctx context.Context, fn Func) (core.AgentResponse, error) {
	var (
		lastErr error
		elapsed time.Duration
	)

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		var data map[string]any
		data, elapsed, lastErr = r.attempt(ctx, fn)
		r.logAttempt(attempt, elapsed, lastErr)

		if lastErr == nil {
			if r.sanitize != nil {
				data = r.sanitize(data)
			}
			resp := core.NewSuccessResponse(r.name, data, elapsed)
			if err := resp.Validate(); err != nil {
				return resp, err
			}
			return resp, r.publish(core.SuccessTopic(r.name), resp)
		}

		if ctx.Err() != nil || attempt == r.maxAttempts || isPermanent(lastErr) {
			break
		}
		if err := sleep(ctx, r.backoff(r.retryDelay, attempt)); err != nil {
			break
		}
	}

	resp := core.NewErrorResponse(r.name, lastErr.Error(), elapsed)
	return resp, r.publish(core.ErrorTopic(r.name), resp)
}

// attempt runs fn on a pool slot and times it.
func (r *Runner) attempt(ctx context.Context, fn Func) (data map[string]any, elapsed time.Duration, err error) {
	if err := r.pool.Acquire(ctx, 1); err != nil {
		return nil, 0, err
	}
	defer r.pool.Release(1)

	start := time.Now()
	defer func() {
		elapsed = time.Since(start)
		if rec := recover(); rec != nil {
			data, err = nil, fmt.Errorf("%s panicked: %v", r.name, rec)
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		return nil, 0, err
	}
	data, err = toResult(v)
	return data, 0, err
}

func toResult(v any) (map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, core.ErrEmptyResult
	case map[string]any:
		if len(t) == 0 {
			return nil, core.ErrEmptyResult
		}
		return t, nil
	case string:
		if t == "" {
			return nil, core.ErrEmptyResult
		}
	}
	return map[string]any{"result": v}, nil
}

func (r *Runner) publish(topic string, resp core.AgentResponse) error {
	if r.bus == nil {
		return nil
	}
	if _, err := r.bus.Publish(topic, resp.Message()); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (r *Runner) logAttempt(attempt int, dur time.Duration, err error) {
	if l, ok := r.logger.(agentCallLogger); ok {
		l.LogAgentCall(r.name, attempt, dur, err == nil, err)
		return
	}
	if err != nil {
		r.logger.Warn("agent attempt failed", "agent", r.name, "attempt", attempt, "duration", dur, "error", err)
		return
	}
	r.logger.Debug("agent attempt succeeded", "agent", r.name, "attempt", attempt, "duration", dur)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// permanentError marks a failure that another attempt cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that Do reports it without further attempts.
// Errors wrapping core.ErrStorage are treated as permanent already.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func isPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p) || errors.Is(err, core.ErrStorage)
}

// isTimeout reports whether err stems from a context deadline.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
