package runner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/supportmesh/agent"
	"github.com/hupe1980/supportmesh/core"
)

// DefaultBatchTimeout bounds a Gather call when no timeout is given.
const DefaultBatchTimeout = 30 * time.Second

// Call is one invocation in a batch.
type Call func(ctx context.Context) (core.AgentResponse, error)

// Bind returns a Call invoking r with in.
func (r *Runner) Bind(in agent.Input) Call {
	return func(ctx context.Context) (core.AgentResponse, error) {
		return r.Invoke(ctx, in)
	}
}

// Gather runs calls concurrently and returns their responses in call order.
// All calls share one deadline of timeout (DefaultBatchTimeout if <= 0).
// When it passes, Gather returns core.ErrBatchTimeout with no results right
// away; calls still in flight see a cancelled context and their outcomes are
// discarded. The first call error cancels the batch and is returned.
func Gather(ctx context.Context, timeout time.Duration, calls ...Call) ([]core.AgentResponse, error) {
	if timeout <= 0 {
		timeout = DefaultBatchTimeout
	}
	batchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(batchCtx)
	results := make([]core.AgentResponse, len(calls))
	for i, call := range calls {
		g.Go(func() error {
			resp, err := call(gctx)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if isTimeout(batchCtx.Err()) && ctx.Err() == nil {
			return nil, timeoutError(timeout)
		}
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return results, nil
	case <-batchCtx.Done():
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, timeoutError(timeout)
	}
}

func timeoutError(timeout time.Duration) error {
	return fmt.Errorf("%w after %s", core.ErrBatchTimeout, timeout)
}
