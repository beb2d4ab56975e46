// Package runner wraps agents with the orchestration behavior they share.
//
// A Runner owns one agent and a small worker pool. Invoke validates the
// input, then runs the agent's Process through Do, which retries failed or
// empty attempts with a configurable backoff, times each attempt, sanitizes
// and validates the result and publishes exactly one success or error event
// to the injected core.Bus.
//
// Gather fans several invocations out concurrently under a single batch
// deadline. The batch is all-or-nothing: when the deadline passes, in-flight
// calls are cancelled through their context and no partial results are
// returned.
package runner
