package core

import (
	"fmt"
	"maps"
	"time"
)

// AgentResponse is the outcome of one orchestrated agent invocation. It is
// built once by the runner and must be treated as immutable afterwards; Data
// returns a copy so callers cannot mutate the envelope through it.
type AgentResponse struct {
	success       bool
	data          map[string]any
	err           string
	timestamp     time.Time
	agentName     string
	executionTime time.Duration
}

// NewSuccessResponse builds a successful envelope around data.
func NewSuccessResponse(agentName string, data map[string]any, executionTime time.Duration) AgentResponse {
	return AgentResponse{
		success:       true,
		data:          maps.Clone(data),
		timestamp:     time.Now().UTC(),
		agentName:     agentName,
		executionTime: executionTime,
	}
}

// NewErrorResponse builds a failed envelope carrying errMsg.
func NewErrorResponse(agentName, errMsg string, executionTime time.Duration) AgentResponse {
	return AgentResponse{
		success:       false,
		err:           errMsg,
		timestamp:     time.Now().UTC(),
		agentName:     agentName,
		executionTime: executionTime,
	}
}

// Success reports whether the invocation produced data.
func (r AgentResponse) Success() bool { return r.success }

// Data returns a copy of the result mapping (nil for failures).
func (r AgentResponse) Data() map[string]any { return maps.Clone(r.data) }

// Error returns the failure message (empty for successes).
func (r AgentResponse) Error() string { return r.err }

// Timestamp returns the UTC instant the envelope was created.
func (r AgentResponse) Timestamp() time.Time { return r.timestamp }

// AgentName returns the name of the agent that produced the envelope.
func (r AgentResponse) AgentName() string { return r.agentName }

// ExecutionTime returns the wall-clock duration of the final attempt.
func (r AgentResponse) ExecutionTime() time.Duration { return r.executionTime }

// Get returns a single data field.
func (r AgentResponse) Get(key string) (any, bool) {
	v, ok := r.data[key]
	return v, ok
}

// Validate checks the envelope invariant: failures carry an error message
// and successes carry non-empty data.
func (r AgentResponse) Validate() error {
	if !r.success && r.err == "" {
		return fmt.Errorf("%w: failed response without error message", ErrInvalidResponse)
	}
	if r.success && len(r.data) == 0 {
		return fmt.Errorf("%w: successful response without data", ErrInvalidResponse)
	}
	return nil
}

// Message renders the envelope as a bus message.
func (r AgentResponse) Message() map[string]any {
	msg := map[string]any{
		"success":        r.success,
		"agent_name":     r.agentName,
		"execution_time": r.executionTime.Seconds(),
		"timestamp":      r.timestamp,
	}
	if r.data != nil {
		msg["data"] = maps.Clone(r.data)
	}
	if r.err != "" {
		msg["error"] = r.err
	}
	return msg
}
