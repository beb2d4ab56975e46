package core

import "errors"

var (
	// ErrMissingAPIKey reports that no completion API key is configured.
	ErrMissingAPIKey = errors.New("missing completion api key")

	// ErrInvalidInput reports input rejected by an agent before any model call.
	ErrInvalidInput = errors.New("invalid input parameters")

	// ErrStorage wraps failures reported by ticket or knowledge stores.
	ErrStorage = errors.New("storage error")

	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyResult reports an agent that returned no data.
	ErrEmptyResult = errors.New("agent returned empty result")

	// ErrInvalidResponse reports an AgentResponse that violates its invariant.
	ErrInvalidResponse = errors.New("invalid agent response")

	// ErrBatchTimeout reports a fan-out that did not finish before its deadline.
	ErrBatchTimeout = errors.New("batch timed out")
)
