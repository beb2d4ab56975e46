package runner

import (
	"fmt"
	"strings"
	"time"
)

// BackoffFunc returns the wait before the retry that follows the given
// failed attempt (1-based).
type BackoffFunc func(base time.Duration, attempt int) time.Duration

// LinearBackoff waits base * attempt.
func LinearBackoff(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(attempt)
}

// ExponentialBackoff waits base * 2^(attempt-1).
func ExponentialBackoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(1<<(attempt-1))
}

// BackoffByName resolves "linear" (or "") and "exponential".
func BackoffByName(name string) (BackoffFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return LinearBackoff, nil
	case "exponential":
		return ExponentialBackoff, nil
	default:
		return nil, fmt.Errorf("unknown backoff %q", name)
	}
}
