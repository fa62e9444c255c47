package dispatch

import (
	"errors"
	"fmt"
)

// ErrThrottleExhausted is the sentinel all retry-budget failures unwrap to.
var ErrThrottleExhausted = errors.New("throttle retry budget exhausted")

// ThrottleError is the throttle signal: the server asked the caller to slow
// down (conventionally an HTTP 429). Transports return it to make dispatch
// retry; it is distinct from a hard transport failure.
type ThrottleError struct {
	// Method is the logical operation that was throttled.
	Method string

	// RetryAfter is the raw server hint, typically the Retry-After header.
	// May be empty or malformed; NextDelay handles both.
	RetryAfter string
}

// Error implements the error interface.
func (e *ThrottleError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("%s: throttled by server (retry after %s)", e.Method, e.RetryAfter)
	}
	return fmt.Sprintf("%s: throttled by server", e.Method)
}

// ThrottleExhaustedError is returned when the server kept throttling through
// the whole retry budget.
type ThrottleExhaustedError struct {
	Method   string
	Attempts int
}

// Error implements the error interface.
func (e *ThrottleExhaustedError) Error() string {
	return fmt.Sprintf("%s: still throttled after %d attempts", e.Method, e.Attempts)
}

// Unwrap makes the error match ErrThrottleExhausted via errors.Is.
func (e *ThrottleExhaustedError) Unwrap() error {
	return ErrThrottleExhausted
}
