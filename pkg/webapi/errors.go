package webapi

import (
	"errors"
	"fmt"
)

// ErrNotOK is the sentinel all non-ok envelope failures unwrap to.
var ErrNotOK = errors.New("slack api returned ok=false")

// APIError is a Web API response whose envelope carried ok=false. Code is
// the machine-readable error string from the body (e.g. "user_not_found");
// Body is the full decoded response for callers that need more.
type APIError struct {
	Method string
	Code   string
	Body   map[string]any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Method, e.Code)
	}
	return fmt.Sprintf("%s: request was not ok", e.Method)
}

// Unwrap makes the error match ErrNotOK via errors.Is.
func (e *APIError) Unwrap() error {
	return ErrNotOK
}

// StatusError is a non-throttling HTTP failure from the Web API endpoint.
// It is propagated unchanged by the dispatcher, never retried.
type StatusError struct {
	Method     string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected HTTP status %d", e.Method, e.StatusCode)
}
