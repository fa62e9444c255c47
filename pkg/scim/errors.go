package scim

import (
	"errors"
	"fmt"
)

// ErrEnvelope is the sentinel all SCIM envelope failures unwrap to.
var ErrEnvelope = errors.New("scim envelope error")

// EnvelopeError reports a SCIM response where the HTTP status and the
// Errors field do not both indicate success: a non-2xx status, or a 2xx
// status whose body still carries Errors. It is distinguishable from a true
// network failure, which surfaces as a transport error instead.
type EnvelopeError struct {
	Operation  string
	StatusCode int
	Errors     any
}

// Error implements the error interface.
func (e *EnvelopeError) Error() string {
	if e.Errors != nil {
		return fmt.Sprintf("%s: envelope error (status %d): %v", e.Operation, e.StatusCode, e.Errors)
	}
	return fmt.Sprintf("%s: envelope error (status %d)", e.Operation, e.StatusCode)
}

// Unwrap makes the error match ErrEnvelope via errors.Is.
func (e *EnvelopeError) Unwrap() error {
	return ErrEnvelope
}
