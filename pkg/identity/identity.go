// Package identity validates resource identifiers before they are embedded
// in request paths or arguments. Slack IDs are alphanumeric with hyphens and
// underscores; anything else (path traversal, embedded whitespace, shell or
// SQL metacharacters) is rejected before a URL is ever built.
package identity

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrInvalidIdentifier is the sentinel all identifier validation failures
// unwrap to.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// InvalidIdentifierError reports a rejected identifier together with the
// label of the field it was supplied for.
type InvalidIdentifierError struct {
	Label string
	Value string
}

// Error implements the error interface.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Label, e.Value)
}

// Unwrap makes the error match ErrInvalidIdentifier via errors.Is.
func (e *InvalidIdentifierError) Unwrap() error {
	return ErrInvalidIdentifier
}

// ValidateID checks that value is a well-formed resource identifier and
// returns it unchanged. The label names the field in the returned error.
//
// The Required rule carries the empty case; Match treats an empty string as
// valid, so both rules are needed. Padding is not trimmed: a padded value is
// not the identifier it contains.
//
// Must be called before the value reaches any path or payload construction,
// never after.
func ValidateID(value, label string) (string, error) {
	err := validation.Validate(value,
		validation.Required,
		validation.Match(idPattern),
	)
	if err != nil {
		return "", &InvalidIdentifierError{Label: label, Value: value}
	}
	return value, nil
}
