// Package validation holds the error type shared by every domain package for
// input rejected before it reaches the store.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation matches every *Error via errors.Is.
var ErrValidation = errors.New("validation failed")

// Error describes a rejected field.
type Error struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// New builds a validation error for field.
func New(field, reason string) *Error {
	return &Error{Field: field, Reason: reason}
}

// Required rejects blank or whitespace-only values.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(field, "is required")
	}
	return nil
}
