// Package common defines shared constants and sentinel errors used across the
// Housers client layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Transport errors (backend unreachable, timeouts, 5xx).
	ErrNetwork = errors.New("network error")

	// ErrFetch wraps a failed notification load.
	ErrFetch = errors.New("fetch error")

	// Lookup errors. Most lookups treat "no rows" as an empty result instead.
	ErrNotFound = errors.New("not found")

	// Auth errors.
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
	ErrNoSession      = errors.New("not signed in")

	// Malformed user input.
	ErrValidation = errors.New("validation error")
)

// ValidationError reports malformed user input for a single form field.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid is shorthand for constructing a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
