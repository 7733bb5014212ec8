// Package apperr defines the error taxonomy shared by the monitoring
// core. The core never retries internally; it classifies failures and
// lets the caller decide.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a referenced monitor, configuration, trigger or
	// incident that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition marks a state-machine rule violation, such as
	// resolving an already-resolved alert trigger.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnavailable marks a collaborator timeout or connection failure.
	// Retryable by the caller with backoff.
	ErrUnavailable = errors.New("unavailable")

	// ErrInternal marks an unexpected derivation failure. Never silently
	// swallowed.
	ErrInternal = errors.New("internal error")
)

// ValidationError rejects a request before any mutation occurs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func NotFound(resource string, id any) error {
	return fmt.Errorf("%s %v: %w", resource, id, ErrNotFound)
}

func InvalidTransition(entity, from, to string) error {
	return fmt.Errorf("%s cannot move from %q to %q: %w", entity, from, to, ErrInvalidTransition)
}

func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrUnavailable)
}

func Internal(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrInternal)
}
