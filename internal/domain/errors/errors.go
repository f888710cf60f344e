package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrConflictRace       = errors.New("concurrent update conflict")
)

// ValidationError reports malformed or out-of-range input. It is surfaced to
// the caller immediately and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation builds a ValidationError for a single field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PreconditionError reports a state-machine guard that was not met. Guard
// carries the specific invariant so callers can explain the conflict.
type PreconditionError struct {
	Guard string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Guard
}

func (e *PreconditionError) Unwrap() error { return ErrPreconditionFailed }

// Precondition builds a PreconditionError for a named guard.
func Precondition(guard string) error {
	return &PreconditionError{Guard: guard}
}
