package service

import (
	"errors"
	"fmt"
)

// ErrTransitionNotAllowed marks a session status change rejected by the
// strict lifecycle order. Carried inside a ValidationError.
var ErrTransitionNotAllowed = errors.New("status transition not allowed")

// ValidationError marks malformed or missing required input. Maps to 400.
// Err, when set, carries the underlying sentinel for callers that need to
// distinguish domain rules from plain input errors.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a referenced entity that could not be resolved. Maps to
// 404. The offending identifier is embedded in the message.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Resource, e.ID)
}

func notFound(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

// IntegrityError marks an unexpected missing relation discovered during
// aggregation. This is a fatal data problem, not a user error. Maps to 500.
type IntegrityError struct {
	Message string
}

func (e *IntegrityError) Error() string { return e.Message }
