package custom_error

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed input. Always caller-fixable, never
// partially applied.
type ValidationError struct {
	Property string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Property == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Property, e.Message)
}

func NewValidation(property, message string) *ValidationError {
	return &ValidationError{Property: property, Message: message}
}

// InvalidTransitionError marks an operation attempted on an aggregate that is
// not in the required source state, e.g. approving an already-approved claim.
// Distinct from validation so callers can tell "fix your input" from
// "someone else already acted".
type InvalidTransitionError struct {
	Resource string
	ID       int
	Current  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %d cannot transition from status %q", e.Resource, e.ID, e.Current)
}

func NewInvalidTransition(resource string, id int, current string) *InvalidTransitionError {
	return &InvalidTransitionError{Resource: resource, ID: id, Current: current}
}

type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func NewNotFound(resource string, id int) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError marks a write that lost a race or violated a database
// constraint. Safe to retry the whole operation from scratch.
type ConflictError struct {
	Message string
	Code    string // PostgreSQL error code (e.g., "23505")
}

func (e *ConflictError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (code: %s)", e.Message, e.Code)
}

// WrapRefError classifies errors from inserts that reference another
// resource: a foreign key violation means the referenced resource does not
// exist, so it surfaces as not-found rather than conflict.
func WrapRefError(resource, code string) error {
	if code == "23503" {
		return &NotFoundError{Resource: resource}
	}
	return WrapDBError(resource, code)
}

func WrapDBError(message, code string) error {
	switch code {
	case "23505":
		return &ConflictError{Message: message, Code: code}
	case "23503":
		return &ConflictError{Message: "Value references a missing or used resource: " + message, Code: code}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}
