package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// TransitionError reports an attempt to move a checklist between two
// statuses the lifecycle does not connect.
type TransitionError struct {
	From ChecklistStatus
	To   ChecklistStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition from %s to %s is not allowed", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrConflict }

// ApprovalGateError lists the items that block an approval action:
// either required responses that were never recorded, or responses
// still waiting on a reviewer decision.
type ApprovalGateError struct {
	Reason  string
	ItemIDs []uuid.UUID
}

func (e *ApprovalGateError) Error() string {
	return fmt.Sprintf("%s: %d item(s)", e.Reason, len(e.ItemIDs))
}

func (e *ApprovalGateError) Unwrap() error { return ErrConflict }
