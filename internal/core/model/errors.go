package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the store, its backends and the transports.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// ValidationError describes a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError wraps ErrNotFound with the missing entry id.
func NotFoundError(id EntryID) error {
	return fmt.Errorf("schedule entry %d: %w", id, ErrNotFound)
}
