package util

import (
	"errors"
	"fmt"
	"sdo_backend/internal/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation failed")
	ErrPermissionDenied  = errors.New("permission denied")
)

// NotFoundErr wraps ErrNotFound with the missing entity and id.
func NotFoundErr(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// ValidationError is a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// TransitionError is an action attempted from a state that does not permit it.
type TransitionError struct {
	From   model.TaskStatus
	Action model.Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a task in status %s", e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
