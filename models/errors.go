// ABOUTME: Typed errors shared by the CRM core
// ABOUTME: NotFoundError for unresolved ids, ValidationError for missing required input
package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// NotFoundError reports a contact, task or interaction id that does not resolve.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports a missing or malformed field at the input boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Required builds the ValidationError for an empty required field.
func Required(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}
