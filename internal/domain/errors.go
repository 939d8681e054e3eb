package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("conflict")

	// ErrNoCredentials is returned by the AI collaborator adapter when no API key is configured.
	ErrNoCredentials = errors.New("ai collaborator credentials not configured")
)

// Lookup failure kinds. They double as sentinels so callers can use errors.Is
// on a *LookupError without type assertions.
var (
	ErrConfigMissing   = errors.New("config missing")
	ErrUpstreamFailure = errors.New("upstream failure")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
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

// LookupError is returned when resolving a word through the AI collaborator fails.
// Kind is ErrConfigMissing or ErrUpstreamFailure.
type LookupError struct {
	Kind error
	Word string
	Err  error
}

func (e *LookupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("lookup %q: %v", e.Word, e.Kind)
	}
	return fmt.Sprintf("lookup %q: %v: %v", e.Word, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *LookupError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewConfigMissingError wraps err as a ConfigMissing lookup failure.
func NewConfigMissingError(word string, err error) *LookupError {
	return &LookupError{Kind: ErrConfigMissing, Word: word, Err: err}
}

// NewUpstreamError wraps err as an UpstreamFailure lookup failure.
func NewUpstreamError(word string, err error) *LookupError {
	return &LookupError{Kind: ErrUpstreamFailure, Word: word, Err: err}
}
