// Package core defines the domain errors shared by the form packages.
package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation ErrorCategory = "validation" // Invalid input
	ErrCatNotFound   ErrorCategory = "not_found"  // Resource not found
	ErrCatConflict   ErrorCategory = "conflict"   // Operation refused in current state
	ErrCatSchema     ErrorCategory = "schema"     // Schema/settings contract violation
	ErrCatInternal   ErrorCategory = "internal"   // Unexpected internal error
)

// DomainError represents a structured error from the domain layer.
type DomainError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
	Details  map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatValidation,
		Code:     code,
		Message:  message,
	}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) *DomainError {
	return &DomainError{
		Category: ErrCatNotFound,
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrConflict creates a conflict error.
func ErrConflict(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatConflict,
		Code:     code,
		Message:  message,
	}
}

// ErrSchemaLookup matches every SchemaLookupError through errors.Is.
var ErrSchemaLookup = &DomainError{Category: ErrCatSchema, Code: CodeSchemaLookup}

// SchemaLookupError reports a (section, property) pair that is entirely
// absent from the schema. It is a data/programming error and is not meant
// to be recovered from locally.
type SchemaLookupError struct {
	Section  string
	Property string
}

func (e *SchemaLookupError) Error() string {
	return fmt.Sprintf("can't find data for %s.%s", e.Section, e.Property)
}

// Is reports a match against ErrSchemaLookup.
func (e *SchemaLookupError) Is(target error) bool {
	return target == ErrSchemaLookup
}

// Key returns the dotted section.property key.
func (e *SchemaLookupError) Key() string {
	return e.Section + "." + e.Property
}

// IsSchemaLookup reports whether err is (or wraps) a SchemaLookupError.
func IsSchemaLookup(err error) bool {
	return errors.Is(err, ErrSchemaLookup)
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	if IsSchemaLookup(err) {
		return ErrCatSchema
	}
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// Predefined error codes
const (
	CodeNotFound     = "NOT_FOUND"
	CodeSchemaLookup = "SCHEMA_LOOKUP"

	// Validation error codes
	CodeInvalidNumber   = "INVALID_NUMBER"
	CodeInvalidValue    = "INVALID_VALUE"
	CodeInvalidKind     = "INVALID_KIND"
	CodeInvalidIndex    = "INVALID_INDEX"
	CodeInvalidSchema   = "INVALID_SCHEMA"
	CodeInvalidPreset   = "INVALID_PRESET"
	CodeNotRendered     = "NOT_RENDERED"
	CodeConfirmRequired = "CONFIRMATION_REQUIRED"
)
