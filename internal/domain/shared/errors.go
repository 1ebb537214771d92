// Package shared contains common domain types and errors that are used across
// all tenancy domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds. Every error returned by the tenancy engine matches exactly
// one of them with errors.Is().
var (
	// ErrValidation - caller-supplied data violates a field-level rule.
	ErrValidation = errors.New("validation error")

	// ErrNotFound - a referenced aggregate does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict - the operation is not allowed in the current state.
	ErrConflict = errors.New("conflict")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "lease", "contract", "review"
	Op      string // Operation that failed, e.g., "Open", "Complete"
	Kind    error  // Base error kind for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Validation builds a validation error for the given domain operation.
func Validation(domain, op, format string, args ...any) *DomainError {
	return NewDomainError(domain, op, ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound builds a not-found error for the given domain operation.
func NotFound(domain, op, format string, args ...any) *DomainError {
	return NewDomainError(domain, op, ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflict builds a conflict error for the given domain operation.
func Conflict(domain, op, format string, args ...any) *DomainError {
	return NewDomainError(domain, op, ErrConflict, fmt.Sprintf(format, args...))
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if the error is a state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// KindOf returns the base kind of err, or nil when err is not a domain error.
func KindOf(err error) error {
	switch {
	case IsValidation(err):
		return ErrValidation
	case IsNotFound(err):
		return ErrNotFound
	case IsConflict(err):
		return ErrConflict
	default:
		return nil
	}
}
