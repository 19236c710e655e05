// Package domain holds the error taxonomy shared by the store, the services
// and the HTTP layer. Every typed error matches one sentinel through Is so
// callers can branch with errors.Is without knowing the concrete type.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors, one per failure class.
var (
	ErrValidation            = errors.New("validation failed")
	ErrDuplicate             = errors.New("duplicate record")
	ErrNotFound              = errors.New("record not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrStore                 = errors.New("store error")
	ErrImport                = errors.New("import failed")
	ErrConfirmationRequired  = errors.New("confirmation required")
	ErrUnauthenticated       = errors.New("unauthenticated")
)

// ValidationError lists the offending fields with a short code each
// (e.g. "binReference" -> "pattern").
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+"="+e.Fields[f])
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError from a field map. A nil or
// empty map yields a generic validation failure.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// FieldError is shorthand for a single-field ValidationError.
func FieldError(field, code string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: code}}
}

// DuplicateError reports a uniqueness violation.
type DuplicateError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s with duplicate %s", e.Entity, e.Field)
	}
	return fmt.Sprintf("%s with %s '%s' already exists", e.Entity, e.Field, e.Value)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// NotFoundError reports a lookup miss. Key is whatever the caller searched
// by (id, order number, bin reference, period).
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DependencyError reports a missing runtime collaborator (PDF renderer,
// spreadsheet parser, mailer).
type DependencyError struct {
	Dependency string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s is not available", e.Dependency)
}

func (e *DependencyError) Is(target error) bool { return target == ErrDependencyUnavailable }

// StoreError wraps a persistence failure. The original error is kept
// verbatim for the operator.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// ImportError reports a spreadsheet that cannot be turned into monthly metrics.
type ImportError struct {
	Reason string
}

func (e *ImportError) Error() string {
	return "import failed: " + e.Reason
}

func (e *ImportError) Is(target error) bool { return target == ErrImport }
