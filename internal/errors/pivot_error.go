// Package errors provides standardized error types for pivot operations.
// This package defines PivotError for consistent error handling across
// all public APIs, with a machine-checkable kind, operation context and
// error wrapping support.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a PivotError so the boundary can dispatch on it
// without parsing messages.
type Kind int

const (
	// KindInternal covers failures that are not the caller's fault.
	KindInternal Kind = iota
	// KindUnknownColumn: the request references a column absent from the dataset.
	KindUnknownColumn
	// KindTypeMismatch: a filter operator was applied to an unsupported or
	// incompatible column type.
	KindTypeMismatch
	// KindAggregationNotApplicable: a numeric aggregation was requested on a
	// non-numeric field.
	KindAggregationNotApplicable
	// KindEmptyValueFields: the request carries no value fields.
	KindEmptyValueFields
	// KindInvalidRequest: the request shape is malformed (duplicate dimensions,
	// scalar operator with a list literal, In without a list).
	KindInvalidRequest
	// KindIO: reading or decoding an input failed.
	KindIO
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindUnknownColumn:
		return "UnknownColumn"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindAggregationNotApplicable:
		return "AggregationNotApplicable"
	case KindEmptyValueFields:
		return "EmptyValueFields"
	case KindInvalidRequest:
		return "InvalidRequest"
	case KindIO:
		return "IO"
	default:
		return "Internal"
	}
}

// PivotError represents standardized errors across all pivot operations
type PivotError struct {
	Kind    Kind   // Error classification
	Op      string // Operation name (e.g., "Filter", "Aggregate", "Validate")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *PivotError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *PivotError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *PivotError) Is(target error) bool {
	if pe, ok := target.(*PivotError); ok {
		return e.Kind == pe.Kind && e.Op == pe.Op && e.Column == pe.Column && e.Message == pe.Message
	}
	return false
}

// Common error constructors for consistent error creation

// NewUnknownColumnError creates an error for requests naming non-existent columns
func NewUnknownColumnError(op, column string) *PivotError {
	return &PivotError{
		Kind:    KindUnknownColumn,
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewTypeMismatchError creates an error for operators applied to unsupported types
func NewTypeMismatchError(op, column, message string) *PivotError {
	return &PivotError{
		Kind:    KindTypeMismatch,
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewAggregationNotApplicableError creates an error for numeric aggregations on
// non-numeric fields
func NewAggregationNotApplicableError(op, column, aggregation string) *PivotError {
	return &PivotError{
		Kind:    KindAggregationNotApplicable,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("aggregation %s requires a numeric field", aggregation),
	}
}

// NewEmptyValueFieldsError creates an error for requests with no value fields
func NewEmptyValueFieldsError(op string) *PivotError {
	return &PivotError{
		Kind:    KindEmptyValueFields,
		Op:      op,
		Message: "request has no value fields",
	}
}

// NewInvalidRequestError creates an error for malformed request shapes
func NewInvalidRequestError(op, message string) *PivotError {
	return &PivotError{
		Kind:    KindInvalidRequest,
		Op:      op,
		Message: message,
	}
}

// NewIOError creates an error for input reading or decoding failures
func NewIOError(op string, cause error) *PivotError {
	return &PivotError{
		Kind:    KindIO,
		Op:      op,
		Message: "input could not be read",
		Cause:   cause,
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *PivotError {
	return &PivotError{
		Kind:    KindInternal,
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// KindOf extracts the Kind from an error chain, KindInternal when the chain
// carries no PivotError.
func KindOf(err error) Kind {
	var pe *PivotError
	if stderrors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// IsUnknownColumn reports whether err is a KindUnknownColumn pivot error.
func IsUnknownColumn(err error) bool { return hasKind(err, KindUnknownColumn) }

// IsTypeMismatch reports whether err is a KindTypeMismatch pivot error.
func IsTypeMismatch(err error) bool { return hasKind(err, KindTypeMismatch) }

// IsAggregationNotApplicable reports whether err is a KindAggregationNotApplicable
// pivot error.
func IsAggregationNotApplicable(err error) bool { return hasKind(err, KindAggregationNotApplicable) }

// IsEmptyValueFields reports whether err is a KindEmptyValueFields pivot error.
func IsEmptyValueFields(err error) bool { return hasKind(err, KindEmptyValueFields) }

// IsInvalidRequest reports whether err is a KindInvalidRequest pivot error.
func IsInvalidRequest(err error) bool { return hasKind(err, KindInvalidRequest) }

// IsIO reports whether err is a KindIO pivot error.
func IsIO(err error) bool { return hasKind(err, KindIO) }

func hasKind(err error, kind Kind) bool {
	var pe *PivotError
	if stderrors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// Predefined error variables for common cases
var (
	// ErrMismatchedLength indicates column length mismatches in dataset construction
	ErrMismatchedLength = &PivotError{
		Kind:    KindInvalidRequest,
		Op:      "validation",
		Message: "columns must have the same length",
	}

	// ErrInvalidIndex indicates out-of-bounds row access
	ErrInvalidIndex = &PivotError{
		Kind:    KindInternal,
		Op:      "indexing",
		Message: "index out of bounds",
	}
)
