// Package validation provides input validation utilities for pivot requests.
// Validators cover the checks the engine runs before scanning: column
// existence, dimension uniqueness, and length consistency of ingested data.
package validation

import (
	"fmt"

	"github.com/paveg/crosstab/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// ColumnProvider interface for types that provide column information
type ColumnProvider interface {
	HasColumn(name string) bool
	Columns() []string
	Len() int
	Width() int
}

// ColumnValidator validates column existence
type ColumnValidator struct {
	ds      ColumnProvider
	columns []string
	op      string
}

// NewColumnValidator creates a validator for column references
func NewColumnValidator(ds ColumnProvider, op string, columns ...string) *ColumnValidator {
	return &ColumnValidator{
		ds:      ds,
		columns: columns,
		op:      op,
	}
}

// Validate checks if all referenced columns exist in the dataset
func (v *ColumnValidator) Validate() error {
	for _, column := range v.columns {
		if !v.ds.HasColumn(column) {
			return errors.NewUnknownColumnError(v.op, column)
		}
	}
	return nil
}

// UniqueColumnsValidator rejects repeated field names across pivot dimensions
type UniqueColumnsValidator struct {
	columns []string
	op      string
}

// NewUniqueColumnsValidator creates a validator for dimension uniqueness
func NewUniqueColumnsValidator(op string, columns ...string) *UniqueColumnsValidator {
	return &UniqueColumnsValidator{
		columns: columns,
		op:      op,
	}
}

// Validate checks that no field name appears twice
func (v *UniqueColumnsValidator) Validate() error {
	seen := make(map[string]struct{}, len(v.columns))
	for _, column := range v.columns {
		if _, dup := seen[column]; dup {
			message := fmt.Sprintf("field '%s' appears more than once across pivot dimensions", column)
			return errors.NewInvalidRequestError(v.op, message)
		}
		seen[column] = struct{}{}
	}
	return nil
}

// LengthValidator validates array length consistency
type LengthValidator struct {
	expected int
	actual   int
	op       string
	context  string
}

// NewLengthValidator creates a validator for length consistency
func NewLengthValidator(expected, actual int, op, context string) *LengthValidator {
	return &LengthValidator{
		expected: expected,
		actual:   actual,
		op:       op,
		context:  context,
	}
}

// Validate checks if lengths match
func (v *LengthValidator) Validate() error {
	if v.expected != v.actual {
		message := fmt.Sprintf("%s: expected length %d, got %d", v.context, v.expected, v.actual)
		return errors.NewInvalidRequestError(v.op, message)
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Convenience validation functions

// ValidateColumns is a convenience function for column existence validation
func ValidateColumns(ds ColumnProvider, op string, columns ...string) error {
	return NewColumnValidator(ds, op, columns...).Validate()
}

// ValidateUniqueColumns is a convenience function for dimension uniqueness
func ValidateUniqueColumns(op string, columns ...string) error {
	return NewUniqueColumnsValidator(op, columns...).Validate()
}

// ValidateLength is a convenience function for length validation
func ValidateLength(expected, actual int, op, context string) error {
	return NewLengthValidator(expected, actual, op, context).Validate()
}
