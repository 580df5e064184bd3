// Package crosstab computes cross-tabulated (pivot) summaries over columnar
// data. This package is the sole public API for the library.
//
// A pivot is described by a Request: row dimensions, column dimensions, value
// fields with their aggregations, and optional filters. ComputePivot evaluates
// the request against a Dataset and returns a Result whose records are keyed
// by row-dimension names and flattened cell keys such as "east_sum_amount".
package crosstab

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/crosstab/internal/dataset"
	"github.com/paveg/crosstab/internal/errors"
	"github.com/paveg/crosstab/internal/io"
	"github.com/paveg/crosstab/internal/pivot"
	"github.com/paveg/crosstab/internal/version"
)

// Kind identifies a column's normalized value type. Narrow numeric widths are
// widened to 64 bits at construction.
type Kind = dataset.Kind

const (
	KindInt64     = dataset.KindInt64
	KindFloat64   = dataset.KindFloat64
	KindString    = dataset.KindString
	KindBool      = dataset.KindBool
	KindTimestamp = dataset.KindTimestamp
)

// Column is the public type for a named, typed, nullable data column.
// It wraps the internal dataset.Column to hide implementation details.
type Column struct {
	col *dataset.Column
}

// Dataset is the public type for a collection of equal-length columns.
type Dataset struct {
	ds *dataset.Dataset
}

// NewColumn creates a typed Column from a slice of values. Supported element
// types are string, int64, int32, int, float64, float32, bool and time.Time.
func NewColumn[T any](name string, values []T, mem memory.Allocator) *Column {
	return &Column{col: dataset.NewColumn(name, values, mem)}
}

// NewNullableColumn creates a Column with an explicit validity mask; values
// at positions where valid is false become nulls.
func NewNullableColumn[T any](name string, values []T, valid []bool, mem memory.Allocator) (*Column, error) {
	col, err := dataset.NewNullableColumn(name, values, valid, mem)
	if err != nil {
		return nil, err
	}
	return &Column{col: col}, nil
}

// NewDataset creates a Dataset from columns. A repeated column name replaces
// the earlier column at its original position.
func NewDataset(columns ...*Column) *Dataset {
	internal := make([]*dataset.Column, 0, len(columns))
	for _, c := range columns {
		if c != nil {
			internal = append(internal, c.col)
		}
	}
	return &Dataset{ds: dataset.New(internal...)}
}

// Column methods

// Name returns the column name.
func (c *Column) Name() string {
	return c.col.Name()
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return c.col.Len()
}

// Kind returns the column's normalized value kind.
func (c *Column) Kind() Kind {
	return c.col.Kind()
}

// DataType returns the underlying Arrow data type.
func (c *Column) DataType() arrow.DataType {
	return c.col.DataType()
}

// IsNull reports whether the value at index is null.
func (c *Column) IsNull(index int) bool {
	return c.col.IsNull(index)
}

// NullCount returns the number of nulls in the column.
func (c *Column) NullCount() int {
	return c.col.NullCount()
}

// GetAsString returns the value at index formatted as a string, "null" for nulls.
func (c *Column) GetAsString(index int) string {
	return c.col.GetAsString(index)
}

// String returns a string representation of the column.
func (c *Column) String() string {
	return c.col.String()
}

// Release frees the Arrow memory backing the column.
func (c *Column) Release() {
	c.col.Release()
}

// Dataset methods

// Columns returns the column names in insertion order.
func (d *Dataset) Columns() []string {
	return d.ds.Columns()
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.ds.Len()
}

// Width returns the number of columns.
func (d *Dataset) Width() int {
	return d.ds.Width()
}

// Column returns the column with the given name.
func (d *Dataset) Column(name string) (*Column, bool) {
	col, ok := d.ds.Column(name)
	if !ok {
		return nil, false
	}
	return &Column{col: col}, true
}

// HasColumn reports whether the dataset has the given column.
func (d *Dataset) HasColumn(name string) bool {
	return d.ds.HasColumn(name)
}

// Validate checks that all columns share the same length.
func (d *Dataset) Validate() error {
	return d.ds.Validate()
}

// String returns a string representation of the dataset.
func (d *Dataset) String() string {
	return d.ds.String()
}

// Release frees the Arrow memory backing all columns.
func (d *Dataset) Release() {
	d.ds.Release()
}

// Request and result model, re-exported from the pivot core.

type (
	// Request describes one pivot computation.
	Request = pivot.Request
	// ValueField pairs a value column with the aggregation applied to it.
	ValueField = pivot.ValueField
	// FilterCondition restricts the rows feeding the pivot.
	FilterCondition = pivot.FilterCondition
	// Result is the assembled pivot table.
	Result = pivot.Result
	// Record is one output row keyed by row-dimension field names and
	// flattened cell keys.
	Record = pivot.Record
	// Scalar is a tagged variant holding one cell or literal value.
	Scalar = pivot.Scalar
	// ScalarKind identifies the variant held by a Scalar.
	ScalarKind = pivot.ScalarKind
	// AggregationType identifies how a value field is reduced per bucket.
	AggregationType = pivot.AggregationType
	// FilterOperator identifies a filter comparison.
	FilterOperator = pivot.FilterOperator
)

const (
	AggSum    = pivot.AggSum
	AggMean   = pivot.AggMean
	AggCount  = pivot.AggCount
	AggMin    = pivot.AggMin
	AggMax    = pivot.AggMax
	AggFirst  = pivot.AggFirst
	AggLast   = pivot.AggLast
	AggMedian = pivot.AggMedian
	AggStd    = pivot.AggStd
	AggVar    = pivot.AggVar
)

const (
	FilterEqual              = pivot.FilterEqual
	FilterNotEqual           = pivot.FilterNotEqual
	FilterGreaterThan        = pivot.FilterGreaterThan
	FilterLessThan           = pivot.FilterLessThan
	FilterGreaterThanOrEqual = pivot.FilterGreaterThanOrEqual
	FilterLessThanOrEqual    = pivot.FilterLessThanOrEqual
	FilterContains           = pivot.FilterContains
	FilterIn                 = pivot.FilterIn
)

const (
	ScalarNull      = pivot.ScalarNull
	ScalarInt64     = pivot.ScalarInt64
	ScalarFloat64   = pivot.ScalarFloat64
	ScalarString    = pivot.ScalarString
	ScalarBool      = pivot.ScalarBool
	ScalarTimestamp = pivot.ScalarTimestamp
)

// ComputePivot runs one pivot computation over the dataset with the global
// configuration. The request either fully succeeds or is fully rejected.
func ComputePivot(ds *Dataset, req Request) (*Result, error) {
	return pivot.Compute(ds.ds, req)
}

// ReadFile loads a dataset from path, dispatching on the file extension:
// .csv, .parquet, .json (array of records) and .jsonl (JSON Lines). A nil
// allocator falls back to the Go allocator.
func ReadFile(path string, mem memory.Allocator) (*Dataset, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	ds, err := io.ReadFile(path, mem)
	if err != nil {
		return nil, err
	}
	return &Dataset{ds: ds}, nil
}

// ListColumns returns the column names of the data file at path without
// materializing the full data where the format allows it.
func ListColumns(path string) ([]string, error) {
	return io.ListColumns(path)
}

// Scalar constructors, re-exported for building filter literals and
// comparing result cells.

// NullScalar returns the null scalar.
func NullScalar() Scalar { return pivot.NullScalar() }

// Int64Scalar returns an int64 scalar.
func Int64Scalar(v int64) Scalar { return pivot.Int64Scalar(v) }

// Float64Scalar returns a float64 scalar.
func Float64Scalar(v float64) Scalar { return pivot.Float64Scalar(v) }

// StringScalar returns a string scalar.
func StringScalar(v string) Scalar { return pivot.StringScalar(v) }

// BoolScalar returns a boolean scalar.
func BoolScalar(v bool) Scalar { return pivot.BoolScalar(v) }

// TimestampScalar returns a timestamp scalar normalized to UTC.
func TimestampScalar(v time.Time) Scalar { return pivot.TimestampScalar(v) }

// Error classification

// PivotError is the typed error returned by pivot and ingestion operations.
type PivotError = errors.PivotError

// IsUnknownColumn reports whether err names a column absent from the dataset.
func IsUnknownColumn(err error) bool { return errors.IsUnknownColumn(err) }

// IsTypeMismatch reports whether err is a filter/column type incompatibility.
func IsTypeMismatch(err error) bool { return errors.IsTypeMismatch(err) }

// IsAggregationNotApplicable reports whether err is a numeric aggregation
// requested on a non-numeric column.
func IsAggregationNotApplicable(err error) bool { return errors.IsAggregationNotApplicable(err) }

// IsEmptyValueFields reports whether err is a request with no value fields.
func IsEmptyValueFields(err error) bool { return errors.IsEmptyValueFields(err) }

// IsInvalidRequest reports whether err is a malformed request shape.
func IsInvalidRequest(err error) bool { return errors.IsInvalidRequest(err) }

// IsIO reports whether err is a data ingestion failure.
func IsIO(err error) bool { return errors.IsIO(err) }

// Version returns the library version string.
func Version() string {
	return version.Version
}
