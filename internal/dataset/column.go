// Package dataset provides the columnar data model pivot computation runs over
package dataset

import (
	"fmt"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/exp/constraints"

	"github.com/paveg/crosstab/internal/common"
)

const nanosPerSecond = 1_000_000_000

// Kind identifies a column's normalized value type. Narrow integer and float
// widths are widened to 64 bits at construction so the rest of the engine
// handles exactly these five kinds.
type Kind int

const (
	KindInt64 Kind = iota
	KindFloat64
	KindString
	KindBool
	KindTimestamp
)

// String returns the kind's type name.
func (k Kind) String() string {
	return common.FormatColumnKind(int(k))
}

// IsNumeric reports whether the kind supports numeric aggregation.
func (k Kind) IsNumeric() bool {
	return k == KindInt64 || k == KindFloat64
}

// IsOrdered reports whether the kind supports relational comparison.
func (k Kind) IsOrdered() bool {
	return k == KindInt64 || k == KindFloat64 || k == KindTimestamp
}

// Column represents a named, typed, nullable data column with Apache Arrow backend
type Column struct {
	name  string
	array arrow.Array
}

// NewColumn creates a new Column from a slice of values
func NewColumn[T any](name string, values []T, mem memory.Allocator) *Column {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	var arr arrow.Array

	// Use type switching to create the appropriate Arrow array
	switch v := any(values).(type) {
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		for _, val := range v {
			builder.Append(val)
		}
		arr = builder.NewArray()
	case []int64:
		arr = buildInt64(v, nil, mem)
	case []int32:
		arr = buildInt64(widenInts(v), nil, mem)
	case []int:
		arr = buildInt64(widenInts(v), nil, mem)
	case []float64:
		arr = buildFloat64(v, nil, mem)
	case []float32:
		arr = buildFloat64(widenFloats(v), nil, mem)
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		for _, val := range v {
			builder.Append(val)
		}
		arr = builder.NewArray()
	case []time.Time:
		builder := array.NewTimestampBuilder(mem, &arrow.TimestampType{Unit: arrow.Nanosecond})
		defer builder.Release()
		for _, val := range v {
			builder.Append(arrow.Timestamp(val.UnixNano()))
		}
		arr = builder.NewArray()
	default:
		panic(fmt.Sprintf("unsupported type: %T", values))
	}

	return &Column{
		name:  name,
		array: arr,
	}
}

// NewNullableColumn creates a new Column with an explicit validity mask;
// values at positions where valid is false become nulls.
func NewNullableColumn[T any](name string, values []T, valid []bool, mem memory.Allocator) (*Column, error) {
	if len(values) != len(valid) {
		return nil, fmt.Errorf("values and valid must have the same length: %d != %d", len(values), len(valid))
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	var arr arrow.Array

	switch v := any(values).(type) {
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		for i, val := range v {
			if !valid[i] {
				builder.AppendNull()
				continue
			}
			builder.Append(val)
		}
		arr = builder.NewArray()
	case []int64:
		arr = buildInt64(v, valid, mem)
	case []int32:
		arr = buildInt64(widenInts(v), valid, mem)
	case []int:
		arr = buildInt64(widenInts(v), valid, mem)
	case []float64:
		arr = buildFloat64(v, valid, mem)
	case []float32:
		arr = buildFloat64(widenFloats(v), valid, mem)
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		for i, val := range v {
			if !valid[i] {
				builder.AppendNull()
				continue
			}
			builder.Append(val)
		}
		arr = builder.NewArray()
	case []time.Time:
		builder := array.NewTimestampBuilder(mem, &arrow.TimestampType{Unit: arrow.Nanosecond})
		defer builder.Release()
		for i, val := range v {
			if !valid[i] {
				builder.AppendNull()
				continue
			}
			builder.Append(arrow.Timestamp(val.UnixNano()))
		}
		arr = builder.NewArray()
	default:
		return nil, fmt.Errorf("unsupported type: %T", values)
	}

	return &Column{
		name:  name,
		array: arr,
	}, nil
}

// widenInts widens any integer slice to int64.
func widenInts[T constraints.Integer](values []T) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

// widenFloats widens any float slice to float64.
func widenFloats[T constraints.Float](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func buildInt64(values []int64, valid []bool, mem memory.Allocator) arrow.Array {
	builder := array.NewInt64Builder(mem)
	defer builder.Release()
	for i, val := range values {
		if valid != nil && !valid[i] {
			builder.AppendNull()
			continue
		}
		builder.Append(val)
	}
	return builder.NewArray()
}

func buildFloat64(values []float64, valid []bool, mem memory.Allocator) arrow.Array {
	builder := array.NewFloat64Builder(mem)
	defer builder.Release()
	for i, val := range values {
		if valid != nil && !valid[i] {
			builder.AppendNull()
			continue
		}
		builder.Append(val)
	}
	return builder.NewArray()
}

// Name returns the column name
func (c *Column) Name() string {
	return c.name
}

// Len returns the number of rows in the column
func (c *Column) Len() int {
	if c.array == nil {
		return 0
	}
	return c.array.Len()
}

// Kind returns the column's normalized value kind
func (c *Column) Kind() Kind {
	switch c.array.(type) {
	case *array.Int64:
		return KindInt64
	case *array.Float64:
		return KindFloat64
	case *array.String:
		return KindString
	case *array.Boolean:
		return KindBool
	case *array.Timestamp:
		return KindTimestamp
	default:
		panic(fmt.Sprintf("unsupported array type: %T", c.array))
	}
}

// DataType returns the Arrow data type
func (c *Column) DataType() arrow.DataType {
	return c.array.DataType()
}

// IsNull checks if the value at index is null
func (c *Column) IsNull(index int) bool {
	return c.array.IsNull(index)
}

// NullCount returns the number of nulls in the column
func (c *Column) NullCount() int {
	return c.array.NullN()
}

// Int64Value returns the int64 value at index; the caller must know the kind.
func (c *Column) Int64Value(index int) int64 {
	return c.array.(*array.Int64).Value(index)
}

// Float64Value returns the float64 value at index.
func (c *Column) Float64Value(index int) float64 {
	return c.array.(*array.Float64).Value(index)
}

// StringValue returns the string value at index.
func (c *Column) StringValue(index int) string {
	return c.array.(*array.String).Value(index)
}

// BoolValue returns the bool value at index.
func (c *Column) BoolValue(index int) bool {
	return c.array.(*array.Boolean).Value(index)
}

// TimeValue returns the timestamp at index as a UTC time.Time.
func (c *Column) TimeValue(index int) time.Time {
	nanos := int64(c.array.(*array.Timestamp).Value(index))
	return time.Unix(nanos/nanosPerSecond, nanos%nanosPerSecond).UTC()
}

// GetAsString returns the value at index formatted as a string, "null" for nulls.
func (c *Column) GetAsString(index int) string {
	if c.IsNull(index) {
		return "null"
	}
	switch c.Kind() {
	case KindInt64:
		return strconv.FormatInt(c.Int64Value(index), 10)
	case KindFloat64:
		return strconv.FormatFloat(c.Float64Value(index), 'g', -1, 64)
	case KindString:
		return c.StringValue(index)
	case KindBool:
		return strconv.FormatBool(c.BoolValue(index))
	case KindTimestamp:
		return c.TimeValue(index).Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// String returns a string representation of the column
func (c *Column) String() string {
	return fmt.Sprintf("Column[%s]: %s (len=%d)", c.Kind(), c.name, c.Len())
}

// Array returns the underlying Arrow array (retains a reference)
func (c *Column) Array() arrow.Array {
	if c.array != nil {
		c.array.Retain()
		return c.array
	}
	return nil
}

// Release releases the underlying Arrow memory
func (c *Column) Release() {
	if c.array != nil {
		c.array.Release()
	}
}
