package pivot

import (
	"encoding/json"
	"fmt"

	"github.com/paveg/crosstab/internal/common"
)

// AggregationType identifies how a value field is reduced per bucket.
type AggregationType int

const (
	AggSum AggregationType = iota
	AggMean
	AggCount
	AggMin
	AggMax
	AggFirst
	AggLast
	AggMedian
	AggStd
	AggVar
)

const aggregationCount = 10

// String returns the canonical wire name ("Sum", "Mean", ...).
func (a AggregationType) String() string {
	return common.FormatAggregationType(int(a))
}

// ShortName returns the lowercase name used in flattened result keys.
func (a AggregationType) ShortName() string {
	return common.FormatAggregationKeyName(int(a))
}

// IsValid reports whether the value is a known aggregation.
func (a AggregationType) IsValid() bool {
	return a >= 0 && a < aggregationCount
}

// RequiresNumeric reports whether the aggregation is defined only for
// numeric value fields.
func (a AggregationType) RequiresNumeric() bool {
	switch a {
	case AggSum, AggMean, AggMedian, AggStd, AggVar:
		return true
	default:
		return false
	}
}

// MarshalJSON encodes the aggregation as its literal name.
func (a AggregationType) MarshalJSON() ([]byte, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("cannot marshal unknown aggregation type %d", int(a))
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a literal aggregation name; unknown names are
// rejected rather than mapped to a default.
func (a *AggregationType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("aggregation type must be a string: %w", err)
	}
	value, ok := common.ParseAggregationType(name)
	if !ok {
		return fmt.Errorf("unknown aggregation type %q", name)
	}
	*a = AggregationType(value)
	return nil
}

// FilterOperator identifies a filter comparison.
type FilterOperator int

const (
	FilterEqual FilterOperator = iota
	FilterNotEqual
	FilterGreaterThan
	FilterLessThan
	FilterGreaterThanOrEqual
	FilterLessThanOrEqual
	FilterContains
	FilterIn
)

const filterOperatorCount = 8

// String returns the canonical wire name ("Equal", "GreaterThanOrEqual", ...).
func (op FilterOperator) String() string {
	return common.FormatFilterOperator(int(op))
}

// IsValid reports whether the value is a known operator.
func (op FilterOperator) IsValid() bool {
	return op >= 0 && op < filterOperatorCount
}

// IsRelational reports whether the operator is an ordering comparison.
func (op FilterOperator) IsRelational() bool {
	switch op {
	case FilterGreaterThan, FilterLessThan, FilterGreaterThanOrEqual, FilterLessThanOrEqual:
		return true
	default:
		return false
	}
}

// MarshalJSON encodes the operator as its literal name.
func (op FilterOperator) MarshalJSON() ([]byte, error) {
	if !op.IsValid() {
		return nil, fmt.Errorf("cannot marshal unknown filter operator %d", int(op))
	}
	return json.Marshal(op.String())
}

// UnmarshalJSON decodes a literal operator name.
func (op *FilterOperator) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("filter operator must be a string: %w", err)
	}
	value, ok := common.ParseFilterOperator(name)
	if !ok {
		return fmt.Errorf("unknown filter operator %q", name)
	}
	*op = FilterOperator(value)
	return nil
}

// ValueField pairs a value column with the aggregation applied to it.
type ValueField struct {
	Field       string          `json:"field"`
	Aggregation AggregationType `json:"aggregation"`
}

// ResultKey returns the flattened key fragment for this pair, e.g. "sum_amount".
func (vf ValueField) ResultKey() string {
	return vf.Aggregation.ShortName() + "_" + vf.Field
}

// FilterCondition restricts the rows feeding the pivot. Value holds one
// literal for scalar operators and a list for In; literals are coerced at
// filter time.
type FilterCondition struct {
	Column   string         `json:"column"`
	Operator FilterOperator `json:"operator"`
	Value    any            `json:"value"`
}

// Request describes one pivot computation. DataPath is consumed by the
// ingestion layer; the core operates on an already-loaded dataset.
type Request struct {
	DataPath string            `json:"data_path,omitempty"`
	Rows     []string          `json:"rows"`
	Columns  []string          `json:"columns"`
	Values   []ValueField      `json:"values"`
	Filters  []FilterCondition `json:"filters,omitempty"`
}

// Record is one output row keyed by row-dimension field names and flattened
// cell keys.
type Record map[string]Scalar

// Result is the assembled pivot table. Data holds one record per distinct
// row-key in deterministic order; ColumnHeaders holds one entry per distinct
// column-key combination; RowHeaders echoes the request's row fields.
type Result struct {
	Data          []Record   `json:"data"`
	ColumnHeaders [][]string `json:"column_headers"`
	RowHeaders    []string   `json:"row_headers"`
}
