package pivot

import (
	"fmt"
	"strings"
	"time"

	"github.com/paveg/crosstab/internal/dataset"
	"github.com/paveg/crosstab/internal/errors"
)

const filterOp = "filter"

// buildFilterMask evaluates every condition (ANDed) and returns a row mask
// plus the surviving row count. With no filters every row survives.
func buildFilterMask(ds *dataset.Dataset, filters []FilterCondition) ([]bool, int, error) {
	n := ds.Len()
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	count := n

	for _, fc := range filters {
		pred, err := compileCondition(ds, fc)
		if err != nil {
			return nil, 0, err
		}
		for row := 0; row < n; row++ {
			if mask[row] && !pred(row) {
				mask[row] = false
				count--
			}
		}
	}

	return mask, count, nil
}

// compileCondition resolves one condition into a row predicate. Column
// existence and operator/value shape problems surface here, before any row
// is visited; value-level incompatibilities exclude rows instead of erroring.
func compileCondition(ds *dataset.Dataset, fc FilterCondition) (func(int) bool, error) {
	col, ok := ds.Column(fc.Column)
	if !ok {
		return nil, errors.NewUnknownColumnError(filterOp, fc.Column)
	}
	if !fc.Operator.IsValid() {
		message := fmt.Sprintf("unknown filter operator %d", int(fc.Operator))
		return nil, errors.NewInvalidRequestError(filterOp, message)
	}
	if _, isList := fc.Value.([]any); isList && fc.Operator != FilterIn {
		message := fmt.Sprintf("%s requires a scalar value, got a list", fc.Operator)
		return nil, errors.NewInvalidRequestError(filterOp, message)
	}

	switch fc.Operator {
	case FilterEqual:
		lit := adaptLiteral(CoerceValue(fc.Value), col.Kind())
		return func(row int) bool {
			return ScalarFromColumn(col, row).Equal(lit)
		}, nil

	case FilterNotEqual:
		lit := adaptLiteral(CoerceValue(fc.Value), col.Kind())
		return func(row int) bool {
			return !ScalarFromColumn(col, row).Equal(lit)
		}, nil

	case FilterGreaterThan, FilterLessThan, FilterGreaterThanOrEqual, FilterLessThanOrEqual:
		return compileRelational(col, fc)

	case FilterContains:
		if col.Kind() != dataset.KindString {
			message := fmt.Sprintf("Contains requires a string column, got %s", col.Kind())
			return nil, errors.NewTypeMismatchError(filterOp, fc.Column, message)
		}
		needle := containsNeedle(fc.Value)
		return func(row int) bool {
			return !col.IsNull(row) && strings.Contains(col.StringValue(row), needle)
		}, nil

	case FilterIn:
		list, isList := CoerceList(fc.Value)
		if !isList {
			return nil, errors.NewInvalidRequestError(filterOp, "In requires a list value")
		}
		if len(list) == 0 {
			return nil, errors.NewInvalidRequestError(filterOp, "In requires a non-empty list")
		}
		adapted := make([]Scalar, len(list))
		for i, lit := range list {
			adapted[i] = adaptLiteral(lit, col.Kind())
		}
		return func(row int) bool {
			v := ScalarFromColumn(col, row)
			for _, lit := range adapted {
				if v.Equal(lit) {
					return true
				}
			}
			return false
		}, nil

	default:
		message := fmt.Sprintf("unsupported filter operator %s", fc.Operator)
		return nil, errors.NewInvalidRequestError(filterOp, message)
	}
}

// compileRelational handles the four ordering operators. They are defined
// for numeric and temporal columns; any other pairing matches no rows.
func compileRelational(col *dataset.Column, fc FilterCondition) (func(int) bool, error) {
	lit := adaptLiteral(CoerceValue(fc.Value), col.Kind())
	if !relationalComparable(col.Kind(), lit) {
		return func(int) bool { return false }, nil
	}

	op := fc.Operator
	return func(row int) bool {
		v := ScalarFromColumn(col, row)
		if v.IsNull() {
			return false
		}
		c := v.Compare(lit)
		switch op {
		case FilterGreaterThan:
			return c > 0
		case FilterLessThan:
			return c < 0
		case FilterGreaterThanOrEqual:
			return c >= 0
		case FilterLessThanOrEqual:
			return c <= 0
		default:
			return false
		}
	}, nil
}

func relationalComparable(kind dataset.Kind, lit Scalar) bool {
	switch {
	case kind.IsNumeric():
		return lit.IsNumeric()
	case kind == dataset.KindTimestamp:
		return lit.Kind() == ScalarTimestamp
	default:
		return false
	}
}

// adaptLiteral bridges string literals onto timestamp columns; everything
// else keeps its coerced kind and the comparison decides compatibility.
func adaptLiteral(s Scalar, kind dataset.Kind) Scalar {
	if kind == dataset.KindTimestamp && s.Kind() == ScalarString {
		if t, ok := parseTimeLiteral(s.Str()); ok {
			return TimestampScalar(t)
		}
	}
	return s
}

var timeLiteralLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

func parseTimeLiteral(s string) (time.Time, bool) {
	for _, layout := range timeLiteralLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// containsNeedle keeps the raw text of a string literal; other literal types
// render through their display form.
func containsNeedle(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return CoerceValue(v).String()
}
