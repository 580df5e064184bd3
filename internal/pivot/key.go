package pivot

import (
	"strings"

	"github.com/paveg/crosstab/internal/dataset"
)

// keyExtractor renders per-row composite keys over an ordered set of
// dimension columns. Columns are resolved once so the row scan stays cheap.
type keyExtractor struct {
	cols []*dataset.Column
}

func newKeyExtractor(ds *dataset.Dataset, fields []string) *keyExtractor {
	cols := make([]*dataset.Column, len(fields))
	for i, field := range fields {
		col, _ := ds.Column(field)
		cols[i] = col
	}
	return &keyExtractor{cols: cols}
}

func (e *keyExtractor) width() int {
	return len(e.cols)
}

// keyAt materializes the key tuple for one row. Nulls stay in the tuple as
// null segments so rows with missing dimension values are never dropped.
func (e *keyExtractor) keyAt(row int) []Scalar {
	key := make([]Scalar, len(e.cols))
	for i, col := range e.cols {
		key[i] = ScalarFromColumn(col, row)
	}
	return key
}

// appendKeyBytes appends the row's canonical key encoding to dst without
// materializing the tuple.
func (e *keyExtractor) appendKeyBytes(dst []byte, row int) []byte {
	for _, col := range e.cols {
		dst = ScalarFromColumn(col, row).AppendKeyBytes(dst)
	}
	return dst
}

// compareKeys orders key tuples lexicographically, field by field in request
// order. Tuples compared together always have equal width.
func compareKeys(a, b []Scalar) int {
	for i := range a {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// keyStrings renders each key segment for headers and flattened result keys.
func keyStrings(key []Scalar) []string {
	out := make([]string, len(key))
	for i, s := range key {
		out[i] = s.String()
	}
	return out
}

// flattenKey joins column-key components with a value field's result key,
// e.g. column key ("east") and "sum_amount" become "east_sum_amount". With no
// column fields the result key is used as is.
func flattenKey(colKey []Scalar, resultKey string) string {
	if len(colKey) == 0 {
		return resultKey
	}
	parts := make([]string, 0, len(colKey)+1)
	parts = append(parts, keyStrings(colKey)...)
	parts = append(parts, resultKey)
	return strings.Join(parts, "_")
}
