package pivot

import (
	"sort"
)

// sortedKey pairs a key tuple with its canonical bytes so axis ordering and
// bucket lookup share one representation.
type sortedKey struct {
	bytes string
	key   []Scalar
}

func sortKeySet(set map[string][]Scalar) []sortedKey {
	out := make([]sortedKey, 0, len(set))
	for b, k := range set {
		out = append(out, sortedKey{bytes: b, key: k})
	}
	sort.Slice(out, func(i, j int) bool {
		return compareKeys(out[i].key, out[j].key) < 0
	})
	return out
}

func appendTupleBytes(dst []byte, key []Scalar) []byte {
	for _, s := range key {
		dst = s.AppendKeyBytes(dst)
	}
	return dst
}

// buildResult assembles the final pivot table from the merged group map.
// Row-keys and column-keys order ascending by tuple comparison, independent
// of input row order, so identical requests produce identical results. Every
// record carries one entry per observed (column-key, value-field) pair; a
// bucket with no contributions reports the null scalar.
func buildResult(req Request, specs []valueSpec, groups *groupMap) *Result {
	rowKeySet := make(map[string][]Scalar)
	colKeySet := make(map[string][]Scalar)
	groups.each(func(_ []byte, g *group) {
		rb := string(appendTupleBytes(nil, g.rowKey))
		if _, ok := rowKeySet[rb]; !ok {
			rowKeySet[rb] = g.rowKey
		}
		cb := string(appendTupleBytes(nil, g.colKey))
		if _, ok := colKeySet[cb]; !ok {
			colKeySet[cb] = g.colKey
		}
	})

	rowKeys := sortKeySet(rowKeySet)
	colKeys := sortKeySet(colKeySet)

	data := make([]Record, 0, len(rowKeys))
	for _, rk := range rowKeys {
		record := make(Record, len(req.Rows)+len(colKeys)*len(specs))
		for i, field := range req.Rows {
			record[field] = rk.key[i]
		}

		for _, ck := range colKeys {
			g, ok := groups.get([]byte(rk.bytes + ck.bytes))
			for i := range specs {
				flat := flattenKey(ck.key, specs[i].resultKey)
				if ok {
					record[flat] = g.cells[i].result()
				} else {
					record[flat] = NullScalar()
				}
			}
		}

		data = append(data, record)
	}

	headers := make([][]string, 0, len(colKeys))
	if len(req.Columns) > 0 {
		for _, ck := range colKeys {
			headers = append(headers, keyStrings(ck.key))
		}
	}

	rowHeaders := make([]string, 0, len(req.Rows))
	rowHeaders = append(rowHeaders, req.Rows...)

	return &Result{
		Data:          data,
		ColumnHeaders: headers,
		RowHeaders:    rowHeaders,
	}
}
