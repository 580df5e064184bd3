package io_test

import (
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/crosstab/internal/dataset"
	"github.com/paveg/crosstab/internal/io"
)

func readJSON(t *testing.T, data string, options io.JSONOptions) *dataset.Dataset {
	t.Helper()
	reader := io.NewJSONReader(strings.NewReader(data), options, memory.NewGoAllocator())
	ds, err := reader.Read()
	require.NoError(t, err)
	return ds
}

func TestJSONReaderArray(t *testing.T) {
	jsonData := `[
		{"region": "east", "amount": 10, "price": 1.5},
		{"region": "west", "amount": 20, "price": 2.5}
	]`
	ds := readJSON(t, jsonData, io.DefaultJSONOptions())
	defer ds.Release()

	// Columns come out in sorted name order.
	assert.Equal(t, []string{"amount", "price", "region"}, ds.Columns())
	assert.Equal(t, 2, ds.Len())

	amount, _ := ds.Column("amount")
	assert.Equal(t, dataset.KindInt64, amount.Kind())
	assert.Equal(t, int64(10), amount.Int64Value(0))

	price, _ := ds.Column("price")
	assert.Equal(t, dataset.KindFloat64, price.Kind())

	region, _ := ds.Column("region")
	assert.Equal(t, "west", region.StringValue(1))
}

func TestJSONReaderLines(t *testing.T) {
	jsonData := "{\"v\": 1}\n\n{\"v\": 2}\n{\"v\": 3}\n"

	options := io.DefaultJSONOptions()
	options.Format = io.JSONLines

	ds := readJSON(t, jsonData, options)
	defer ds.Release()

	assert.Equal(t, 3, ds.Len())
	col, _ := ds.Column("v")
	assert.Equal(t, int64(2), col.Int64Value(1))
}

func TestJSONReaderNullsAndMissingKeys(t *testing.T) {
	jsonData := `[{"a": 1}, {"b": "x"}, {"a": null, "b": "y"}]`
	ds := readJSON(t, jsonData, io.DefaultJSONOptions())
	defer ds.Release()

	a, _ := ds.Column("a")
	assert.Equal(t, dataset.KindInt64, a.Kind())
	assert.Equal(t, int64(1), a.Int64Value(0))
	assert.True(t, a.IsNull(1))
	assert.True(t, a.IsNull(2))

	b, _ := ds.Column("b")
	assert.True(t, b.IsNull(0))
	assert.Equal(t, "y", b.StringValue(2))
}

func TestJSONReaderInference(t *testing.T) {
	tests := []struct {
		name string
		data string
		want dataset.Kind
	}{
		{"integral numbers", `[{"v": 1}, {"v": 2}]`, dataset.KindInt64},
		{"mixed integral and fractional", `[{"v": 1}, {"v": 2.5}]`, dataset.KindFloat64},
		{"booleans", `[{"v": true}, {"v": false}]`, dataset.KindBool},
		{"numeric strings stay strings", `[{"v": "10"}, {"v": "20"}]`, dataset.KindString},
		{"bool and number mix is string", `[{"v": true}, {"v": 1}]`, dataset.KindString},
		{"all null is string", `[{"v": null}, {"v": null}]`, dataset.KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := readJSON(t, tt.data, io.DefaultJSONOptions())
			defer ds.Release()

			col, ok := ds.Column("v")
			require.True(t, ok)
			assert.Equal(t, tt.want, col.Kind())
		})
	}
}

func TestJSONReaderMaxRecords(t *testing.T) {
	jsonData := `[{"v": 1}, {"v": 2}, {"v": 3}]`

	options := io.DefaultJSONOptions()
	options.MaxRecords = 2

	ds := readJSON(t, jsonData, options)
	defer ds.Release()
	assert.Equal(t, 2, ds.Len())
}

func TestJSONReaderTypeInferenceDisabled(t *testing.T) {
	options := io.DefaultJSONOptions()
	options.TypeInference = false

	ds := readJSON(t, `[{"v": 10}, {"v": true}]`, options)
	defer ds.Release()

	col, _ := ds.Column("v")
	assert.Equal(t, dataset.KindString, col.Kind())
	assert.Equal(t, "10", col.StringValue(0))
	assert.Equal(t, "true", col.StringValue(1))
}

func TestJSONReaderEmpty(t *testing.T) {
	ds := readJSON(t, `[]`, io.DefaultJSONOptions())
	defer ds.Release()
	assert.Equal(t, 0, ds.Width())
}

func TestJSONReaderErrors(t *testing.T) {
	t.Run("malformed array", func(t *testing.T) {
		reader := io.NewJSONReader(strings.NewReader(`{"not": "an array"}`), io.DefaultJSONOptions(), memory.NewGoAllocator())
		_, err := reader.Read()
		assert.Error(t, err)
	})

	t.Run("malformed line", func(t *testing.T) {
		options := io.DefaultJSONOptions()
		options.Format = io.JSONLines
		reader := io.NewJSONReader(strings.NewReader("{\"v\": 1}\nnot json\n"), options, memory.NewGoAllocator())
		_, err := reader.Read()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}
