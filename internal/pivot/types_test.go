package pivot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregationTypeNames(t *testing.T) {
	tests := []struct {
		agg       AggregationType
		name      string
		shortName string
	}{
		{AggSum, "Sum", "sum"},
		{AggMean, "Mean", "mean"},
		{AggCount, "Count", "count"},
		{AggMin, "Min", "min"},
		{AggMax, "Max", "max"},
		{AggFirst, "First", "first"},
		{AggLast, "Last", "last"},
		{AggMedian, "Median", "median"},
		{AggStd, "Std", "std"},
		{AggVar, "Var", "var"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.agg.String())
			assert.Equal(t, tt.shortName, tt.agg.ShortName())
			assert.True(t, tt.agg.IsValid())
		})
	}
}

func TestAggregationTypeRequiresNumeric(t *testing.T) {
	numericOnly := []AggregationType{AggSum, AggMean, AggMedian, AggStd, AggVar}
	anyType := []AggregationType{AggCount, AggMin, AggMax, AggFirst, AggLast}

	for _, agg := range numericOnly {
		assert.True(t, agg.RequiresNumeric(), agg.String())
	}
	for _, agg := range anyType {
		assert.False(t, agg.RequiresNumeric(), agg.String())
	}
}

func TestAggregationTypeJSON(t *testing.T) {
	t.Run("marshal literal name", func(t *testing.T) {
		data, err := json.Marshal(AggSum)
		require.NoError(t, err)
		assert.Equal(t, `"Sum"`, string(data))
	})

	t.Run("round trip", func(t *testing.T) {
		for agg := AggSum; agg.IsValid(); agg++ {
			data, err := json.Marshal(agg)
			require.NoError(t, err)

			var back AggregationType
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, agg, back)
		}
	})

	t.Run("unknown name rejected", func(t *testing.T) {
		var agg AggregationType
		err := json.Unmarshal([]byte(`"Total"`), &agg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Total")
	})

	t.Run("lowercase rejected", func(t *testing.T) {
		var agg AggregationType
		err := json.Unmarshal([]byte(`"sum"`), &agg)
		require.Error(t, err)
	})

	t.Run("non-string rejected", func(t *testing.T) {
		var agg AggregationType
		err := json.Unmarshal([]byte(`3`), &agg)
		require.Error(t, err)
	})

	t.Run("marshal invalid value fails", func(t *testing.T) {
		_, err := json.Marshal(AggregationType(99))
		require.Error(t, err)
	})
}

func TestFilterOperatorJSON(t *testing.T) {
	t.Run("marshal literal name", func(t *testing.T) {
		data, err := json.Marshal(FilterGreaterThanOrEqual)
		require.NoError(t, err)
		assert.Equal(t, `"GreaterThanOrEqual"`, string(data))
	})

	t.Run("round trip", func(t *testing.T) {
		for op := FilterEqual; op.IsValid(); op++ {
			data, err := json.Marshal(op)
			require.NoError(t, err)

			var back FilterOperator
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, op, back)
		}
	})

	t.Run("unknown name rejected", func(t *testing.T) {
		var op FilterOperator
		err := json.Unmarshal([]byte(`"Matches"`), &op)
		require.Error(t, err)
	})
}

func TestFilterOperatorPredicates(t *testing.T) {
	relational := []FilterOperator{
		FilterGreaterThan, FilterLessThan, FilterGreaterThanOrEqual, FilterLessThanOrEqual,
	}
	other := []FilterOperator{FilterEqual, FilterNotEqual, FilterContains, FilterIn}

	for _, op := range relational {
		assert.True(t, op.IsRelational(), op.String())
	}
	for _, op := range other {
		assert.False(t, op.IsRelational(), op.String())
	}
}

func TestValueFieldResultKey(t *testing.T) {
	assert.Equal(t, "sum_amount", ValueField{Field: "amount", Aggregation: AggSum}.ResultKey())
	assert.Equal(t, "mean_price", ValueField{Field: "price", Aggregation: AggMean}.ResultKey())
}

func TestRequestUnmarshal(t *testing.T) {
	raw := `{
		"data_path": "/tmp/sales.csv",
		"rows": ["region"],
		"columns": ["product"],
		"values": [{"field": "amount", "aggregation": "Sum"}],
		"filters": [{"column": "amount", "operator": "GreaterThan", "value": 15}]
	}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(raw), &req))

	assert.Equal(t, "/tmp/sales.csv", req.DataPath)
	assert.Equal(t, []string{"region"}, req.Rows)
	assert.Equal(t, []string{"product"}, req.Columns)
	require.Len(t, req.Values, 1)
	assert.Equal(t, "amount", req.Values[0].Field)
	assert.Equal(t, AggSum, req.Values[0].Aggregation)
	require.Len(t, req.Filters, 1)
	assert.Equal(t, FilterGreaterThan, req.Filters[0].Operator)
	assert.InDelta(t, 15.0, req.Filters[0].Value, 0.0001)
}

func TestResultMarshal(t *testing.T) {
	result := Result{
		Data: []Record{
			{"region": StringScalar("east"), "sum_amount": Int64Scalar(30)},
		},
		ColumnHeaders: [][]string{},
		RowHeaders:    []string{"region"},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{"region"}, decoded["row_headers"])
	assert.Equal(t, []any{}, decoded["column_headers"])

	rows, ok := decoded["data"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	first, ok := rows[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "east", first["region"])
	assert.InDelta(t, 30.0, first["sum_amount"], 0.0001)
}
