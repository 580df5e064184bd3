package dataset

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDataset(t *testing.T) *Dataset {
	t.Helper()
	mem := memory.NewGoAllocator()

	regions := NewColumn("region", []string{"east", "west", "east"}, mem)
	amounts := NewColumn("amount", []int64{10, 20, 30}, mem)
	prices := NewColumn("price", []float64{1.5, 2.5, 3.5}, mem)

	// Dataset takes ownership of the columns
	return New(regions, amounts, prices)
}

func TestNewDataset(t *testing.T) {
	mem := memory.NewGoAllocator()

	regions := NewColumn("region", []string{"east", "west"}, mem)
	amounts := NewColumn("amount", []int64{10, 20}, mem)

	ds := New(regions, amounts)
	defer ds.Release()

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 2, ds.Width())
	assert.Equal(t, []string{"region", "amount"}, ds.Columns())
}

func TestDatasetColumn(t *testing.T) {
	ds := createTestDataset(t)
	defer ds.Release()

	col, exists := ds.Column("region")
	assert.True(t, exists)
	assert.Equal(t, "region", col.Name())
	assert.Equal(t, 3, col.Len())

	_, exists = ds.Column("nonexistent")
	assert.False(t, exists)
}

func TestDatasetHasColumn(t *testing.T) {
	ds := createTestDataset(t)
	defer ds.Release()

	assert.True(t, ds.HasColumn("amount"))
	assert.False(t, ds.HasColumn("missing"))
}

func TestDatasetEmpty(t *testing.T) {
	ds := New()
	defer ds.Release()

	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, 0, ds.Width())
	assert.Empty(t, ds.Columns())
}

func TestDatasetDuplicateNameReplaces(t *testing.T) {
	mem := memory.NewGoAllocator()

	first := NewColumn("x", []int64{1, 2}, mem)
	second := NewColumn("x", []int64{3, 4}, mem)

	ds := New(first, second)
	defer ds.Release()

	assert.Equal(t, 1, ds.Width())
	col, exists := ds.Column("x")
	require.True(t, exists)
	assert.Equal(t, int64(3), col.Int64Value(0))
}

func TestDatasetValidate(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("equal lengths", func(t *testing.T) {
		ds := New(
			NewColumn("a", []int64{1, 2}, mem),
			NewColumn("b", []string{"x", "y"}, mem),
		)
		defer ds.Release()

		require.NoError(t, ds.Validate())
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		ds := New(
			NewColumn("a", []int64{1, 2}, mem),
			NewColumn("b", []string{"x"}, mem),
		)
		defer ds.Release()

		err := ds.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "column 'b'")
	})
}

func TestDatasetString(t *testing.T) {
	ds := createTestDataset(t)
	defer ds.Release()

	s := ds.String()
	assert.Contains(t, s, "Dataset[3x3]")
	assert.Contains(t, s, "region: string")
	assert.Contains(t, s, "amount: int64")
}

func TestDatasetRelease(t *testing.T) {
	ds := createTestDataset(t)
	ds.Release()

	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, 0, ds.Width())
}
