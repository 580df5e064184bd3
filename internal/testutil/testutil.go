// Package testutil provides common testing utilities shared across the
// crosstab library's test files:
// - Memory allocator setup and cleanup
// - Standard sales dataset builders, with and without nulls
// - Assertions over datasets and pivot result records
package testutil

import (
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/crosstab/internal/dataset"
	"github.com/paveg/crosstab/internal/pivot"
)

const (
	// defaultRowCount is the default number of rows in test datasets.
	defaultRowCount = 4
)

// TestMemoryContext provides a memory allocator with uniform cleanup.
type TestMemoryContext struct {
	Allocator memory.Allocator
	cleanup   func()
}

// Release performs cleanup of the memory context.
func (tmc *TestMemoryContext) Release() {
	if tmc.cleanup != nil {
		tmc.cleanup()
	}
}

// SetupMemoryTest creates a memory allocator for tests. Returns a
// TestMemoryContext that should be released with defer.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	allocator := memory.NewGoAllocator()

	return &TestMemoryContext{
		Allocator: allocator,
		cleanup: func() {
			// The Go allocator needs no explicit teardown; the context keeps
			// call sites uniform across test files.
		},
	}
}

// TestDatasetOption configures test dataset creation.
type TestDatasetOption func(*testDatasetConfig)

type testDatasetConfig struct {
	includeNulls bool
	rowCount     int
	withActive   bool
	withCreated  bool
}

// WithNulls nulls out some amount and region cells. The pattern is fixed:
// amount is null where i%3 == 1 and region where i%4 == 3.
func WithNulls() TestDatasetOption {
	return func(cfg *testDatasetConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestDatasetOption {
	return func(cfg *testDatasetConfig) {
		cfg.rowCount = count
	}
}

// WithActiveColumn includes an 'active' boolean column.
func WithActiveColumn() TestDatasetOption {
	return func(cfg *testDatasetConfig) {
		cfg.withActive = true
	}
}

// WithCreatedColumn includes a 'created' timestamp column.
func WithCreatedColumn() TestDatasetOption {
	return func(cfg *testDatasetConfig) {
		cfg.withCreated = true
	}
}

// CreateTestDataset creates a standard sales dataset for pivot tests.
//
// The default dataset has four rows:
// - region (string): ["east", "east", "west", "west"]
// - product (string): ["widget", "gadget", "widget", "gizmo"]
// - amount (int64): [10, 20, 30, 40]
// - price (float64): [1.5, 2.5, 3.5, 4.5]
//
// Longer row counts cycle through eight base values per column.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
//	ds := testutil.CreateTestDataset(t, mem.Allocator)
//	defer ds.Release()
func CreateTestDataset(tb testing.TB, allocator memory.Allocator, opts ...TestDatasetOption) *dataset.Dataset {
	tb.Helper()

	cfg := &testDatasetConfig{
		includeNulls: false,
		rowCount:     defaultRowCount,
		withActive:   false,
		withCreated:  false,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	regions := generateRegions(cfg.rowCount)
	products := generateProducts(cfg.rowCount)
	amounts := generateAmounts(cfg.rowCount)
	prices := generatePrices(cfg.rowCount)

	var regionCol, amountCol *dataset.Column
	if cfg.includeNulls {
		var err error
		regionCol, err = dataset.NewNullableColumn("region", regions, validExceptEvery(cfg.rowCount, 4, 3), allocator)
		require.NoError(tb, err)
		amountCol, err = dataset.NewNullableColumn("amount", amounts, validExceptEvery(cfg.rowCount, 3, 1), allocator)
		require.NoError(tb, err)
	} else {
		regionCol = dataset.NewColumn("region", regions, allocator)
		amountCol = dataset.NewColumn("amount", amounts, allocator)
	}

	columns := []*dataset.Column{
		regionCol,
		dataset.NewColumn("product", products, allocator),
		amountCol,
		dataset.NewColumn("price", prices, allocator),
	}

	if cfg.withActive {
		columns = append(columns, dataset.NewColumn("active", generateActiveFlags(cfg.rowCount), allocator))
	}

	if cfg.withCreated {
		columns = append(columns, dataset.NewColumn("created", generateCreated(cfg.rowCount), allocator))
	}

	return dataset.New(columns...)
}

// CreateSimpleTestDataset creates a two-column dataset for basic testing.
// This is useful for tests that don't need the full sales dataset.
func CreateSimpleTestDataset(allocator memory.Allocator) *dataset.Dataset {
	regions := dataset.NewColumn("region", []string{"east", "west"}, allocator)
	amounts := dataset.NewColumn("amount", []int64{10, 20}, allocator)

	return dataset.New(regions, amounts)
}

// AssertDatasetEqual compares two datasets cell by cell.
func AssertDatasetEqual(tb testing.TB, expected, actual *dataset.Dataset) {
	tb.Helper()

	require.NotNil(tb, expected, "expected dataset should not be nil")
	require.NotNil(tb, actual, "actual dataset should not be nil")

	assert.Equal(tb, expected.Len(), actual.Len(), "dataset lengths should match")
	assert.Equal(tb, expected.Columns(), actual.Columns(), "dataset columns should match")

	for _, name := range expected.Columns() {
		expectedCol, expectedExists := expected.Column(name)
		actualCol, actualExists := actual.Column(name)

		require.True(tb, expectedExists, "expected column %s should exist", name)
		require.True(tb, actualExists, "actual column %s should exist", name)

		assert.Equal(tb, expectedCol.Kind(), actualCol.Kind(), "column %s kind should match", name)

		for i := range expectedCol.Len() {
			assert.Equal(tb, expectedCol.IsNull(i), actualCol.IsNull(i),
				"column %s nullness should match at row %d", name, i)
			if !expectedCol.IsNull(i) {
				assert.Equal(tb, expectedCol.GetAsString(i), actualCol.GetAsString(i),
					"column %s value should match at row %d", name, i)
			}
		}
	}
}

// AssertDatasetHasColumns verifies that a dataset has the expected columns.
func AssertDatasetHasColumns(tb testing.TB, ds *dataset.Dataset, expectedColumns []string) {
	tb.Helper()

	require.NotNil(tb, ds, "dataset should not be nil")

	actualColumns := ds.Columns()
	assert.Len(tb, actualColumns, len(expectedColumns), "column count should match")

	for _, col := range expectedColumns {
		assert.True(tb, ds.HasColumn(col), "dataset should have column %s", col)
	}
}

// AssertDatasetNotEmpty verifies that a dataset has rows and columns.
func AssertDatasetNotEmpty(tb testing.TB, ds *dataset.Dataset) {
	tb.Helper()

	require.NotNil(tb, ds, "dataset should not be nil")
	assert.Positive(tb, ds.Len(), "dataset should not be empty")
	assert.Positive(tb, ds.Width(), "dataset should have columns")
}

// RequireCell fetches the named cell from a pivot record, failing the test
// when the record does not carry it.
func RequireCell(tb testing.TB, rec pivot.Record, key string) pivot.Scalar {
	tb.Helper()

	val, ok := rec[key]
	require.True(tb, ok, "record should have cell %q", key)
	return val
}

// AssertCellEqual asserts the named cell holds exactly want, kind included.
func AssertCellEqual(tb testing.TB, rec pivot.Record, key string, want pivot.Scalar) {
	tb.Helper()

	got := RequireCell(tb, rec, key)
	assert.Equal(tb, want, got, "cell %q should be %s", key, want)
}

// AssertCellNull asserts the named cell is present and null.
func AssertCellNull(tb testing.TB, rec pivot.Record, key string) {
	tb.Helper()

	got := RequireCell(tb, rec, key)
	assert.True(tb, got.IsNull(), "cell %q should be null, got %s", key, got)
}

// AssertCellInDelta asserts the named cell is numeric and within delta of want.
func AssertCellInDelta(tb testing.TB, rec pivot.Record, key string, want, delta float64) {
	tb.Helper()

	got := RequireCell(tb, rec, key)
	f, ok := got.AsFloat64()
	require.True(tb, ok, "cell %q should be numeric, got %s", key, got.Kind())
	assert.InDelta(tb, want, f, delta, "cell %q", key)
}

// Base values cycled by the generators below.

func generateRegions(count int) []string {
	base := []string{"east", "east", "west", "west", "north", "south", "east", "west"}
	regions := make([]string, count)
	for i := range count {
		regions[i] = base[i%len(base)]
	}
	return regions
}

func generateProducts(count int) []string {
	base := []string{"widget", "gadget", "widget", "gizmo", "widget", "gadget", "gizmo", "widget"}
	products := make([]string, count)
	for i := range count {
		products[i] = base[i%len(base)]
	}
	return products
}

func generateAmounts(count int) []int64 {
	base := []int64{10, 20, 30, 40, 15, 25, 35, 45}
	amounts := make([]int64, count)
	for i := range count {
		amounts[i] = base[i%len(base)]
	}
	return amounts
}

func generatePrices(count int) []float64 {
	base := []float64{1.5, 2.5, 3.5, 4.5, 1.25, 2.75, 3.25, 4.75}
	prices := make([]float64, count)
	for i := range count {
		prices[i] = base[i%len(base)]
	}
	return prices
}

func generateActiveFlags(count int) []bool {
	base := []bool{true, false, true, false, true, true, false, true}
	flags := make([]bool, count)
	for i := range count {
		flags[i] = base[i%len(base)]
	}
	return flags
}

func generateCreated(count int) []time.Time {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	created := make([]time.Time, count)
	for i := range count {
		created[i] = start.AddDate(0, i%8, 0)
	}
	return created
}

// validExceptEvery builds a validity mask of length count that is false
// wherever i%period == offset.
func validExceptEvery(count, period, offset int) []bool {
	valid := make([]bool, count)
	for i := range count {
		valid[i] = i%period != offset
	}
	return valid
}
