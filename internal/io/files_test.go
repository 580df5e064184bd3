package io_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/crosstab/internal/dataset"
	"github.com/paveg/crosstab/internal/errors"
	"github.com/paveg/crosstab/internal/io"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func tempParquetFile(t *testing.T) string {
	t.Helper()
	mem := memory.NewGoAllocator()
	src := dataset.New(
		dataset.NewColumn("region", []string{"east", "west"}, mem),
		dataset.NewColumn("amount", []int64{10, 20}, mem),
	)
	defer src.Release()

	var buf bytes.Buffer
	require.NoError(t, io.NewParquetWriter(&buf, io.DefaultParquetOptions()).Write(src))
	return writeTempFile(t, "data.parquet", buf.Bytes())
}

func TestReadFile(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("csv", func(t *testing.T) {
		path := writeTempFile(t, "data.csv", []byte("region,amount\neast,10\nwest,20\n"))

		ds, err := io.ReadFile(path, mem)
		require.NoError(t, err)
		defer ds.Release()

		assert.Equal(t, 2, ds.Len())
		col, _ := ds.Column("amount")
		assert.Equal(t, dataset.KindInt64, col.Kind())
	})

	t.Run("json", func(t *testing.T) {
		path := writeTempFile(t, "data.json", []byte(`[{"region": "east", "amount": 10}]`))

		ds, err := io.ReadFile(path, mem)
		require.NoError(t, err)
		defer ds.Release()

		assert.Equal(t, 1, ds.Len())
		assert.True(t, ds.HasColumn("region"))
	})

	t.Run("jsonl", func(t *testing.T) {
		path := writeTempFile(t, "data.jsonl", []byte("{\"v\": 1}\n{\"v\": 2}\n"))

		ds, err := io.ReadFile(path, mem)
		require.NoError(t, err)
		defer ds.Release()
		assert.Equal(t, 2, ds.Len())
	})

	t.Run("parquet", func(t *testing.T) {
		path := tempParquetFile(t)

		ds, err := io.ReadFile(path, mem)
		require.NoError(t, err)
		defer ds.Release()

		assert.Equal(t, []string{"region", "amount"}, ds.Columns())
		assert.Equal(t, 2, ds.Len())
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeTempFile(t, "data.txt", []byte("whatever"))

		_, err := io.ReadFile(path, mem)
		require.Error(t, err)
		assert.True(t, errors.IsIO(err))
		assert.Contains(t, err.Error(), "input could not be read")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := io.ReadFile(filepath.Join(t.TempDir(), "missing.csv"), mem)
		require.Error(t, err)
		assert.True(t, errors.IsIO(err))
	})

	t.Run("malformed content", func(t *testing.T) {
		path := writeTempFile(t, "data.json", []byte("{broken"))

		_, err := io.ReadFile(path, mem)
		require.Error(t, err)
		assert.True(t, errors.IsIO(err))
	})
}

func TestListColumns(t *testing.T) {
	t.Run("csv reads only the header", func(t *testing.T) {
		// The body would fail full parsing; listing columns must not care.
		path := writeTempFile(t, "data.csv", []byte("region,amount\nragged row only\n"))

		names, err := io.ListColumns(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"region", "amount"}, names)
	})

	t.Run("parquet", func(t *testing.T) {
		names, err := io.ListColumns(tempParquetFile(t))
		require.NoError(t, err)
		assert.Equal(t, []string{"region", "amount"}, names)
	})

	t.Run("json", func(t *testing.T) {
		path := writeTempFile(t, "data.json", []byte(`[{"b": 1}, {"a": 2}]`))

		names, err := io.ListColumns(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, names)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := io.ListColumns(writeTempFile(t, "data.xml", []byte("<x/>")))
		require.Error(t, err)
		assert.True(t, errors.IsIO(err))
	})
}
