package io

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/paveg/crosstab/internal/dataset"
)

// Read reads Parquet data and returns a dataset. Column types are normalized
// to the dataset kinds (narrow ints and float32 widen, timestamps convert to
// nanosecond precision).
func (r *ParquetReader) Read() (*dataset.Dataset, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating parquet file reader: %w", err)
	}

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, r.mem)
	if err != nil {
		return nil, fmt.Errorf("creating arrow file reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer table.Release()

	return r.tableToDataset(table)
}

func (r *ParquetReader) tableToDataset(table arrow.Table) (*dataset.Dataset, error) {
	schema := table.Schema()
	columns := make([]*dataset.Column, 0, int(table.NumCols()))

	for i := 0; i < int(table.NumCols()); i++ {
		field := schema.Field(i)
		col, err := r.chunkedToColumn(field.Name, table.Column(i).Data())
		if err != nil {
			return nil, fmt.Errorf("converting column %s: %w", field.Name, err)
		}
		columns = append(columns, col)
	}

	return dataset.New(columns...), nil
}

// chunkedToColumn flattens a chunked Arrow column into one dataset column,
// widening narrow numeric types.
func (r *ParquetReader) chunkedToColumn(name string, chunked *arrow.Chunked) (*dataset.Column, error) {
	switch chunked.DataType().ID() {
	case arrow.INT64:
		values, valid := collectChunks(chunked, func(arr arrow.Array, i int) int64 {
			return arr.(*array.Int64).Value(i)
		})
		return dataset.NewNullableColumn(name, values, valid, r.mem)
	case arrow.INT32:
		values, valid := collectChunks(chunked, func(arr arrow.Array, i int) int64 {
			return int64(arr.(*array.Int32).Value(i))
		})
		return dataset.NewNullableColumn(name, values, valid, r.mem)
	case arrow.FLOAT64:
		values, valid := collectChunks(chunked, func(arr arrow.Array, i int) float64 {
			return arr.(*array.Float64).Value(i)
		})
		return dataset.NewNullableColumn(name, values, valid, r.mem)
	case arrow.FLOAT32:
		values, valid := collectChunks(chunked, func(arr arrow.Array, i int) float64 {
			return float64(arr.(*array.Float32).Value(i))
		})
		return dataset.NewNullableColumn(name, values, valid, r.mem)
	case arrow.STRING:
		values, valid := collectChunks(chunked, func(arr arrow.Array, i int) string {
			return arr.(*array.String).Value(i)
		})
		return dataset.NewNullableColumn(name, values, valid, r.mem)
	case arrow.BOOL:
		values, valid := collectChunks(chunked, func(arr arrow.Array, i int) bool {
			return arr.(*array.Boolean).Value(i)
		})
		return dataset.NewNullableColumn(name, values, valid, r.mem)
	case arrow.TIMESTAMP:
		unit := chunked.DataType().(*arrow.TimestampType).Unit
		values, valid := collectChunks(chunked, func(arr arrow.Array, i int) time.Time {
			return arr.(*array.Timestamp).Value(i).ToTime(unit)
		})
		return dataset.NewNullableColumn(name, values, valid, r.mem)
	default:
		return nil, fmt.Errorf("unsupported Arrow type: %s", chunked.DataType())
	}
}

// collectChunks gathers values and validity across every chunk of a column.
func collectChunks[T any](chunked *arrow.Chunked, value func(arrow.Array, int) T) ([]T, []bool) {
	values := make([]T, 0, chunked.Len())
	valid := make([]bool, 0, chunked.Len())

	for _, arr := range chunked.Chunks() {
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				var zero T
				values = append(values, zero)
				valid = append(valid, false)
				continue
			}
			values = append(values, value(arr, i))
			valid = append(valid, true)
		}
	}

	return values, valid
}

// Write writes the dataset to Parquet format.
func (w *ParquetWriter) Write(ds *dataset.Dataset) error {
	if ds.Width() == 0 {
		return fmt.Errorf("dataset has no columns")
	}

	table := datasetToTable(ds)
	defer table.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compressionCodec(w.options.Compression)),
		parquet.WithBatchSize(int64(w.options.BatchSize)),
	)
	arrowProps := pqarrow.NewArrowWriterProperties()

	writer, err := pqarrow.NewFileWriter(table.Schema(), w.writer, props, arrowProps)
	if err != nil {
		return fmt.Errorf("creating file writer: %w", err)
	}

	if err := writer.WriteTable(table, int64(ds.Len())); err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing table: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing file writer: %w", err)
	}
	return nil
}

func compressionCodec(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Codecs.Gzip
	case "lz4":
		return compress.Codecs.Lz4Raw
	case "zstd":
		return compress.Codecs.Zstd
	case "uncompressed":
		return compress.Codecs.Uncompressed
	default:
		return compress.Codecs.Snappy
	}
}

func datasetToTable(ds *dataset.Dataset) arrow.Table {
	names := ds.Columns()
	fields := make([]arrow.Field, 0, len(names))
	columns := make([]arrow.Column, 0, len(names))

	for _, name := range names {
		col, _ := ds.Column(name)
		arr := col.Array()

		field := arrow.Field{Name: name, Type: arr.DataType(), Nullable: true}
		fields = append(fields, field)

		chunked := arrow.NewChunked(arr.DataType(), []arrow.Array{arr})
		arr.Release()
		columns = append(columns, *arrow.NewColumn(field, chunked))
		chunked.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewTable(schema, columns, int64(ds.Len()))
}
