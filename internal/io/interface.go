// Package io reads datasets from CSV, Parquet and JSON sources and writes
// pivot results to their wire form.
//
// Readers perform per-column type inference where the format carries no
// schema (CSV, JSON) and normalize schema-carrying formats (Parquet) to the
// dataset column kinds. Empty CSV cells and JSON nulls become null slots, so
// ingested data participates in null-aware grouping and aggregation.
//
// Memory management: readers allocate through the provided Arrow allocator;
// returned datasets must be released by the caller.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/crosstab/internal/dataset"
)

// DefaultBatchSize is the default batch size for Parquet write operations.
const DefaultBatchSize = 1000

// DatasetReader defines the interface for reading a dataset from a source.
type DatasetReader interface {
	Read() (*dataset.Dataset, error)
}

// DatasetWriter defines the interface for writing a dataset to a destination.
type DatasetWriter interface {
	Write(ds *dataset.Dataset) error
}

// CSVOptions contains configuration options for CSV operations.
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers
	Header bool
	// TypeInference enables per-column type inference; disabled, every
	// column is read as strings
	TypeInference bool
}

// DefaultCSVOptions returns default CSV options.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:     ',',
		Comment:       0,
		Header:        true,
		TypeInference: true,
	}
}

// CSVReader reads CSV data into a dataset.
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	mem     memory.Allocator
}

// NewCSVReader creates a new CSV reader with the specified options.
func NewCSVReader(reader io.Reader, options CSVOptions, mem memory.Allocator) *CSVReader {
	return &CSVReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// CSVWriter writes datasets to CSV format. Null slots are written as empty
// cells so a round-trip preserves them.
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer with the specified options.
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{
		writer:  writer,
		options: options,
	}
}

// JSONFormat selects between the supported JSON layouts.
type JSONFormat int

const (
	// JSONArray is a single top-level array of record objects.
	JSONArray JSONFormat = iota
	// JSONLines is one record object per line.
	JSONLines
)

// JSONOptions contains configuration options for JSON reading.
type JSONOptions struct {
	// Format selects array-of-records or JSON Lines input
	Format JSONFormat
	// MaxRecords limits how many records are read (0 = unlimited)
	MaxRecords int
	// TypeInference enables per-column type inference; disabled, every
	// column is read as strings
	TypeInference bool
}

// DefaultJSONOptions returns default JSON options.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{
		Format:        JSONArray,
		MaxRecords:    0,
		TypeInference: true,
	}
}

// JSONReader reads JSON records into a dataset.
type JSONReader struct {
	reader  io.Reader
	options JSONOptions
	mem     memory.Allocator
}

// NewJSONReader creates a new JSON reader with the specified options.
func NewJSONReader(reader io.Reader, options JSONOptions, mem memory.Allocator) *JSONReader {
	return &JSONReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// ParquetOptions contains configuration options for Parquet operations.
type ParquetOptions struct {
	// Compression type for Parquet files
	Compression string
	// BatchSize for reading/writing operations
	BatchSize int
}

// DefaultParquetOptions returns default Parquet options.
func DefaultParquetOptions() ParquetOptions {
	return ParquetOptions{
		Compression: "snappy",
		BatchSize:   DefaultBatchSize,
	}
}

// ParquetReader reads Parquet data into a dataset.
type ParquetReader struct {
	reader  io.Reader
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetReader creates a new Parquet reader with the specified options.
func NewParquetReader(reader io.Reader, options ParquetOptions, mem memory.Allocator) *ParquetReader {
	return &ParquetReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// ParquetWriter writes datasets to Parquet format.
type ParquetWriter struct {
	writer  io.Writer
	options ParquetOptions
}

// NewParquetWriter creates a new Parquet writer with the specified options.
func NewParquetWriter(writer io.Writer, options ParquetOptions) *ParquetWriter {
	return &ParquetWriter{
		writer:  writer,
		options: options,
	}
}
