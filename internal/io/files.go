package io

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/paveg/crosstab/internal/dataset"
	"github.com/paveg/crosstab/internal/errors"
)

const readOp = "read"

// ReadFile reads a dataset from path, dispatching on the file extension
// (.csv, .parquet, .json, .jsonl).
func ReadFile(path string, mem memory.Allocator) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError(readOp, err)
	}
	defer f.Close()

	var ds *dataset.Dataset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		ds, err = NewCSVReader(f, DefaultCSVOptions(), mem).Read()
	case ".parquet":
		ds, err = NewParquetReader(f, DefaultParquetOptions(), mem).Read()
	case ".json":
		ds, err = NewJSONReader(f, DefaultJSONOptions(), mem).Read()
	case ".jsonl":
		opts := DefaultJSONOptions()
		opts.Format = JSONLines
		ds, err = NewJSONReader(f, opts, mem).Read()
	default:
		return nil, errors.NewIOError(readOp,
			fmt.Errorf("unsupported file extension: %s", filepath.Ext(path)))
	}

	if err != nil {
		return nil, errors.NewIOError(readOp, err)
	}
	return ds, nil
}

// ListColumns returns the column names of the file at path without
// materializing more of the data than the format requires: CSV reads only the
// header row and Parquet only the file schema; JSON must scan its records for
// the union of keys.
func ListColumns(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return listCSVColumns(path)
	case ".parquet":
		return listParquetColumns(path)
	case ".json", ".jsonl":
		return listJSONColumns(path)
	default:
		return nil, errors.NewIOError(readOp,
			fmt.Errorf("unsupported file extension: %s", filepath.Ext(path)))
	}
}

func listCSVColumns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError(readOp, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, errors.NewIOError(readOp, fmt.Errorf("reading CSV header: %w", err))
	}
	return header, nil
}

func listParquetColumns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(readOp, err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewIOError(readOp, fmt.Errorf("creating parquet file reader: %w", err))
	}

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, errors.NewIOError(readOp, fmt.Errorf("creating arrow file reader: %w", err))
	}

	schema, err := arrowReader.Schema()
	if err != nil {
		return nil, errors.NewIOError(readOp, fmt.Errorf("reading parquet schema: %w", err))
	}

	names := make([]string, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		names[i] = schema.Field(i).Name
	}
	return names, nil
}

func listJSONColumns(path string) ([]string, error) {
	ds, err := ReadFile(path, memory.NewGoAllocator())
	if err != nil {
		return nil, err
	}
	defer ds.Release()
	return ds.Columns(), nil
}
