package io

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/paveg/crosstab/internal/dataset"
)

const (
	trueStr  = "true"
	falseStr = "false"
)

// Read reads CSV data and returns a dataset. Empty cells become null slots.
func (r *CSVReader) Read() (*dataset.Dataset, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment

	// The csv package rejects ragged rows by default; keep that.
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return dataset.New(), nil
	}

	var headers []string
	var dataRows [][]string

	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
		dataRows = records
	}

	seen := make(map[string]struct{}, len(headers))
	for _, header := range headers {
		if _, dup := seen[header]; dup {
			return nil, fmt.Errorf("duplicate column name %q", header)
		}
		seen[header] = struct{}{}
	}

	columns := make([]*dataset.Column, 0, len(headers))
	for i, header := range headers {
		cells := make([]string, len(dataRows))
		valid := make([]bool, len(dataRows))
		for j, row := range dataRows {
			cells[j] = row[i]
			valid[j] = row[i] != ""
		}

		col, err := r.buildColumn(header, cells, valid)
		if err != nil {
			return nil, fmt.Errorf("building column %s: %w", header, err)
		}
		columns = append(columns, col)
	}

	return dataset.New(columns...), nil
}

// buildColumn infers the cell type and builds a null-aware column.
func (r *CSVReader) buildColumn(name string, cells []string, valid []bool) (*dataset.Column, error) {
	kind := dataset.KindString
	if r.options.TypeInference {
		kind = inferCellKind(cells, valid)
	}

	switch kind {
	case dataset.KindBool:
		values := make([]bool, len(cells))
		for i, cell := range cells {
			if valid[i] {
				values[i] = strings.EqualFold(cell, trueStr)
			}
		}
		return dataset.NewNullableColumn(name, values, valid, r.mem)
	case dataset.KindInt64:
		values := make([]int64, len(cells))
		for i, cell := range cells {
			if valid[i] {
				values[i], _ = strconv.ParseInt(cell, 10, 64)
			}
		}
		return dataset.NewNullableColumn(name, values, valid, r.mem)
	case dataset.KindFloat64:
		values := make([]float64, len(cells))
		for i, cell := range cells {
			if valid[i] {
				values[i], _ = strconv.ParseFloat(cell, 64)
			}
		}
		return dataset.NewNullableColumn(name, values, valid, r.mem)
	default:
		return dataset.NewNullableColumn(name, cells, valid, r.mem)
	}
}

// inferCellKind determines the narrowest kind that admits every non-empty
// cell: bool, then int64, then float64, then string.
func inferCellKind(cells []string, valid []bool) dataset.Kind {
	canBeBool := true
	canBeInt := true
	canBeFloat := true
	sawValue := false

	for i, cell := range cells {
		if !valid[i] {
			continue
		}
		sawValue = true

		if canBeBool && !strings.EqualFold(cell, trueStr) && !strings.EqualFold(cell, falseStr) {
			canBeBool = false
		}
		if canBeInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				canBeInt = false
			}
		}
		if canBeFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				canBeFloat = false
			}
		}
		if !canBeBool && !canBeInt && !canBeFloat {
			return dataset.KindString
		}
	}

	if !sawValue {
		return dataset.KindString
	}
	if canBeBool {
		return dataset.KindBool
	}
	if canBeInt {
		return dataset.KindInt64
	}
	if canBeFloat {
		return dataset.KindFloat64
	}
	return dataset.KindString
}

// Write writes the dataset to CSV format. Null slots become empty cells.
func (w *CSVWriter) Write(ds *dataset.Dataset) error {
	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = w.options.Delimiter

	names := ds.Columns()
	if w.options.Header {
		if err := csvWriter.Write(names); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	cols := make([]*dataset.Column, len(names))
	for i, name := range names {
		cols[i], _ = ds.Column(name)
	}

	row := make([]string, len(cols))
	for i := 0; i < ds.Len(); i++ {
		for j, col := range cols {
			if col.IsNull(i) {
				row[j] = ""
				continue
			}
			row[j] = col.GetAsString(i)
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
