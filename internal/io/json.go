package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/paveg/crosstab/internal/dataset"
)

// Read reads JSON records and returns a dataset. Missing keys and JSON nulls
// become null slots.
func (r *JSONReader) Read() (*dataset.Dataset, error) {
	var records []map[string]any
	var err error

	switch r.options.Format {
	case JSONArray:
		records, err = r.readArray()
	case JSONLines:
		records, err = r.readLines()
	default:
		return nil, fmt.Errorf("unsupported JSON format: %d", r.options.Format)
	}
	if err != nil {
		return nil, err
	}

	if r.options.MaxRecords > 0 && len(records) > r.options.MaxRecords {
		records = records[:r.options.MaxRecords]
	}

	return r.recordsToDataset(records)
}

func (r *JSONReader) readArray() ([]map[string]any, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading JSON data: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling JSON array: %w", err)
	}
	return records, nil
}

func (r *JSONReader) readLines() ([]map[string]any, error) {
	scanner := bufio.NewScanner(r.reader)
	var records []map[string]any

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var record map[string]any
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			return nil, fmt.Errorf("unmarshaling JSON line %d: %w", line, err)
		}
		records = append(records, record)

		if r.options.MaxRecords > 0 && len(records) >= r.options.MaxRecords {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning JSON lines: %w", err)
	}
	return records, nil
}

// recordsToDataset builds one column per key appearing in any record, in
// sorted name order so repeated reads agree.
func (r *JSONReader) recordsToDataset(records []map[string]any) (*dataset.Dataset, error) {
	if len(records) == 0 {
		return dataset.New(), nil
	}

	nameSet := make(map[string]struct{})
	for _, record := range records {
		for key := range record {
			nameSet[key] = struct{}{}
		}
	}
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]*dataset.Column, 0, len(names))
	for _, name := range names {
		values := make([]any, len(records))
		valid := make([]bool, len(records))
		for i, record := range records {
			v, ok := record[name]
			values[i] = v
			valid[i] = ok && v != nil
		}

		col, err := r.buildColumn(name, values, valid)
		if err != nil {
			return nil, fmt.Errorf("building column %s: %w", name, err)
		}
		columns = append(columns, col)
	}

	return dataset.New(columns...), nil
}

func (r *JSONReader) buildColumn(name string, values []any, valid []bool) (*dataset.Column, error) {
	kind := dataset.KindString
	if r.options.TypeInference {
		kind = inferValueKind(values, valid)
	}

	switch kind {
	case dataset.KindBool:
		out := make([]bool, len(values))
		for i, v := range values {
			if valid[i] {
				out[i] = v.(bool)
			}
		}
		return dataset.NewNullableColumn(name, out, valid, r.mem)
	case dataset.KindInt64:
		out := make([]int64, len(values))
		for i, v := range values {
			if valid[i] {
				out[i] = int64(v.(float64))
			}
		}
		return dataset.NewNullableColumn(name, out, valid, r.mem)
	case dataset.KindFloat64:
		out := make([]float64, len(values))
		for i, v := range values {
			if valid[i] {
				out[i] = v.(float64)
			}
		}
		return dataset.NewNullableColumn(name, out, valid, r.mem)
	default:
		out := make([]string, len(values))
		for i, v := range values {
			if valid[i] {
				out[i] = renderJSONValue(v)
			}
		}
		return dataset.NewNullableColumn(name, out, valid, r.mem)
	}
}

// inferValueKind picks the column kind from the decoded JSON values. Numbers
// decode as float64; an all-integral column becomes int64. Mixing strings or
// booleans with numbers falls back to string.
func inferValueKind(values []any, valid []bool) dataset.Kind {
	hasInt := false
	hasFloat := false
	hasBool := false
	hasOther := false
	sawValue := false

	for i, v := range values {
		if !valid[i] {
			continue
		}
		sawValue = true

		switch val := v.(type) {
		case bool:
			hasBool = true
		case float64:
			if val == float64(int64(val)) {
				hasInt = true
			} else {
				hasFloat = true
			}
		default:
			hasOther = true
		}
	}

	switch {
	case !sawValue, hasOther:
		return dataset.KindString
	case hasBool && (hasInt || hasFloat):
		return dataset.KindString
	case hasFloat:
		return dataset.KindFloat64
	case hasInt:
		return dataset.KindInt64
	case hasBool:
		return dataset.KindBool
	default:
		return dataset.KindString
	}
}

func renderJSONValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
