package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paveg/crosstab/internal/pivot"
)

// ResultWriter writes pivot results in their JSON wire form.
type ResultWriter struct {
	writer io.Writer
	indent bool
}

// NewResultWriter creates a writer emitting compact JSON.
func NewResultWriter(w io.Writer) *ResultWriter {
	return &ResultWriter{writer: w}
}

// NewIndentedResultWriter creates a writer emitting indented JSON for human
// consumption.
func NewIndentedResultWriter(w io.Writer) *ResultWriter {
	return &ResultWriter{writer: w, indent: true}
}

// Write serializes the result. Scalar serialization rules apply: int64 beyond
// 2^53 becomes a JSON string, NaN and infinities become null.
func (w *ResultWriter) Write(res *pivot.Result) error {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(res, "", "  ")
	} else {
		data, err = json.Marshal(res)
	}
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	if _, err := w.writer.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}
