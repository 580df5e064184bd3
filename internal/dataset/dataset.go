package dataset

import (
	"fmt"
	"strings"
)

// Dataset represents a collection of equal-length columns with ordered names
type Dataset struct {
	columns map[string]*Column
	order   []string // maintains column insertion order
}

// New creates a new Dataset from the given columns. A repeated column name
// replaces the earlier column at its original position.
func New(columns ...*Column) *Dataset {
	ds := &Dataset{
		columns: make(map[string]*Column),
		order:   make([]string, 0, len(columns)),
	}

	for _, col := range columns {
		if col != nil {
			name := col.Name()
			if _, exists := ds.columns[name]; !exists {
				ds.order = append(ds.order, name)
			}
			ds.columns[name] = col
		}
	}

	return ds
}

// Columns returns the column names in insertion order
func (d *Dataset) Columns() []string {
	result := make([]string, len(d.order))
	copy(result, d.order)
	return result
}

// Len returns the number of rows (based on the first column)
func (d *Dataset) Len() int {
	if len(d.order) == 0 {
		return 0
	}

	if col, exists := d.columns[d.order[0]]; exists {
		return col.Len()
	}

	return 0
}

// Width returns the number of columns
func (d *Dataset) Width() int {
	return len(d.columns)
}

// Column returns the column with the given name
func (d *Dataset) Column(name string) (*Column, bool) {
	col, exists := d.columns[name]
	return col, exists
}

// HasColumn checks if a column with the given name exists
func (d *Dataset) HasColumn(name string) bool {
	_, exists := d.columns[name]
	return exists
}

// Validate checks that all columns share the same length.
func (d *Dataset) Validate() error {
	if len(d.order) == 0 {
		return nil
	}

	want := d.Len()
	for _, name := range d.order {
		if got := d.columns[name].Len(); got != want {
			return fmt.Errorf("column '%s' has length %d, expected %d", name, got, want)
		}
	}

	return nil
}

// String returns a string representation of the Dataset
func (d *Dataset) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Dataset[%dx%d]", d.Len(), d.Width()))

	if len(d.order) > 0 {
		sb.WriteString("\n")
		for _, name := range d.order {
			col := d.columns[name]
			sb.WriteString(fmt.Sprintf("  %s: %s\n", name, col.Kind()))
		}
	}

	return sb.String()
}

// Release releases all column memory
func (d *Dataset) Release() {
	for _, col := range d.columns {
		col.Release()
	}
	d.columns = make(map[string]*Column)
	d.order = nil
}
