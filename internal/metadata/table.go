// Package metadata holds per-sample mapping data as a typed table.
//
// Column names are resolved once into a Column; values are then read by
// position without repeated header lookups.
package metadata

import (
	"errors"
	"fmt"
	"sort"
)

// ErrColumnNotFound is returned when a column name is not one of the headers.
var ErrColumnNotFound = errors.New("column not found")

// Row is the metadata of a single sample. Values are aligned to the table headers.
type Row struct {
	ID     string
	Values []string
}

// Table is an ordered set of sample rows sharing one header list.
type Table struct {
	headers []string
	rows    []Row
	columns map[string]int
	byID    map[string]int
}

// Column is a resolved header.
type Column struct {
	name  string
	index int
}

// NewTable builds a table from headers and rows; row order is kept.
func NewTable(headers []string, rows []Row) (*Table, error) {
	t := &Table{
		headers: append([]string(nil), headers...),
		rows:    make([]Row, 0, len(rows)),
		columns: make(map[string]int, len(headers)),
		byID:    make(map[string]int, len(rows)),
	}

	for i, h := range headers {
		if _, dup := t.columns[h]; dup {
			return nil, fmt.Errorf("duplicate header %q", h)
		}
		t.columns[h] = i
	}

	for _, r := range rows {
		if len(r.Values) != len(headers) {
			return nil, fmt.Errorf("sample %q has %d values, expected %d", r.ID, len(r.Values), len(headers))
		}
		if _, dup := t.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate sample %q", r.ID)
		}
		t.byID[r.ID] = len(t.rows)
		t.rows = append(t.rows, Row{ID: r.ID, Values: append([]string(nil), r.Values...)})
	}

	return t, nil
}

// FromMap builds a table from a sample id to values mapping. Rows are ordered by sample id.
func FromMap(headers []string, data map[string][]string) (*Table, error) {
	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, Row{ID: id, Values: data[id]})
	}
	return NewTable(headers, rows)
}

// Headers returns a copy of the header list.
func (t *Table) Headers() []string {
	return append([]string(nil), t.headers...)
}

// Rows returns the rows in table order. Callers must not modify them.
func (t *Table) Rows() []Row {
	return t.rows
}

// Len returns the number of samples.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row looks up a sample by id.
func (t *Table) Row(id string) (Row, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Row{}, false
	}
	return t.rows[i], true
}

// Column resolves a header name.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.columns[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return Column{name: name, index: i}, nil
}

// Name returns the header the column was resolved from.
func (c Column) Name() string {
	return c.name
}

// Value returns the row's value in this column.
func (c Column) Value(r Row) string {
	return r.Values[c.index]
}
