// Package table is a schema-less, in-memory table of loosely typed records.
//
// Columns keep the order in which they were first observed, rows hold one
// cell per column, a nil cell is a missing value.
package table

import (
	"fmt"
	"slices"
)

type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New creates an empty table with the given column labels.
func New(columns ...string) (Table, error) {
	t := Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, exists := t.index[c]; exists {
			return Table{}, fmt.Errorf("duplicate column %q", c)
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// FromRecords builds a table out of JSON-like records, the columns are the
// union of all keys in first-seen order. Within a single record keys have no
// order, so new keys of a record are added sorted.
func FromRecords(records []map[string]any) Table {
	t := Table{index: map[string]int{}}
	for _, rec := range records {
		var fresh []string
		for k := range rec {
			if _, ok := t.index[k]; !ok {
				fresh = append(fresh, k)
			}
		}
		slices.Sort(fresh)
		for _, k := range fresh {
			t.index[k] = len(t.columns)
			t.columns = append(t.columns, k)
		}
	}

	t.rows = make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(t.columns))
		for k, v := range rec {
			row[t.index[k]] = v
		}
		t.rows[i] = row
	}
	return t
}

// Columns returns a copy of the column labels.
func (t Table) Columns() []string {
	return slices.Clone(t.columns)
}

func (t Table) NumRows() int {
	return len(t.rows)
}

func (t Table) NumColumns() int {
	return len(t.columns)
}

// HasColumn reports whether the table has a column with the given label.
func (t Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Row returns a copy of the i-th row.
func (t Table) Row(i int) []any {
	return slices.Clone(t.rows[i])
}

// Cell returns the value at row i of the given column.
func (t Table) Cell(i int, column string) (any, bool) {
	idx, ok := t.index[column]
	if !ok {
		return nil, false
	}
	return t.rows[i][idx], true
}

// Column returns a copy of every value in the given column.
func (t Table) Column(name string) ([]any, bool) {
	idx, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out, true
}

// AppendRow adds a row, it must have exactly one cell per column.
func (t *Table) AppendRow(cells ...any) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.columns))
	}
	t.rows = append(t.rows, slices.Clone(cells))
	return nil
}

// Records converts the table back into records, missing cells are left out.
func (t Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.rows))
	for i, row := range t.rows {
		rec := make(map[string]any, len(t.columns))
		for j, c := range t.columns {
			if row[j] != nil {
				rec[c] = row[j]
			}
		}
		out[i] = rec
	}
	return out
}

// Clone returns a deep copy of the table structure, cell values are shared.
func (t Table) Clone() Table {
	out := Table{
		columns: slices.Clone(t.columns),
		index:   make(map[string]int, len(t.index)),
		rows:    make([][]any, len(t.rows)),
	}
	for k, v := range t.index {
		out.index[k] = v
	}
	for i, row := range t.rows {
		out.rows[i] = slices.Clone(row)
	}
	return out
}

// Rename relabels every column with fn. Two columns mapping to the same
// label is an error.
func (t Table) Rename(fn func(string) string) (Table, error) {
	out := t.Clone()
	out.index = make(map[string]int, len(out.columns))
	for i, c := range out.columns {
		renamed := fn(c)
		if _, exists := out.index[renamed]; exists {
			return Table{}, fmt.Errorf("rename %q: column %q already exists", c, renamed)
		}
		out.columns[i] = renamed
		out.index[renamed] = i
	}
	return out, nil
}

// Select returns a table with only the given columns in the given order.
func (t Table) Select(columns ...string) (Table, error) {
	out, err := New(columns...)
	if err != nil {
		return Table{}, err
	}
	idxs := make([]int, len(columns))
	for i, c := range columns {
		idx, ok := t.index[c]
		if !ok {
			return Table{}, fmt.Errorf("select: no column %q", c)
		}
		idxs[i] = idx
	}
	out.rows = make([][]any, len(t.rows))
	for i, row := range t.rows {
		next := make([]any, len(idxs))
		for j, idx := range idxs {
			next[j] = row[idx]
		}
		out.rows[i] = next
	}
	return out, nil
}

// Drop returns a table without the given columns, unknown names are ignored.
func (t Table) Drop(columns ...string) Table {
	kept := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !slices.Contains(columns, c) {
			kept = append(kept, c)
		}
	}
	out, _ := t.Select(kept...)
	return out
}

// WithColumn returns a table with the column set to values, replacing it in
// place if it exists and appending it otherwise.
func (t Table) WithColumn(name string, values []any) (Table, error) {
	if len(values) != len(t.rows) {
		return Table{}, fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.rows))
	}
	out := t.Clone()
	idx, ok := out.index[name]
	if !ok {
		idx = len(out.columns)
		out.index[name] = idx
		out.columns = append(out.columns, name)
		for i := range out.rows {
			out.rows[i] = append(out.rows[i], nil)
		}
	}
	for i := range out.rows {
		out.rows[i][idx] = values[i]
	}
	return out, nil
}

// Head returns a table with at most the first n rows.
func (t Table) Head(n int) Table {
	out := t.Clone()
	if n < len(out.rows) {
		out.rows = out.rows[:n]
	}
	return out
}
