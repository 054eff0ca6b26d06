// Package table provides the immutable, column-oriented table that flows
// through the feature pipeline.
//
// A Table is a value: every method that "changes" a table returns a new Table
// and leaves the receiver untouched. Column slices are shared between tables
// that did not rewrite them, so callers must treat slices returned by Column
// as read-only. Transforms therefore always allocate a fresh slice for any
// column they write.
//
// Cell values are one of:
//   - nil     : missing
//   - float64 : number (math.NaN() is also treated as missing)
//   - string  : text
package table

import (
	"fmt"

	"featurepipe/pkg/records"
)

// Table is an ordered set of equally long, named columns.
type Table struct {
	names []string
	index map[string]int
	cols  [][]any
	rows  int
}

// New builds a table from parallel name/column slices. Every column must have
// the same length and names must be unique.
func New(names []string, cols [][]any) (Table, error) {
	if len(names) != len(cols) {
		return Table{}, fmt.Errorf("table: %d names for %d columns", len(names), len(cols))
	}
	t := Table{
		names: make([]string, 0, len(names)),
		index: make(map[string]int, len(names)),
		cols:  make([][]any, 0, len(cols)),
	}
	for i, name := range names {
		if _, dup := t.index[name]; dup {
			return Table{}, fmt.Errorf("table: duplicate column %q", name)
		}
		if i > 0 && len(cols[i]) != t.rows {
			return Table{}, fmt.Errorf("table: column %q has %d rows, want %d", name, len(cols[i]), t.rows)
		}
		if i == 0 {
			t.rows = len(cols[i])
		}
		t.index[name] = i
		t.names = append(t.names, name)
		t.cols = append(t.cols, cols[i])
	}
	return t, nil
}

// FromRecords builds a table from row maps. Column order follows names; a
// key absent from a record becomes a missing cell.
func FromRecords(names []string, recs []records.Record) (Table, error) {
	cols := make([][]any, len(names))
	for j, name := range names {
		col := make([]any, len(recs))
		for i, r := range recs {
			col[i] = r[name]
		}
		cols[j] = col
	}
	return New(names, cols)
}

// Len returns the number of rows.
func (t Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t Table) Width() int { return len(t.names) }

// Columns returns a copy of the column names in table order.
func (t Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Has reports whether the table has a column called name.
func (t Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Require returns a MissingColumnError for the first absent name.
func (t Table) Require(names ...string) error {
	for _, n := range names {
		if !t.Has(n) {
			return &MissingColumnError{Column: n}
		}
	}
	return nil
}

// Column returns the values of the named column. The slice is shared with the
// table and must not be modified.
func (t Table) Column(name string) ([]any, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &MissingColumnError{Column: name}
	}
	return t.cols[i], nil
}

// Value returns the cell at (row, name), or nil when the column is absent.
func (t Table) Value(row int, name string) any {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.rows {
		return nil
	}
	return t.cols[i][row]
}

// Row returns row i as a Record.
func (t Table) Row(i int) records.Record {
	r := make(records.Record, len(t.names))
	for j, name := range t.names {
		r[name] = t.cols[j][i]
	}
	return r
}

// Records materializes every row as a Record.
func (t Table) Records() []records.Record {
	out := make([]records.Record, t.rows)
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// Values returns row i as a slice aligned with Columns().
func (t Table) Values(i int) []any {
	out := make([]any, len(t.cols))
	for j := range t.cols {
		out[j] = t.cols[j][i]
	}
	return out
}

// WithColumn returns a table where name holds vals. An existing column keeps
// its position; a new column is appended. The length of vals must match the
// row count unless the table has no columns yet.
func (t Table) WithColumn(name string, vals []any) (Table, error) {
	if len(t.names) > 0 && len(vals) != t.rows {
		return t, fmt.Errorf("table: column %q has %d rows, want %d", name, len(vals), t.rows)
	}
	out := Table{
		names: t.names,
		index: t.index,
		cols:  make([][]any, len(t.cols), len(t.cols)+1),
		rows:  len(vals),
	}
	copy(out.cols, t.cols)
	if i, ok := t.index[name]; ok {
		out.cols[i] = vals
		return out, nil
	}
	out.names = make([]string, len(t.names), len(t.names)+1)
	copy(out.names, t.names)
	out.names = append(out.names, name)
	out.index = make(map[string]int, len(t.index)+1)
	for k, v := range t.index {
		out.index[k] = v
	}
	out.index[name] = len(out.names) - 1
	out.cols = append(out.cols, vals)
	return out, nil
}

// WithColumns applies WithColumn for each name/column pair in order.
func (t Table) WithColumns(names []string, cols [][]any) (Table, error) {
	if len(names) != len(cols) {
		return t, fmt.Errorf("table: %d names for %d columns", len(names), len(cols))
	}
	out := t
	for i, name := range names {
		var err error
		if out, err = out.WithColumn(name, cols[i]); err != nil {
			return t, err
		}
	}
	return out, nil
}

// Concat stacks tables vertically. The result has the union of their columns
// in first-seen order; a table lacking a column contributes missing cells.
func Concat(ts ...Table) (Table, error) {
	var names []string
	seen := map[string]bool{}
	rows := 0
	for _, t := range ts {
		rows += t.rows
		for _, n := range t.names {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	cols := make([][]any, len(names))
	for j, n := range names {
		col := make([]any, 0, rows)
		for _, t := range ts {
			if k, ok := t.index[n]; ok {
				col = append(col, t.cols[k]...)
			} else {
				col = append(col, make([]any, t.rows)...)
			}
		}
		cols[j] = col
	}
	return New(names, cols)
}
