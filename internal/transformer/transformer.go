// Package transformer defines the column-transform contract used by the
// feature pipeline and a Chain that composes transforms in order.
//
// A Transformer is a pure Table -> Table function: it reads one or more named
// columns, writes one or more named columns and leaves every other column
// untouched. Row count and row order are invariant; Chain enforces that.
package transformer

import (
	"errors"
	"fmt"

	"featurepipe/pkg/table"
)

// ErrRowCount is returned when a transform changes the number of rows.
var ErrRowCount = errors.New("transform changed row count")

// Transformer rewrites columns of a table and returns the new table.
type Transformer interface {
	Apply(table.Table) (table.Table, error)
}

// Declarer is implemented by transforms that can state up front which
// columns they read and write. Writes may be nil when the output columns
// depend on the data (e.g. multi-label decomposition).
type Declarer interface {
	Reads() []string
	Writes() []string
}

// Func adapts a plain function to Transformer.
type Func func(table.Table) (table.Table, error)

// Apply calls f(t).
func (f Func) Apply(t table.Table) (table.Table, error) { return f(t) }

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order, feeding each the previous output.
// On error the input table is returned unchanged.
func (c Chain) Apply(in table.Table) (table.Table, error) {
	out := in
	for i, t := range c {
		next, err := t.Apply(out)
		if err != nil {
			return in, fmt.Errorf("transform %d: %w", i, err)
		}
		if next.Len() != out.Len() {
			return in, fmt.Errorf("transform %d: %w (%d -> %d)", i, ErrRowCount, out.Len(), next.Len())
		}
		out = next
	}
	return out, nil
}

// ErrOrder is returned when a transform reads a column that only a later
// transform produces.
var ErrOrder = errors.New("transform reads a column produced later")

// Check walks the declared reads and writes of c against the starting
// columns without running anything. A read of an absent column fails with
// ErrOrder when a later step writes it and with table.MissingColumnError
// otherwise. Checks for absent columns stop after the first step that does
// not declare its writes.
func (c Chain) Check(columns []string) error {
	have := make(map[string]bool, len(columns))
	for _, name := range columns {
		have[name] = true
	}
	opaque := false
	for i, t := range c {
		d, ok := t.(Declarer)
		if !ok {
			opaque = true
			continue
		}
		for _, r := range d.Reads() {
			if have[r] {
				continue
			}
			if j := c.writer(r, i+1); j >= 0 {
				return fmt.Errorf("transform %d: %w: %q is written by transform %d", i, ErrOrder, r, j)
			}
			if !opaque {
				return fmt.Errorf("transform %d: %w", i, &table.MissingColumnError{Column: r})
			}
		}
		ws := d.Writes()
		if ws == nil {
			opaque = true
		}
		for _, w := range ws {
			have[w] = true
		}
	}
	return nil
}

// writer returns the index of the first transform at or after from that
// declares it writes name, or -1.
func (c Chain) writer(name string, from int) int {
	for j := from; j < len(c); j++ {
		d, ok := c[j].(Declarer)
		if !ok {
			continue
		}
		for _, w := range d.Writes() {
			if w == name {
				return j
			}
		}
	}
	return -1
}
