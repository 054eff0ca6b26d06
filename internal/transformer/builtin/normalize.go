package builtin

import (
	"strings"

	"featurepipe/pkg/table"
)

const nbspace = "\u00a0"

// Trim strips surrounding whitespace (ideographic space included) from text
// cells and turns no-break spaces into plain spaces. Cells that become empty
// are set to missing. An empty Columns list trims every column.
type Trim struct {
	Columns []string
}

func (t Trim) Reads() []string  { return t.Columns }
func (t Trim) Writes() []string { return t.Columns }

func (t Trim) Apply(in table.Table) (table.Table, error) {
	cols := t.Columns
	if len(cols) == 0 {
		cols = in.Columns()
	}
	if err := in.Require(cols...); err != nil {
		return in, err
	}
	out := in
	for _, c := range cols {
		var err error
		out, err = mapColumn(out, c, c, trimCell)
		if err != nil {
			return in, err
		}
	}
	return out, nil
}

func trimCell(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, nbspace, " "))
	if s == "" {
		return nil
	}
	return s
}
