// Package builtin contains the column transforms of the feature pipeline.
//
// Each transform is a small value type implementing transformer.Transformer
// and transformer.Declarer. Transforms never mutate their input table: they
// allocate a fresh slice for every column they write and return a new table
// via table.WithColumn. Malformed cells become NaN (numeric outputs) or are
// passed through unchanged (text outputs); they never abort the pipeline.
// Referencing a column that is not in the table fails with
// table.ErrMissingColumn.
package builtin

import (
	"featurepipe/pkg/table"
)

// mapColumn applies fn to every cell of in and writes the results to out.
func mapColumn(t table.Table, in, out string, fn func(v any) any) (table.Table, error) {
	src, err := t.Column(in)
	if err != nil {
		return t, err
	}
	dst := make([]any, len(src))
	for i, v := range src {
		dst[i] = fn(v)
	}
	return t.WithColumn(out, dst)
}

// or returns s unless it is empty, in which case def.
func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func flag(b bool) any {
	if b {
		return 1.0
	}
	return 0.0
}
