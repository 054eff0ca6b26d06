// Package records defines the row-oriented view shared by parsers, storage
// backends and tests. A Record maps a column name to a scalar cell value:
// nil (missing), float64 (number) or string.
package records

// Record is a single row keyed by column name.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
