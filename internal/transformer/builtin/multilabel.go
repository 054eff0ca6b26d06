package builtin

import (
	"fmt"
	"sort"
	"strings"

	"featurepipe/pkg/table"
)

// DefaultLabelSep is the ideographic comma used by the source data.
const DefaultLabelSep = "、"

// SplitLabels expands a column of Sep-delimited labels into one 0/1 column per
// distinct label, named "{Column}_{i}". Labels are ordered lexicographically
// (byte order), so the mapping from index to label is stable for a given set
// of labels. Missing or empty cells produce all-zero rows. An indicator name
// already present in the table is an error.
type SplitLabels struct {
	Column string
	Sep    string // defaults to DefaultLabelSep
}

func (s SplitLabels) Reads() []string { return []string{s.Column} }

// Writes is data dependent.
func (s SplitLabels) Writes() []string { return nil }

func (s SplitLabels) Apply(t table.Table) (table.Table, error) {
	out, _, err := s.Decompose(t)
	return out, err
}

// Decompose is Apply that also returns the label behind each new column, in
// column order.
func (s SplitLabels) Decompose(t table.Table) (table.Table, []string, error) {
	src, err := t.Column(s.Column)
	if err != nil {
		return t, nil, err
	}
	sep := or(s.Sep, DefaultLabelSep)

	cells := make([][]string, len(src))
	seen := map[string]struct{}{}
	for i, v := range src {
		for _, l := range strings.Split(table.Text(v), sep) {
			l = strings.TrimSpace(l)
			if l == "" {
				continue
			}
			cells[i] = append(cells[i], l)
			seen[l] = struct{}{}
		}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	pos := make(map[string]int, len(labels))
	names := make([]string, len(labels))
	cols := make([][]any, len(labels))
	for j, l := range labels {
		pos[l] = j
		names[j] = fmt.Sprintf("%s_%d", s.Column, j)
		if t.Has(names[j]) {
			return t, nil, fmt.Errorf("split_labels: column %q already exists", names[j])
		}
		col := make([]any, len(src))
		for i := range col {
			col[i] = 0.0
		}
		cols[j] = col
	}
	for i, ls := range cells {
		for _, l := range ls {
			cols[pos[l]][i] = 1.0
		}
	}
	out, err := t.WithColumns(names, cols)
	if err != nil {
		return t, nil, err
	}
	return out, labels, nil
}
