package builtin

import (
	"sort"

	"featurepipe/internal/coerce"
	"featurepipe/pkg/table"
)

// LabelEncode replaces each categorical column with dense integer codes.
// Missing cells are filled with Fill first; codes follow the sorted order of
// the distinct values and are fitted independently per column on every Apply.
type LabelEncode struct {
	Columns []string
	Fill    string // defaults to coerce.NoData
}

func (l LabelEncode) Reads() []string  { return l.Columns }
func (l LabelEncode) Writes() []string { return l.Columns }

func (l LabelEncode) Apply(t table.Table) (table.Table, error) {
	if err := t.Require(l.Columns...); err != nil {
		return t, err
	}
	fill := or(l.Fill, coerce.NoData)
	out := t
	for _, c := range l.Columns {
		src, _ := out.Column(c)
		keys := make([]string, len(src))
		distinct := map[string]struct{}{}
		for i, v := range src {
			k := fill
			if !table.IsMissing(v) {
				k = table.Text(v)
			}
			keys[i] = k
			distinct[k] = struct{}{}
		}
		classes := make([]string, 0, len(distinct))
		for k := range distinct {
			classes = append(classes, k)
		}
		sort.Strings(classes)
		code := make(map[string]int, len(classes))
		for i, k := range classes {
			code[k] = i
		}
		dst := make([]any, len(src))
		for i, k := range keys {
			dst[i] = float64(code[k])
		}
		var err error
		if out, err = out.WithColumn(c, dst); err != nil {
			return t, err
		}
	}
	return out, nil
}
