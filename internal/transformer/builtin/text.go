package builtin

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"featurepipe/pkg/table"
)

// Fill replaces missing cells of Columns with Value.
type Fill struct {
	Columns []string
	Value   string
}

func (f Fill) Reads() []string  { return f.Columns }
func (f Fill) Writes() []string { return f.Columns }

func (f Fill) Apply(t table.Table) (table.Table, error) {
	if err := t.Require(f.Columns...); err != nil {
		return t, err
	}
	out := t
	for _, c := range f.Columns {
		var err error
		out, err = mapColumn(out, c, c, func(v any) any {
			if table.IsMissing(v) {
				return f.Value
			}
			return v
		})
		if err != nil {
			return t, err
		}
	}
	return out, nil
}

// Replacement modes.
const (
	ModeExact     = "exact"     // whole-cell label -> canonical label
	ModeSubstring = "substring" // ordered find/replace passes
	ModeRegex     = "regex"     // ordered regexp replace passes
)

// Rule is one From -> To substitution.
type Rule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ReplaceTable is a pluggable normalization table for locale-specific labels
// (station names, zoning abbreviations, land-shape prefixes). Rules apply in
// order; Trim lists characters stripped from both ends afterwards.
type ReplaceTable struct {
	Mode  string `yaml:"mode"`
	Trim  string `yaml:"trim"`
	Rules []Rule `yaml:"rules"`
}

// LoadReplaceTable reads a ReplaceTable from a YAML file.
func LoadReplaceTable(path string) (ReplaceTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ReplaceTable{}, fmt.Errorf("replace table: %w", err)
	}
	var rt ReplaceTable
	if err := yaml.Unmarshal(raw, &rt); err != nil {
		return ReplaceTable{}, fmt.Errorf("replace table %s: %w", path, err)
	}
	return rt, nil
}

// Replace normalizes a text column through a ReplaceTable. Missing cells and
// numbers pass through untouched.
type Replace struct {
	Column string
	rt     ReplaceTable
	exact  map[string]string
	res    []*regexp.Regexp
}

// NewReplace validates rt (compiling regexps) and returns the transform.
func NewReplace(column string, rt ReplaceTable) (Replace, error) {
	r := Replace{Column: column, rt: rt}
	switch or(rt.Mode, ModeSubstring) {
	case ModeExact:
		r.exact = make(map[string]string, len(rt.Rules))
		for _, rule := range rt.Rules {
			r.exact[rule.From] = rule.To
		}
	case ModeSubstring:
	case ModeRegex:
		for _, rule := range rt.Rules {
			re, err := regexp.Compile(rule.From)
			if err != nil {
				return Replace{}, fmt.Errorf("replace %s: rule %q: %w", column, rule.From, err)
			}
			r.res = append(r.res, re)
		}
	default:
		return Replace{}, fmt.Errorf("replace %s: unknown mode %q", column, rt.Mode)
	}
	return r, nil
}

func (r Replace) Reads() []string  { return []string{r.Column} }
func (r Replace) Writes() []string { return []string{r.Column} }

func (r Replace) Apply(t table.Table) (table.Table, error) {
	return mapColumn(t, r.Column, r.Column, func(v any) any {
		s, ok := v.(string)
		if !ok {
			return v
		}
		return r.replace(s)
	})
}

func (r Replace) replace(s string) string {
	switch {
	case r.exact != nil:
		if to, ok := r.exact[s]; ok {
			s = to
		}
	case r.res != nil:
		for i, re := range r.res {
			s = re.ReplaceAllString(s, r.rt.Rules[i].To)
		}
	default:
		for _, rule := range r.rt.Rules {
			s = strings.ReplaceAll(s, rule.From, rule.To)
		}
	}
	if r.rt.Trim != "" {
		s = strings.Trim(s, r.rt.Trim)
	}
	return s
}

// Concat joins the text of Columns into Output and keeps the first Prefix
// runes (0 keeps everything). A missing part makes the result missing.
type Concat struct {
	Columns []string
	Output  string
	Prefix  int
}

func (c Concat) Reads() []string  { return c.Columns }
func (c Concat) Writes() []string { return []string{c.Output} }

func (c Concat) Apply(t table.Table) (table.Table, error) {
	parts := make([][]any, len(c.Columns))
	for j, name := range c.Columns {
		col, err := t.Column(name)
		if err != nil {
			return t, err
		}
		parts[j] = col
	}
	out := make([]any, t.Len())
	var b strings.Builder
	for i := range out {
		b.Reset()
		missing := false
		for _, col := range parts {
			if table.IsMissing(col[i]) {
				missing = true
				break
			}
			b.WriteString(table.Text(col[i]))
		}
		if missing {
			continue
		}
		s := b.String()
		if c.Prefix > 0 {
			if r := []rune(s); len(r) > c.Prefix {
				s = string(r[:c.Prefix])
			}
		}
		out[i] = s
	}
	return t.WithColumn(c.Output, out)
}
