// Package probe profiles a parsed input table and drafts a starter pipeline
// file for it.
//
// The profile lists, per column, the inferred kind, the number of missing
// cells, the number of distinct values and a few examples. Text columns whose
// cells read as Japanese era years, trade periods or bucketed labels produce
// transform suggestions; when every column the default preprocessing reads
// is present the draft leaves transform empty so the default chain runs.
package probe

import (
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"featurepipe/internal/coerce"
	"featurepipe/internal/config"
	"featurepipe/pkg/table"
)

// maxExamples caps ColumnReport.Examples.
const maxExamples = 3

// Options controls the draft config.
type Options struct {
	// Path is the probed input; it becomes source.file.path.
	Path string
	// Parser is copied into the draft as is.
	Parser config.Parser
	// Job names the draft; defaults to a slug of the file name.
	Job string
	// Backend selects the draft storage kind. Defaults to sqlite.
	Backend string
	// Required lists the columns the default chain reads.
	Required []string
}

// ColumnReport profiles one column.
type ColumnReport struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Missing  int      `json:"missing"`
	Distinct int      `json:"distinct"`
	Examples []string `json:"examples,omitempty"`
}

// Result is the profile plus the drafted pipeline.
type Result struct {
	Rows    int             `json:"rows"`
	Columns []ColumnReport  `json:"columns"`
	Config  config.Pipeline `json:"config"`
}

// Probe profiles t and drafts a pipeline for it.
func Probe(t table.Table, opt Options) Result {
	res := Result{Rows: t.Len()}
	var suggested []config.Transform
	for _, name := range t.Columns() {
		col, _ := t.Column(name)
		res.Columns = append(res.Columns, profile(name, col))
		if tr, ok := suggest(name, col); ok {
			suggested = append(suggested, tr)
		}
	}
	if hasAll(t, opt.Required) {
		suggested = nil
	}
	res.Config = draft(opt, suggested)
	return res
}

// JSON renders r with two-space indentation and a trailing newline.
func (r Result) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func profile(name string, col []any) ColumnReport {
	rep := ColumnReport{Name: name, Kind: table.KindOf(col).String()}
	seen := map[string]bool{}
	for _, v := range col {
		if table.IsMissing(v) {
			rep.Missing++
			continue
		}
		s := table.Text(v)
		if seen[s] {
			continue
		}
		seen[s] = true
		if len(rep.Examples) < maxExamples {
			rep.Examples = append(rep.Examples, s)
		}
	}
	rep.Distinct = len(seen)
	return rep
}

// suggest proposes a transform for a text column when every non-missing cell
// parses under one of the coercions and at least one cell is not a plain
// number (plain numeric columns are already typed by the parser).
func suggest(name string, col []any) (config.Transform, bool) {
	var cells []string
	labelled := false
	for _, v := range col {
		s, ok := v.(string)
		if !ok || table.IsMissing(v) {
			continue
		}
		cells = append(cells, s)
		if math.IsNaN(coerce.ParseNumber(s)) {
			labelled = true
		}
	}
	if len(cells) == 0 || !labelled {
		return config.Transform{}, false
	}
	opts := config.Options{"column": name}
	switch {
	case all(cells, func(s string) bool { return !math.IsNaN(coerce.EraYear(s)) }):
		return config.Transform{Kind: "era_year", Name: slug(name), Options: opts}, true
	case all(cells, func(s string) bool { return !math.IsNaN(coerce.PeriodIndex(s)) }):
		return config.Transform{Kind: "period", Name: slug(name), Options: opts}, true
	}
	for _, dn := range []string{"walk_time", "floor_area", "lot_area", "frontage"} {
		d := coerce.Decoders[dn]
		if all(cells, func(s string) bool { return !math.IsNaN(d.Decode(s)) }) {
			opts["decoder"] = dn
			return config.Transform{Kind: "decode", Name: slug(name), Options: opts}, true
		}
	}
	return config.Transform{}, false
}

func draft(opt Options, ts []config.Transform) config.Pipeline {
	job := opt.Job
	if job == "" {
		job = slug(strings.TrimSuffix(filepath.Base(opt.Path), filepath.Ext(opt.Path)))
	}
	p := config.Pipeline{
		Job:       job,
		Source:    config.Source{Kind: "file", File: config.SourceFile{Path: opt.Path}},
		Parser:    opt.Parser,
		Transform: ts,
		Runtime:   config.RuntimeConfig{BatchSize: 5000},
	}
	switch backend := opt.Backend; backend {
	case "csv":
		p.Storage = config.Storage{Kind: "csv", CSV: config.CSVConfig{Path: job + "_features.csv"}}
	case "", "sqlite":
		p.Storage = config.Storage{Kind: "sqlite", DB: config.DBConfig{DSN: job + ".db", Table: "features", AutoCreateTable: true}}
	default:
		p.Storage = config.Storage{Kind: backend, DB: config.DBConfig{Table: "features", AutoCreateTable: true}}
	}
	return p
}

func hasAll(t table.Table, names []string) bool {
	if len(names) == 0 {
		return false
	}
	return t.Require(names...) == nil
}

func all(xs []string, fn func(string) bool) bool {
	for _, x := range xs {
		if !fn(x) {
			return false
		}
	}
	return true
}

// slug lowercases s, strips accents and keeps [a-z0-9] runs joined by "_".
// Names with nothing left (e.g. all-kana headers) become "col".
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case !prevUnderscore && b.Len() > 0:
			b.WriteRune('_')
			prevUnderscore = true
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	return name
}
