// Package csv reads a delimited text export into a table. Rows that fail to
// parse or have the wrong width are skipped and counted rather than aborting
// the read.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"featurepipe/internal/config"
	"featurepipe/internal/logging"
	"featurepipe/internal/parser"
	"featurepipe/pkg/table"
)

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// ExpectedFields, when > 0, enforces a fixed field count per record. Rows
	// with a different width are skipped (soft-fail) and counted.
	ExpectedFields int

	// HeaderMap maps source header names to canonical column names.
	HeaderMap map[string]string

	// LowercaseHeader lowercases unmapped headers.
	LowercaseHeader bool

	// Encoding names the input charset ("shift_jis", "euc-jp", ...). Empty
	// means UTF-8.
	Encoding string

	// InferNumbers turns all-numeric columns into float64 columns.
	InferNumbers bool

	// NA lists cell texts read as missing in addition to "".
	NA []string
}

// FromOptions reads parser options from a pipeline config bag. Keys:
// has_header, comma, trim_space, expected_fields, header_map,
// lowercase_header, encoding, infer_numbers, na_values.
func FromOptions(o config.Options) Options {
	return Options{
		HasHeader:       o.Bool("has_header", true),
		Comma:           o.Rune("comma", ','),
		TrimSpace:       o.Bool("trim_space", false),
		ExpectedFields:  o.Int("expected_fields", 0),
		HeaderMap:       o.StringMap("header_map"),
		LowercaseHeader: o.Bool("lowercase_header", false),
		Encoding:        o.String("encoding", ""),
		InferNumbers:    o.Bool("infer_numbers", true),
		NA:              o.StringSlice("na_values"),
	}
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

var _ parser.Parser = (*Parser)(nil)

// skipLogLimit caps per-row skip log lines.
const skipLogLimit = 400

// Parse reads every record from r and returns the table along with the
// number of skipped rows.
func (p *Parser) Parse(r io.Reader) (table.Table, int, error) {
	if p.opt.Encoding != "" {
		enc, err := htmlindex.Get(p.opt.Encoding)
		if err != nil {
			return table.Table{}, 0, fmt.Errorf("csv encoding %q: %w", p.opt.Encoding, err)
		}
		r = transform.NewReader(r, enc.NewDecoder())
	}

	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	var headers []string
	if p.opt.HasHeader {
		h, err := cr.Read()
		if err == io.EOF {
			return table.Table{}, 0, fmt.Errorf("read csv header: empty input")
		}
		if err != nil {
			return table.Table{}, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = parser.NormalizeHeaders(h, parser.HeaderOptions{Map: p.opt.HeaderMap, Lowercase: p.opt.LowercaseHeader})
	} else if p.opt.ExpectedFields > 0 {
		headers = parser.NormalizeHeaders(make([]string, p.opt.ExpectedFields), parser.HeaderOptions{})
	}

	width := len(headers)
	if p.opt.ExpectedFields > 0 {
		width = p.opt.ExpectedFields
	}

	log := logging.L()
	var rows [][]string
	var skipped int
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return table.Table{}, skipped, fmt.Errorf("read csv line %d: %w", line, err)
			}
			if skipped < skipLogLimit {
				log.Warn("csv: skipping row", "line", line, "err", err)
			}
			skipped++
			continue
		}
		if headers == nil {
			// Headerless input without ExpectedFields: the first row fixes the width.
			headers = parser.NormalizeHeaders(make([]string, len(row)), parser.HeaderOptions{})
			width = len(row)
		}
		if len(row) != width {
			if skipped < skipLogLimit {
				log.Warn("csv: skipping row with wrong field count", "line", line, "want", width, "got", len(row))
			}
			skipped++
			continue
		}
		if p.opt.TrimSpace {
			for i := range row {
				row[i] = strings.TrimSpace(row[i])
			}
		}
		rows = append(rows, row)
	}

	t, err := parser.Build(headers, rows, parser.ColumnOptions{InferNumbers: p.opt.InferNumbers, NA: p.opt.NA})
	if err != nil {
		return table.Table{}, skipped, err
	}
	return t, skipped, nil
}
