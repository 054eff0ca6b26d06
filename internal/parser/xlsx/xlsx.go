// Package xlsx reads one worksheet of an Excel workbook into a table using
// excelize. The first row of the sheet is the header.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"featurepipe/internal/config"
	"featurepipe/internal/logging"
	"featurepipe/internal/parser"
	"featurepipe/pkg/table"
)

// Options configures the workbook reader.
type Options struct {
	// Sheet names the worksheet. Empty selects the first sheet.
	Sheet string

	HeaderMap       map[string]string
	LowercaseHeader bool
	InferNumbers    bool
	NA              []string
}

// FromOptions reads sheet, header_map, lowercase_header, infer_numbers and
// na_values from a config bag.
func FromOptions(o config.Options) Options {
	return Options{
		Sheet:           o.String("sheet", ""),
		HeaderMap:       o.StringMap("header_map"),
		LowercaseHeader: o.Bool("lowercase_header", false),
		InferNumbers:    o.Bool("infer_numbers", true),
		NA:              o.StringSlice("na_values"),
	}
}

// Parser reads workbooks according to Options.
type Parser struct{ opt Options }

// NewParser constructs a Parser.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

var _ parser.Parser = (*Parser)(nil)

// Parse reads the configured sheet. Rows shorter than the header are padded
// with missing cells, so the skipped count is always zero.
func (p *Parser) Parse(r io.Reader) (table.Table, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return table.Table{}, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := p.opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return table.Table{}, 0, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return table.Table{}, 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return table.Table{}, 0, fmt.Errorf("sheet %q is empty", sheet)
	}
	logging.L().Debug("xlsx: read sheet", "sheet", sheet, "rows", len(rows)-1)

	headers := parser.NormalizeHeaders(rows[0], parser.HeaderOptions{Map: p.opt.HeaderMap, Lowercase: p.opt.LowercaseHeader})
	t, err := parser.Build(headers, rows[1:], parser.ColumnOptions{InferNumbers: p.opt.InferNumbers, NA: p.opt.NA})
	if err != nil {
		return table.Table{}, 0, err
	}
	return t, 0, nil
}
