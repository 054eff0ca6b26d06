// Package parser turns raw source bytes into a table.Table.
//
// Concrete formats live in subpackages (csv, xlsx). They share the header
// normalization and column typing implemented here, so a workbook and a csv
// export of the same data produce the same table.
package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"featurepipe/pkg/table"
)

// Parser reads one table from r. The int result counts rows that were
// skipped because they could not be read.
type Parser interface {
	Parse(r io.Reader) (table.Table, int, error)
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// HeaderOptions controls header normalization.
type HeaderOptions struct {
	// Map renames source headers (after trimming) to canonical names.
	Map map[string]string
	// Lowercase lowercases unmapped headers and replaces spaces with underscores.
	Lowercase bool
}

// NormalizeHeaders trims headers, strips a BOM from the first cell, applies
// the rename map and makes names unique. Empty headers become col_N and a
// repeated name gets a ".N" suffix.
func NormalizeHeaders(h []string, opt HeaderOptions) []string {
	res := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if m, ok := opt.Map[c]; ok {
			c = m
		} else if opt.Lowercase {
			c = strings.ReplaceAll(strings.ToLower(c), " ", "_")
		}
		if c == "" {
			c = fmt.Sprintf("col_%d", i)
		}
		if n := seen[c]; n > 0 {
			seen[c] = n + 1
			c = fmt.Sprintf("%s.%d", c, n)
		}
		seen[c]++
		res[i] = c
	}
	return res
}

// ColumnOptions controls how string cells become table values.
type ColumnOptions struct {
	// InferNumbers converts a column to float64 when every non-missing cell
	// is a plain decimal number.
	InferNumbers bool
	// NA lists extra cell texts read as missing. The empty string is always
	// missing.
	NA []string
}

// Build assembles rows of strings into a table. Short rows are padded with
// missing cells; cells beyond len(headers) are dropped.
func Build(headers []string, rows [][]string, opt ColumnOptions) (table.Table, error) {
	na := make(map[string]bool, len(opt.NA)+1)
	na[""] = true
	for _, s := range opt.NA {
		na[s] = true
	}

	cols := make([][]any, len(headers))
	for j := range headers {
		col := make([]any, len(rows))
		numeric := opt.InferNumbers
		for i, row := range rows {
			if j >= len(row) || na[row[j]] {
				continue
			}
			col[i] = row[j]
			if numeric && !plainNumber(row[j]) {
				numeric = false
			}
		}
		if numeric {
			for i, v := range col {
				if s, ok := v.(string); ok {
					f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
					col[i] = f
				}
			}
		}
		cols[j] = col
	}
	return table.New(headers, cols)
}

// plainNumber reports whether s is a finite decimal literal such as "12",
// "-0.5" or "1e3". Hex, NaN and Inf spellings are rejected.
func plainNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c == '.', c == '-', c == '+', c == 'e', c == 'E':
		default:
			return false
		}
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
