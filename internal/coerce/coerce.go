// Package coerce maps raw, locale-specific cell text to typed scalars.
//
// Every function here is total: malformed or empty input yields NaN (the
// missing sentinel for numeric columns) or a documented fallback, never an
// error or a panic. Full-width digits and letters are folded to their ASCII
// forms before parsing.
package coerce

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// fold maps full-width ASCII variants to ASCII and trims surrounding space.
func fold(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}

// ParseNumber parses s as a decimal number. Thousands separators are ignored.
// Unparseable input yields NaN.
func ParseNumber(s string) float64 {
	s = strings.ReplaceAll(fold(s), ",", "")
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// Number coerces an arbitrary cell to a float64. Numbers pass through,
// strings are parsed with ParseNumber; ok is false for anything missing.
func Number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		f = ParseNumber(x)
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
