package coerce

import (
	"math"
	"strconv"
	"strings"
)

// Era is a named Japanese calendar era. Offset is the Gregorian year that
// precedes the era's first year, so "<Name>N年" is Offset+N.
type Era struct {
	Name   string
	Offset int
}

// Eras lists the supported era names.
var Eras = []Era{
	{Name: "昭和", Offset: 1925},
	{Name: "平成", Offset: 1988},
	{Name: "令和", Offset: 2018},
}

const (
	// PreWar is the literal used for buildings constructed before the end of
	// the war; it is dated to PreWarYear (昭和20年).
	PreWar     = "戦前"
	PreWarYear = 1945

	firstYear = "元" // 元年 is the first year of an era
)

// EraYear converts an era-date string such as "平成9年" to a Gregorian year.
// Plain numeric years pass through. Anything else yields NaN.
func EraYear(s string) float64 {
	s = fold(s)
	if s == "" {
		return math.NaN()
	}
	if s == PreWar {
		return PreWarYear
	}
	for _, e := range Eras {
		rest, ok := strings.CutPrefix(s, e.Name)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(strings.TrimSuffix(rest, "年"))
		if rest == firstYear {
			return float64(e.Offset + 1)
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return math.NaN()
		}
		return float64(e.Offset + n)
	}
	return ParseNumber(s)
}
