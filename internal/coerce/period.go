package coerce

import (
	"math"
	"strconv"
)

// PeriodIndex converts a deal-period string of the form "2019年第1四半期" into
// year + quarter/4 (2019.25). The year is the first four characters and the
// quarter digit sits at character index 6. Any other shape yields NaN.
func PeriodIndex(s string) float64 {
	r := []rune(fold(s))
	if len(r) < 7 {
		return math.NaN()
	}
	year, err := strconv.Atoi(string(r[:4]))
	if err != nil {
		return math.NaN()
	}
	q := r[6]
	if q < '0' || q > '9' {
		return math.NaN()
	}
	return float64(year) + float64(q-'0')/4
}
