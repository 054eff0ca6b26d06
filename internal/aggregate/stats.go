package aggregate

import (
	"math"
	"sort"
)

func sum(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return sum(x) / float64(len(x))
}

// variance with ddof delta degrees of freedom; NaN when len(x) <= ddof.
func variance(x []float64, ddof int) float64 {
	n := len(x) - ddof
	if n <= 0 {
		return math.NaN()
	}
	m := mean(x)
	var ss float64
	for _, v := range x {
		d := v - m
		ss += d * d
	}
	return ss / float64(n)
}

func stddev(x []float64, ddof int) float64 { return math.Sqrt(variance(x, ddof)) }

func minOf(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	m := x[0]
	for _, v := range x[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	m := x[0]
	for _, v := range x[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func sorted(x []float64) []float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	return s
}

// quantile uses linear interpolation between closest ranks, the numpy
// default. s must be sorted.
func quantile(s []float64, q float64) float64 {
	if len(s) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s[lo]
	}
	return s[lo] + (s[hi]-s[lo])*(pos-float64(lo))
}

func median(x []float64) float64 { return quantile(sorted(x), 0.5) }

// div returns NaN instead of an infinity for a zero denominator.
func div(n, d float64) float64 {
	if d == 0 || math.IsNaN(d) {
		return math.NaN()
	}
	return n / d
}
