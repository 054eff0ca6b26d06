package aggregate

// Library holds the custom reducers available to configuration by name.
// Spread measures use the population standard deviation.
var Library = map[string]Reducer{
	"beyond1std_ratio": Beyond1StdRatio,
	"iqr_ratio":        IQRRatio,
	"mean_var":         MeanVar,
	"range_diff":       RangeDiff,
	"range_per":        RangePer,
	"hl_ratio":         HLRatio,
}

// Beyond1StdRatio is the share of values more than one standard deviation
// above the mean.
func Beyond1StdRatio(x []float64) float64 {
	cut := mean(x) + stddev(x, 0)
	n := 0
	for _, v := range x {
		if v > cut {
			n++
		}
	}
	return div(float64(n), float64(len(x)))
}

// IQRRatio is the 75th percentile over the 25th.
func IQRRatio(x []float64) float64 {
	s := sorted(x)
	return div(quantile(s, 0.75), quantile(s, 0.25))
}

// MeanVar is the coefficient of variation.
func MeanVar(x []float64) float64 { return div(stddev(x, 0), mean(x)) }

// RangeDiff is max - min.
func RangeDiff(x []float64) float64 { return maxOf(x) - minOf(x) }

// RangePer is max / min.
func RangePer(x []float64) float64 { return div(maxOf(x), minOf(x)) }

// HLRatio is the count of values above the mean over the count below it.
func HLRatio(x []float64) float64 {
	m := mean(x)
	var hi, lo int
	for _, v := range x {
		switch {
		case v > m:
			hi++
		case v < m:
			lo++
		}
	}
	return div(float64(hi), float64(lo))
}
