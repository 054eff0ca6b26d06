package aggregate

import (
	"math"
	"testing"
)

func TestReducers(t *testing.T) {
	x := []float64{1, 2, 3, 4, 10}
	// mean 4, population std sqrt(10)
	tests := []struct {
		name string
		r    Reducer
		in   []float64
		want float64
	}{
		{"beyond1std", Beyond1StdRatio, x, 0.2},
		{"iqr", IQRRatio, x, 2},
		{"iqr zero q25", IQRRatio, []float64{0, 0, 0, 5}, math.NaN()},
		{"mean_var", MeanVar, x, math.Sqrt(10) / 4},
		{"mean_var zero mean", MeanVar, []float64{-1, 1}, math.NaN()},
		{"range_diff", RangeDiff, x, 9},
		{"range_per", RangePer, x, 10},
		{"range_per zero min", RangePer, []float64{0, 3}, math.NaN()},
		{"hl_ratio", HLRatio, x, 1.0 / 3.0},
		{"hl_ratio flat", HLRatio, []float64{2, 2}, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r(tt.in); !sameFloat(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuantileLinear(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	if got := quantile(s, 0.25); !sameFloat(got, 1.75) {
		t.Fatalf("q25 = %v, want 1.75", got)
	}
	if got := median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Fatalf("median = %v, want 2.5", got)
	}
	if !math.IsNaN(quantile(nil, 0.5)) {
		t.Fatal("quantile of empty should be NaN")
	}
}

func TestLibraryNamesResolve(t *testing.T) {
	for name := range Library {
		f, err := ParseFunc(name)
		if err != nil {
			t.Fatalf("ParseFunc(%q): %v", name, err)
		}
		if f.Name() != name {
			t.Fatalf("Name() = %q, want %q", f.Name(), name)
		}
	}
}
