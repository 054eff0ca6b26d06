package builtin

import (
	"math"
	"testing"
)

func TestEraYearAndPeriod(t *testing.T) {
	in := mustTable(t,
		[]string{"BuildingYear", "Period"},
		[][]any{
			{"平成9年", "戦前", nil, 1980.0, "不明"},
			{"2019年第1四半期", "2018年第4四半期", "2019年第3四半期", nil, "x"},
		})
	out, err := EraYear{Column: "BuildingYear"}.Apply(in)
	if err != nil {
		t.Fatalf("EraYear: %v", err)
	}
	out, err = Period{Column: "Period"}.Apply(out)
	if err != nil {
		t.Fatalf("Period: %v", err)
	}
	out, err = Elapsed{Period: "Period", Built: "BuildingYear", Output: "ElapsedYear"}.Apply(out)
	if err != nil {
		t.Fatalf("Elapsed: %v", err)
	}
	nan := math.NaN()
	assertColumn(t, out, "BuildingYear", []any{1997.0, 1945.0, nan, 1980.0, nan})
	assertColumn(t, out, "Period", []any{2019.25, 2019.0, 2019.75, nan, nan})
	assertColumn(t, out, "ElapsedYear", []any{22.25, 74.0, nan, nan, nan})
	if got := in.Value(0, "BuildingYear"); got != "平成9年" {
		t.Fatalf("input mutated: %#v", got)
	}
}

func TestEraYear_OutputColumn(t *testing.T) {
	in := mustTable(t, []string{"y"}, [][]any{{"昭和45年"}})
	out, err := EraYear{Column: "y", Output: "year"}.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	assertColumn(t, out, "y", []any{"昭和45年"})
	assertColumn(t, out, "year", []any{1970.0})
}
