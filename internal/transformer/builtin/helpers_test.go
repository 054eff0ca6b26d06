package builtin

import (
	"math"
	"testing"

	"featurepipe/pkg/table"
)

func mustTable(t *testing.T, names []string, cols [][]any) table.Table {
	t.Helper()
	tb, err := table.New(names, cols)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tb
}

func column(t *testing.T, tb table.Table, name string) []any {
	t.Helper()
	c, err := tb.Column(name)
	if err != nil {
		t.Fatalf("Column(%s): %v", name, err)
	}
	return c
}

func sameCell(a, b any) bool {
	fa, okA := a.(float64)
	fb, okB := b.(float64)
	if okA && okB {
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return math.IsNaN(fa) && math.IsNaN(fb)
		}
		return math.Abs(fa-fb) < 1e-9
	}
	return a == b
}

func assertColumn(t *testing.T, tb table.Table, name string, want []any) {
	t.Helper()
	got := column(t, tb, name)
	if len(got) != len(want) {
		t.Fatalf("%s: %d rows, want %d", name, len(got), len(want))
	}
	for i := range want {
		if !sameCell(got[i], want[i]) {
			t.Errorf("%s[%d] = %#v, want %#v", name, i, got[i], want[i])
		}
	}
}
