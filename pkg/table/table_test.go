package table

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"featurepipe/pkg/records"
)

func mustNew(t *testing.T, names []string, cols [][]any) Table {
	t.Helper()
	tb, err := New(names, cols)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tb
}

func TestNew_RejectsRaggedAndDuplicate(t *testing.T) {
	if _, err := New([]string{"a", "b"}, [][]any{{1.0}, {1.0, 2.0}}); err == nil {
		t.Fatal("expected error for ragged columns")
	}
	if _, err := New([]string{"a", "a"}, [][]any{{1.0}, {2.0}}); err == nil {
		t.Fatal("expected error for duplicate names")
	}
	if _, err := New([]string{"a"}, nil); err == nil {
		t.Fatal("expected error for name/column count mismatch")
	}
}

/*
TestWithColumn_ValueSemantics verifies that WithColumn never mutates the
receiver: the original table keeps its columns and values, replaced columns
keep their position and new columns are appended.
*/
func TestWithColumn_ValueSemantics(t *testing.T) {
	orig := mustNew(t, []string{"a", "b"}, [][]any{{1.0, 2.0}, {"x", "y"}})

	replaced, err := orig.WithColumn("a", []any{10.0, 20.0})
	if err != nil {
		t.Fatalf("WithColumn: %v", err)
	}
	added, err := replaced.WithColumn("c", []any{nil, "z"})
	if err != nil {
		t.Fatalf("WithColumn: %v", err)
	}

	if got := orig.Value(0, "a"); got != 1.0 {
		t.Fatalf("orig a[0] = %v, want 1", got)
	}
	if orig.Has("c") || replaced.Has("c") {
		t.Fatal("new column leaked into earlier tables")
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(added.Columns(), want) {
		t.Fatalf("columns = %v, want %v", added.Columns(), want)
	}
	if got := added.Value(1, "a"); got != 20.0 {
		t.Fatalf("added a[1] = %v, want 20", got)
	}
	if added.Len() != 2 {
		t.Fatalf("Len = %d, want 2", added.Len())
	}
}

func TestWithColumn_LengthMismatch(t *testing.T) {
	tb := mustNew(t, []string{"a"}, [][]any{{1.0, 2.0}})
	if _, err := tb.WithColumn("b", []any{1.0}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestColumn_MissingColumnError(t *testing.T) {
	tb := mustNew(t, []string{"a"}, [][]any{{1.0}})
	_, err := tb.Column("nope")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
	var mc *MissingColumnError
	if !errors.As(err, &mc) || mc.Column != "nope" {
		t.Fatalf("err = %#v, want MissingColumnError{nope}", err)
	}
	if err := tb.Require("a", "b"); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("Require err = %v", err)
	}
}

func TestFromRecords_RowRoundTrip(t *testing.T) {
	recs := []records.Record{
		{"city": "Chiyoda", "price": 10.0},
		{"city": "Minato"},
	}
	tb, err := FromRecords([]string{"city", "price"}, recs)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if got := tb.Row(1); got["price"] != nil || got["city"] != "Minato" {
		t.Fatalf("Row(1) = %#v", got)
	}
	if got := tb.Values(0); !reflect.DeepEqual(got, []any{"Chiyoda", 10.0}) {
		t.Fatalf("Values(0) = %#v", got)
	}
	if len(tb.Records()) != 2 {
		t.Fatalf("Records len = %d", len(tb.Records()))
	}
}

func TestMissingAndKind(t *testing.T) {
	if !IsMissing(nil) || !IsMissing(math.NaN()) || IsMissing("") || IsMissing(0.0) {
		t.Fatal("IsMissing classification wrong")
	}
	if _, ok := Float("1"); ok {
		t.Fatal("strings must not be numbers")
	}
	if f, ok := Float(3); !ok || f != 3 {
		t.Fatalf("Float(3) = %v,%v", f, ok)
	}
	if Text(math.NaN()) != "" || Text(2.5) != "2.5" || Text(3.0) != "3" {
		t.Fatal("Text formatting wrong")
	}

	tests := []struct {
		col  []any
		want Kind
	}{
		{[]any{nil, math.NaN()}, KindEmpty},
		{[]any{1.0, nil, 2.0}, KindNumber},
		{[]any{1.0, "a"}, KindText},
	}
	for _, tt := range tests {
		if got := KindOf(tt.col); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.col, got, tt.want)
		}
	}
}

func TestConcat_UnionOfColumns(t *testing.T) {
	a := mustNew(t, []string{"Type", "Area"}, [][]any{{"宅地"}, {100.0}})
	b := mustNew(t, []string{"Area", "Region"}, [][]any{{50.0, 60.0}, {"住宅地", "商業地"}})
	out, err := Concat(a, b)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if got := out.Columns(); len(got) != 3 || got[0] != "Type" || got[1] != "Area" || got[2] != "Region" {
		t.Fatalf("columns = %v", got)
	}
	if out.Len() != 3 {
		t.Fatalf("Len = %d, want 3", out.Len())
	}
	if out.Value(0, "Region") != nil || out.Value(2, "Type") != nil || out.Value(2, "Area") != 60.0 {
		t.Fatalf("rows = %v / %v", out.Row(0), out.Row(2))
	}
}
