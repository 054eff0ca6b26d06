package csv_test

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"

	"featurepipe/internal/config"
	pcsv "featurepipe/internal/parser/csv"
	"featurepipe/pkg/table"
)

const sample = "\uFEFFType,Area,最寄駅：距離（分）,FloorPlan\n" +
	"宅地(土地と建物),100,30分?60分,３ＬＤＫ\n" +
	"林地,2000㎡以上,5,\n" +
	"broken,row\n" +
	"中古マンション等,55,10,1K\n"

func TestParseSample(t *testing.T) {
	p := pcsv.NewParser(pcsv.Options{
		HasHeader:    true,
		InferNumbers: true,
		HeaderMap:    map[string]string{"最寄駅：距離（分）": "TimeToNearestStation"},
	})

	tb, skipped, err := p.Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	want := []string{"Type", "Area", "TimeToNearestStation", "FloorPlan"}
	if got := tb.Columns(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("columns = %q, want %q", got, want)
	}
	if tb.Len() != 3 {
		t.Fatalf("rows = %d, want 3", tb.Len())
	}
	if v := tb.Value(1, "Area"); v != "2000㎡以上" {
		t.Fatalf("Area[1] = %#v; mixed column must stay text", v)
	}
	if v := tb.Value(1, "FloorPlan"); v != nil {
		t.Fatalf("FloorPlan[1] = %#v, want missing", v)
	}
	if v := tb.Value(2, "FloorPlan"); v != "1K" {
		t.Fatalf("FloorPlan[2] = %#v", v)
	}
}

func TestParse_NumericInference(t *testing.T) {
	p := pcsv.NewParser(pcsv.Options{HasHeader: true, InferNumbers: true, Comma: ';', TrimSpace: true})
	tb, _, err := p.Parse(strings.NewReader("TradePrice;Municipality\n 1000 ;千代田区\n2500;\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	col, _ := tb.Column("TradePrice")
	if table.KindOf(col) != table.KindNumber || col[0] != 1000.0 {
		t.Fatalf("TradePrice = %#v", col)
	}
}

func TestParse_ShiftJIS(t *testing.T) {
	raw, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte("種類,面積\n宅地,100\n"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	p := pcsv.NewParser(pcsv.Options{HasHeader: true, Encoding: "shift_jis"})
	tb, _, err := p.Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v := tb.Value(0, "種類"); v != "宅地" {
		t.Fatalf("種類[0] = %#v", v)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, _, err := pcsv.NewParser(pcsv.Options{HasHeader: true}).Parse(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, _, err := pcsv.NewParser(pcsv.Options{Encoding: "klingon"}).Parse(strings.NewReader("a")); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestParse_Headerless(t *testing.T) {
	tb, _, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader("a,b\nc,d\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tb.Len() != 2 || tb.Value(1, "col_1") != "d" {
		t.Fatalf("table = %v rows, col_1[1] = %#v", tb.Len(), tb.Value(1, "col_1"))
	}
}

func TestFromOptions(t *testing.T) {
	o := pcsv.FromOptions(config.Options{
		"comma":      ";",
		"header_map": map[string]any{"種類": "Type"},
		"na_values":  []any{"-"},
		"encoding":   "shift_jis",
	})
	if !o.HasHeader || !o.InferNumbers {
		t.Fatalf("defaults not applied: %+v", o)
	}
	if o.Comma != ';' || o.HeaderMap["種類"] != "Type" || o.NA[0] != "-" || o.Encoding != "shift_jis" {
		t.Fatalf("options = %+v", o)
	}
}
