package probe

import (
	"encoding/json"
	"testing"

	"featurepipe/internal/config"
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

/*
TestProbe_ProfileAndSuggestions checks the per-column profile and that era
years, periods and bucketed walk times are recognized while free text and
plain numbers are left alone.
*/
func TestProbe_ProfileAndSuggestions(t *testing.T) {
	tb := mustTable(t,
		[]string{"BuildingYear", "Period", "TimeToNearestStation", "Type", "Count", "Price"},
		[][]any{
			{"平成10年", "戦前", nil, "平成10年"},
			{"2019年第1四半期", "2019年第2四半期", "2018年第4四半期", "2019年第1四半期"},
			{"30分?60分", "5", "2H?", "10"},
			{"宅地", "林地", "宅地", "農地"},
			{"1", "2", "3", "4"},
			{100.0, 200.0, 300.0, nil},
		},
	)
	res := Probe(tb, Options{Path: "data/13_Tokyo.csv", Parser: config.Parser{Kind: "csv"}})

	if res.Rows != 4 || len(res.Columns) != 6 {
		t.Fatalf("rows=%d columns=%d", res.Rows, len(res.Columns))
	}
	by := res.Columns[0]
	if by.Missing != 1 || by.Distinct != 2 || by.Kind != "text" || len(by.Examples) != 2 {
		t.Fatalf("BuildingYear report = %+v", by)
	}
	if price := res.Columns[5]; price.Kind != "number" || price.Missing != 1 {
		t.Fatalf("Price report = %+v", price)
	}

	got := map[string]string{}
	for _, tr := range res.Config.Transform {
		got[tr.Options.String("column", "")] = tr.Kind + "/" + tr.Options.String("decoder", "")
	}
	want := map[string]string{
		"BuildingYear":         "era_year/",
		"Period":               "period/",
		"TimeToNearestStation": "decode/walk_time",
	}
	if len(got) != len(want) {
		t.Fatalf("suggestions = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("suggestion for %s = %q, want %q", k, got[k], v)
		}
	}

	if res.Config.Job != "13_tokyo" || res.Config.Storage.DB.DSN != "13_tokyo.db" {
		t.Fatalf("draft job/storage = %q / %+v", res.Config.Job, res.Config.Storage)
	}
	if issues := config.ValidatePipeline(res.Config); config.HasErrors(issues) {
		t.Fatalf("draft config invalid: %+v", issues)
	}
}

func TestProbe_DefaultChainWhenColumnsPresent(t *testing.T) {
	tb := mustTable(t, []string{"BuildingYear", "Area"}, [][]any{{"平成10年"}, {"2000㎡以上"}})
	res := Probe(tb, Options{Path: "x.csv", Required: []string{"BuildingYear", "Area"}, Backend: "csv"})
	if res.Config.Transform != nil {
		t.Fatalf("transform = %+v, want nil (default chain)", res.Config.Transform)
	}
	if res.Config.Storage.Kind != "csv" || res.Config.Storage.CSV.Path != "x_features.csv" {
		t.Fatalf("storage = %+v", res.Config.Storage)
	}
}

func TestResultJSON(t *testing.T) {
	tb := mustTable(t, []string{"A"}, [][]any{{"x"}})
	b, err := Probe(tb, Options{Path: "a.csv", Job: "j"}).JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var back struct {
		Rows   int `json:"rows"`
		Config struct {
			Job string `json:"job"`
		} `json:"config"`
	}
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Rows != 1 || back.Config.Job != "j" || b[len(b)-1] != '\n' {
		t.Fatalf("round trip = %+v", back)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"13_Tokyo_20053_20194": "13_tokyo_20053_20194",
		"Café Prices":          "cafe_prices",
		"取引価格":                 "col",
		"  --Area--  ":         "area",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
