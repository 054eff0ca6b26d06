package pipeline

import (
	"errors"
	"math"
	"strings"
	"testing"

	"featurepipe/internal/aggregate"
	"featurepipe/internal/config"
	"featurepipe/internal/metrics"
	"featurepipe/pkg/table"
)

func TestFromConfig_EmptyMeansDefault(t *testing.T) {
	p, err := FromConfig("j", nil)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if got, want := len(p.Steps()), len(Default(DefaultColumns())); got != want {
		t.Fatalf("steps = %d, want %d", got, want)
	}
	if p.Job() != "j" {
		t.Fatalf("Job = %q", p.Job())
	}
}

func TestFromConfig_Declared(t *testing.T) {
	ts := []config.Transform{
		{Kind: "narrow", Options: config.Options{"columns": []any{"FloorPlan"}}},
		{Kind: "floor_plan", Name: "rooms", Options: config.Options{"column": "FloorPlan"}},
	}
	p, err := FromConfig("j", ts)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	steps := p.Steps()
	if steps[0].Name != "narrow" || steps[1].Name != "rooms" {
		t.Fatalf("names = %q, %q", steps[0].Name, steps[1].Name)
	}
	in := mustTable(t, []string{"FloorPlan"}, [][]any{{"２ＬＤＫ＋Ｓ"}})
	out, err := p.Run(in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertColumn(t, out, RoomCount, 2.0)
	assertColumn(t, out, "S", 1.0)
}

func TestFromConfig_Errors(t *testing.T) {
	_, err := FromConfig("j", []config.Transform{{Kind: "narrow"}, {Kind: "bogus"}})
	if err == nil || !strings.Contains(err.Error(), "transform[0]") {
		t.Fatalf("err = %v, want transform[0] options error", err)
	}
	_, err = FromConfig("j", []config.Transform{{Kind: "bogus"}})
	if err == nil || !strings.Contains(err.Error(), `unknown transform kind "bogus"`) {
		t.Fatalf("err = %v", err)
	}
}

/*
TestAugment_ChainsSpecs applies two aggregations and checks that the second
can group by a column and see the first one's output, and that names follow
agg_{fn}_{col}_by_{key}.
*/
func TestAugment_ChainsSpecs(t *testing.T) {
	rec := useRecorder(t)
	in := mustTable(t,
		[]string{"Municipality", "Type", "TradePrice"},
		[][]any{
			{"千代田区", "千代田区", "港区", nil},
			{"宅地", "林地", "宅地", "宅地"},
			{100.0, 300.0, 50.0, 70.0},
		},
	)
	specs, err := Specs([]config.Aggregation{
		{Key: "Municipality", Values: []string{"TradePrice"}, Funcs: []string{"mean", "hl_ratio"}},
		{Key: "Type", Values: []string{"agg_mean_TradePrice_by_Municipality"}, Funcs: []string{"max"}},
	})
	if err != nil {
		t.Fatalf("Specs: %v", err)
	}
	out, err := Augment("j", in, specs, aggregate.Options{Workers: 2})
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}
	assertColumn(t, out, "agg_mean_TradePrice_by_Municipality", 200.0, 200.0, 50.0, math.NaN())
	assertColumn(t, out, "agg_max_agg_mean_TradePrice_by_Municipality_by_Type", 200.0, 200.0, 200.0, 200.0)
	if got := rec.counters[metrics.AggregateColumn]; got != 3 {
		t.Fatalf("aggregate columns counted = %v, want 3", got)
	}
}

func TestAugment_FailureReturnsInput(t *testing.T) {
	in := mustTable(t, []string{"k", "v"}, [][]any{{"a"}, {1.0}})
	specs, err := Specs([]config.Aggregation{
		{Key: "k", Values: []string{"v"}, Funcs: []string{"mean"}},
		{Key: "k", Values: []string{"nope"}, Funcs: []string{"mean"}},
	})
	if err != nil {
		t.Fatalf("Specs: %v", err)
	}
	out, err := Augment("j", in, specs, aggregate.Options{})
	if !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
	if out.Width() != 2 {
		t.Fatalf("width = %d, want untouched input", out.Width())
	}
}

func TestSpecs_UnknownFunc(t *testing.T) {
	_, err := Specs([]config.Aggregation{{Key: "k", Values: []string{"v"}, Funcs: []string{"mean", "harmonic"}}})
	if err == nil || !strings.Contains(err.Error(), "aggregate[0]") {
		t.Fatalf("err = %v", err)
	}
}
