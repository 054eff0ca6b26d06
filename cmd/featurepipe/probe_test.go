package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"featurepipe/internal/config"
)

/*
TestProbeFile probes a full export: every default-chain column is present,
so the draft leaves transform empty, and the draft must pass the linter.
*/
func TestProbeFile(t *testing.T) {
	dir := t.TempDir()
	path := makeTempCSV(t, dir, "13_Tokyo.csv", tradeHeader, tradeRows)

	var buf bytes.Buffer
	if err := probeFile(context.Background(), &buf, path, "sqlite"); err != nil {
		t.Fatalf("probeFile: %v", err)
	}
	var res struct {
		Rows    int `json:"rows"`
		Columns []struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		} `json:"columns"`
		Config config.Pipeline `json:"config"`
	}
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if res.Rows != 3 || len(res.Columns) != len(tradeHeader) {
		t.Fatalf("rows=%d columns=%d", res.Rows, len(res.Columns))
	}
	if len(res.Config.Transform) != 0 {
		t.Fatalf("transform = %+v, want default chain", res.Config.Transform)
	}
	if res.Config.Source.File.Path != path || res.Config.Job != "13_tokyo" {
		t.Fatalf("draft = %+v", res.Config)
	}
	if issues := config.ValidatePipeline(res.Config); config.HasErrors(issues) {
		t.Fatalf("draft invalid: %+v", issues)
	}
}

func TestProbeFile_Missing(t *testing.T) {
	var buf bytes.Buffer
	if err := probeFile(context.Background(), &buf, filepath.Join(t.TempDir(), "nope.csv"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}
