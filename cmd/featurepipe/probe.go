package main

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"featurepipe/internal/config"
	"featurepipe/internal/datasource/file"
	"featurepipe/internal/pipeline"
	"featurepipe/internal/probe"
)

// probeFile parses path with default options for its extension and writes
// the profile and draft config to w.
func probeFile(ctx context.Context, w io.Writer, path, backend string) error {
	pc := config.Parser{Kind: "csv", Options: config.Options{}}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		pc.Kind = "xlsx"
	}
	prs, err := newParser(pc)
	if err != nil {
		return err
	}
	rc, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()
	t, _, err := prs.Parse(rc)
	if err != nil {
		return err
	}

	res := probe.Probe(t, probe.Options{
		Path:     path,
		Parser:   pc,
		Backend:  backend,
		Required: requiredColumns(pipeline.DefaultColumns()),
	})
	b, err := res.JSON()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// requiredColumns lists the raw columns the default chain reads.
func requiredColumns(c pipeline.Columns) []string {
	return []string{
		c.FloorPlan, c.BuildingYear, c.TimeToNearestStation, c.TotalFloorArea,
		c.Area, c.Type, c.Frontage, c.Breadth, c.Period,
	}
}
