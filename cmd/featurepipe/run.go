package main

import (
	"context"
	"fmt"

	"featurepipe/internal/aggregate"
	"featurepipe/internal/config"
	"featurepipe/internal/datasource/file"
	"featurepipe/internal/logging"
	"featurepipe/internal/metrics"
	"featurepipe/internal/parser"
	pcsv "featurepipe/internal/parser/csv"
	"featurepipe/internal/parser/xlsx"
	"featurepipe/internal/pipeline"
	"featurepipe/internal/storage"
	"featurepipe/pkg/table"
)

// summary reports what one run did.
type summary struct {
	Read    int
	Skipped int
	Columns int
	Written int64
}

// run executes one pass of the pipeline described by p. Transforms and
// aggregations are resolved before any input is read.
func run(ctx context.Context, p config.Pipeline) (summary, error) {
	var sum summary

	pl, err := pipeline.FromConfig(p.Job, p.Transform)
	if err != nil {
		return sum, err
	}
	specs, err := pipeline.Specs(p.Aggregate)
	if err != nil {
		return sum, err
	}

	in, skipped, err := readTable(ctx, p)
	if err != nil {
		return sum, err
	}
	sum.Read, sum.Skipped = in.Len(), skipped

	out, err := pl.Run(in)
	if err != nil {
		return sum, err
	}
	out, err = pipeline.Augment(p.Job, out, specs, aggregate.Options{Workers: p.Runtime.AggregateWorkers})
	if err != nil {
		return sum, err
	}
	sum.Columns = out.Width()

	sum.Written, err = write(ctx, p, out)
	return sum, err
}

// newParser builds the parser selected by cfg.Kind.
func newParser(cfg config.Parser) (parser.Parser, error) {
	switch cfg.Kind {
	case "csv":
		return pcsv.NewParser(pcsv.FromOptions(cfg.Options)), nil
	case "xlsx":
		return xlsx.NewParser(xlsx.FromOptions(cfg.Options)), nil
	}
	return nil, fmt.Errorf("unsupported parser.kind=%s", cfg.Kind)
}

// readTable parses every configured input and stacks the results.
func readTable(ctx context.Context, p config.Pipeline) (table.Table, int, error) {
	if p.Source.Kind != "file" {
		return table.Table{}, 0, fmt.Errorf("unsupported source.kind=%s", p.Source.Kind)
	}
	srcs, err := file.Sources(p.Source.File)
	if err != nil {
		return table.Table{}, 0, err
	}
	prs, err := newParser(p.Parser)
	if err != nil {
		return table.Table{}, 0, err
	}

	log := logging.L()
	parts := make([]table.Table, 0, len(srcs))
	skipped := 0
	for _, src := range srcs {
		rc, err := src.Open(ctx)
		if err != nil {
			return table.Table{}, 0, err
		}
		t, n, err := prs.Parse(rc)
		_ = rc.Close()
		if err != nil {
			return table.Table{}, 0, fmt.Errorf("parse %s: %w", src.Name(), err)
		}
		metrics.RecordRow(p.Job, "read", int64(t.Len()))
		metrics.RecordRow(p.Job, "skipped", int64(n))
		log.Info("input parsed", "source", src.Name(), "rows", t.Len(), "columns", t.Width(), "skipped", n)
		parts = append(parts, t)
		skipped += n
	}
	if len(parts) == 1 {
		return parts[0], skipped, nil
	}
	t, err := table.Concat(parts...)
	return t, skipped, err
}

// storageConfig maps the pipeline's storage section to a storage.Config.
func storageConfig(s config.Storage) (storage.Config, []string) {
	if s.Kind == "csv" {
		var comma rune
		if r := []rune(s.CSV.Comma); len(r) > 0 {
			comma = r[0]
		}
		return storage.Config{Kind: s.Kind, Path: s.CSV.Path, Comma: comma, Columns: s.CSV.Columns}, s.CSV.Columns
	}
	return storage.Config{Kind: s.Kind, DSN: s.DB.DSN, Table: s.DB.Table, Columns: s.DB.Columns}, s.DB.Columns
}

// write stores the augmented table, creating the destination first when
// auto_create_table is set.
func write(ctx context.Context, p config.Pipeline, t table.Table) (int64, error) {
	cfg, columns := storageConfig(p.Storage)
	repo, err := storage.New(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	if p.Storage.DB.AutoCreateTable {
		if err := storage.EnsureTable(ctx, cfg.Kind, repo, cfg.Table, t, columns); err != nil {
			return 0, err
		}
	}
	return storage.WriteTable(ctx, repo, t, storage.WriteOptions{
		Job:       p.Job,
		Columns:   columns,
		BatchSize: p.Runtime.BatchSize,
	})
}
