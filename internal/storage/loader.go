// This file implements a generic, batched loader that drains rows from a
// channel and invokes a bulk-insert function (CopyFn) per batch, plus
// WriteTable which feeds it from a table.
package storage

import (
	"context"
	"fmt"
	"time"

	"featurepipe/internal/logging"
	"featurepipe/internal/metrics"
	"featurepipe/pkg/table"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the rows (aligned to columns) and return the number inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains rows from in, groups them into batches of batchSize and
// calls copyFn for each non-empty batch. It returns the total reported by
// copyFn and the first error encountered.
//
// Cancellation: returns (total, ctx.Err()) when canceled. Progress is logged
// at debug level on each successful flush.
func LoadBatches(
	ctx context.Context,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total     int64
		batches   int64
		batch     = make([][]any, 0, batchSize)
		start     = time.Now()
		lastFlush = start
	)
	log := logging.L()

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n
		// copyFn must not retain rows; the backing array is reused.
		batch = make([][]any, 0, batchSize)
		if err != nil {
			log.Error("loader: copy failed", "inserted", n, "total", total, "err", err)
			return err
		}

		batches++
		now := time.Now()
		rps := float64(0)
		if d := now.Sub(lastFlush); d > 0 {
			rps = float64(n) / d.Seconds()
		}
		log.Debug("loader: batch flushed",
			"batch", batches,
			"inserted", n,
			"total", total,
			"rps", int64(rps),
			"elapsed", now.Sub(start).Truncate(time.Millisecond),
		)
		lastFlush = now
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case row, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, err
				}
				log.Debug("loader: input closed", "total", total, "batches", batches)
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}

// WriteOptions controls WriteTable.
type WriteOptions struct {
	// Job labels metrics.
	Job string
	// Columns selects and orders the written columns. Empty writes all.
	Columns []string
	// BatchSize is the number of rows per CopyFrom call. Zero writes one batch.
	BatchSize int
}

// WriteTable streams the rows of t into repo in batches. Missing cells,
// including NaN, are written as NULL.
func WriteTable(ctx context.Context, repo Repository, t table.Table, opts WriteOptions) (int64, error) {
	columns := opts.Columns
	if len(columns) == 0 {
		columns = t.Columns()
	}
	cols := make([][]any, len(columns))
	for j, name := range columns {
		c, err := t.Column(name)
		if err != nil {
			return 0, err
		}
		cols[j] = c
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = max(t.Len(), 1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rows := make(chan []any, batchSize)
	go func() {
		defer close(rows)
		for i := 0; i < t.Len(); i++ {
			row := make([]any, len(cols))
			for j := range cols {
				row[j] = cellValue(cols[j][i])
			}
			select {
			case rows <- row:
			case <-ctx.Done():
				return
			}
		}
	}()

	copyFn := func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
		n, err := repo.CopyFrom(ctx, columns, batch)
		if err == nil {
			metrics.RecordBatches(opts.Job, 1)
		}
		metrics.RecordRow(opts.Job, "written", n)
		return n, err
	}
	return LoadBatches(ctx, columns, rows, batchSize, copyFn)
}

// cellValue converts a table cell to a driver value.
func cellValue(v any) any {
	if table.IsMissing(v) {
		return nil
	}
	return v
}
