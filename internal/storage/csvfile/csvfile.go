// Package csvfile implements a storage backend that writes the feature table
// to a delimited text file with encoding/csv.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"featurepipe/internal/storage"
)

// Config holds csv sink configuration.
type Config struct {
	Path  string
	Comma rune // defaults to ','
}

// Repository appends batches to one csv file. The header row is written on
// the first CopyFrom.
type Repository struct {
	mu      sync.Mutex
	f       *os.File
	w       *csv.Writer
	columns []string
}

// NewRepository creates (truncating) the file at cfg.Path.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("csvfile: Path is required")
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: %w", err)
	}
	w := csv.NewWriter(f)
	if cfg.Comma != 0 {
		w.Comma = cfg.Comma
	}
	return &Repository{f: f, w: w}, nil
}

// CopyFrom writes rows and flushes. Every call must use the same columns.
func (r *Repository) CopyFrom(_ context.Context, columns []string, rows [][]any) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.columns == nil {
		r.columns = append([]string(nil), columns...)
		if err := r.w.Write(r.columns); err != nil {
			return 0, fmt.Errorf("csvfile: header: %w", err)
		}
	} else if len(columns) != len(r.columns) {
		return 0, fmt.Errorf("csvfile: got %d columns, header has %d", len(columns), len(r.columns))
	}

	rec := make([]string, len(columns))
	var n int64
	for i, row := range rows {
		if len(row) != len(columns) {
			return n, fmt.Errorf("csvfile: row %d has %d values, want %d", i, len(row), len(columns))
		}
		for j, v := range row {
			rec[j] = format(v)
		}
		if err := r.w.Write(rec); err != nil {
			return n, fmt.Errorf("csvfile: %w", err)
		}
		n++
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return 0, fmt.Errorf("csvfile: flush: %w", err)
	}
	return n, nil
}

// Exec is a no-op; there is no DDL for a flat file.
func (r *Repository) Exec(context.Context, string) error { return nil }

// Close flushes and closes the file.
func (r *Repository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w.Flush()
	_ = r.f.Close()
}

// format renders nil as an empty field and floats in their shortest form.
func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func init() {
	storage.Register("csv", func(_ context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(Config{Path: cfg.Path, Comma: cfg.Comma})
	})
}
