// Package storage holds the backend-agnostic sink contract for the augmented
// feature table, a factory registry that concrete backends join at init time
// and a batched loader.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config is the backend-neutral sink configuration. Database backends use
// DSN and Table; the csv backend uses Path and Comma.
type Config struct {
	Kind    string
	DSN     string
	Table   string
	Columns []string
	Path    string
	Comma   rune
}

// Repository is the minimal write surface every backend provides.
type Repository interface {
	// CopyFrom inserts rows aligned to columns and reports how many landed.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Exec runs a statement, typically DDL. Backends without SQL ignore it.
	Exec(ctx context.Context, sql string) error
	Close()
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted. The slice is a copy.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
