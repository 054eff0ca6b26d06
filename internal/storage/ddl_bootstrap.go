package storage

import (
	"context"
	"fmt"
	"sync"

	"featurepipe/internal/ddl"
	"featurepipe/pkg/table"
)

var (
	ddlMu    sync.RWMutex
	dialects = map[string]ddl.Dialect{}
)

// RegisterDialect registers the DDL dialect for a storage kind. Backends call
// it from init; kinds without a dialect (csv) skip table creation.
func RegisterDialect(kind string, d ddl.Dialect) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	dialects[kind] = d
}

// EnsureTable creates the destination table from the column kinds of t when
// it does not exist yet. It is a no-op for kinds without a registered dialect.
func EnsureTable(ctx context.Context, kind string, repo Repository, fqn string, t table.Table, columns []string) error {
	ddlMu.RLock()
	d, ok := dialects[kind]
	ddlMu.RUnlock()
	if !ok {
		return nil
	}
	def, err := ddl.FromTable(fqn, t, columns, d)
	if err != nil {
		return fmt.Errorf("infer table definition: %w", err)
	}
	stmt, err := ddl.BuildCreateTableSQL(def, d)
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("apply DDL: %w", err)
	}
	return nil
}
