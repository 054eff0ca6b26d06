// Package all wires every built-in storage backend into the storage factory.
//
// Importing it for side effects runs each backend's init, which registers its
// factory and, for SQL backends, its DDL dialect:
//
//   - "sqlite"   (featurepipe/internal/storage/sqlite)
//   - "postgres" (featurepipe/internal/storage/postgres)
//   - "mssql"    (featurepipe/internal/storage/mssql)
//   - "mysql"    (featurepipe/internal/storage/mysql)
//   - "csv"      (featurepipe/internal/storage/csvfile)
//
// A binary that needs only a subset can import those packages directly.
package all

import (
	_ "featurepipe/internal/storage/csvfile"
	_ "featurepipe/internal/storage/mssql"
	_ "featurepipe/internal/storage/mysql"
	_ "featurepipe/internal/storage/postgres"
	_ "featurepipe/internal/storage/sqlite"
)
