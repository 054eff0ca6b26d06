package ddl

import (
	"strings"

	"featurepipe/pkg/table"
)

// ColumnDef describes a single column in a table definition.
//
// Name is the logical column name; quoting happens at render time.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds the table name in dotted form ("schema.table") and an
// ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Dialect adapts rendering to one SQL backend.
type Dialect struct {
	// Quote quotes one identifier segment.
	Quote func(string) string

	// Types maps a column kind to its SQL type. A column with only missing
	// cells uses the KindText type.
	Types map[table.Kind]string

	// Create is a fmt template receiving the quoted table name and the
	// rendered column list. Defaults to CREATE TABLE IF NOT EXISTS.
	Create string
}

const defaultCreate = "CREATE TABLE IF NOT EXISTS %s (\n  %s\n);"

// DoubleQuote quotes an identifier ANSI style, doubling embedded quotes.
func DoubleQuote(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
