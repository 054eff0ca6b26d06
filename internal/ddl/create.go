// Package ddl renders CREATE TABLE statements for the augmented feature table.
//
// Column types are inferred from the table itself: a column whose cells are
// all numbers (or missing) gets the dialect's number type, anything else its
// text type. Backends supply a Dialect with their quoting and type names.
package ddl

import (
	"fmt"
	"strings"

	"featurepipe/pkg/table"
)

// FromTable derives a TableDef for the given columns of t. Every column is
// nullable since any cell may be missing. An empty columns list means all
// columns of t.
func FromTable(fqn string, t table.Table, columns []string, d Dialect) (TableDef, error) {
	if len(columns) == 0 {
		columns = t.Columns()
	}
	defs := make([]ColumnDef, 0, len(columns))
	for _, name := range columns {
		col, err := t.Column(name)
		if err != nil {
			return TableDef{}, fmt.Errorf("ddl: %w", err)
		}
		defs = append(defs, ColumnDef{Name: name, SQLType: d.typeOf(table.KindOf(col)), Nullable: true})
	}
	return TableDef{FQN: fqn, Columns: defs}, nil
}

func (d Dialect) typeOf(k table.Kind) string {
	if k == table.KindEmpty {
		k = table.KindText
	}
	return d.Types[k]
}

func (d Dialect) quote(id string) string {
	if d.Quote == nil {
		return DoubleQuote(id)
	}
	return d.Quote(id)
}

// QuoteFQN quotes each dotted segment of a table name.
func (d Dialect) QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	for i, p := range parts {
		parts[i] = d.quote(p)
	}
	return strings.Join(parts, ".")
}

// BuildCreateTableSQL renders t for dialect d. A column is rendered as
//
//	<quoted name> <SQLType> [NOT NULL]
func BuildCreateTableSQL(t TableDef, d Dialect) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}
		def := d.quote(name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}

	tmpl := d.Create
	if tmpl == "" {
		tmpl = defaultCreate
	}
	return fmt.Sprintf(tmpl, d.QuoteFQN(fqn), strings.Join(cols, ",\n  ")), nil
}
