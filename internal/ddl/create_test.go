package ddl

import (
	"strings"
	"testing"

	"featurepipe/pkg/table"
)

var testDialect = Dialect{
	Types: map[table.Kind]string{table.KindNumber: "REAL", table.KindText: "TEXT"},
}

// TestBuildCreateTableSQL verifies rendering and the error cases with
// table-driven subtests.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		def         TableDef
		d           Dialect
		wantSQL     string
		errContains string
	}{
		{
			name:        "empty FQN returns error",
			def:         TableDef{Columns: []ColumnDef{{Name: "id", SQLType: "INT"}}},
			errContains: "table FQN must not be empty",
		},
		{
			name:        "no columns returns error",
			def:         TableDef{FQN: "public.t"},
			errContains: "at least one column is required",
		},
		{
			name:        "column with empty name returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{SQLType: "INT"}}},
			errContains: "column with empty name",
		},
		{
			name:        "column with empty type returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id"}}},
			errContains: "column id missing SQLType",
		},
		{
			name: "default template quotes every segment",
			def: TableDef{FQN: "public.features", Columns: []ColumnDef{
				{Name: "Area", SQLType: "REAL", Nullable: true},
				{Name: `odd"name`, SQLType: "TEXT"},
			}},
			wantSQL: "CREATE TABLE IF NOT EXISTS \"public\".\"features\" (\n  \"Area\" REAL,\n  \"odd\"\"name\" TEXT NOT NULL\n);",
		},
		{
			name: "custom template and quoting",
			def:  TableDef{FQN: "dbo.f", Columns: []ColumnDef{{Name: "x", SQLType: "FLOAT", Nullable: true}}},
			d: Dialect{
				Quote:  func(s string) string { return "[" + s + "]" },
				Create: "IF OBJECT_ID(N'%[1]s', N'U') IS NULL CREATE TABLE %[1]s (%[2]s);",
			},
			wantSQL: "IF OBJECT_ID(N'[dbo].[f]', N'U') IS NULL CREATE TABLE [dbo].[f] ([x] FLOAT);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildCreateTableSQL(tt.def, tt.d)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("err = %v, want containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantSQL {
				t.Fatalf("SQL mismatch\n got: %q\nwant: %q", got, tt.wantSQL)
			}
		})
	}
}

/*
TestFromTable checks type inference: numeric columns map to the number type,
text or all-missing columns to the text type, and an unknown column is a
missing-column error.
*/
func TestFromTable(t *testing.T) {
	tb, err := table.New(
		[]string{"Area", "Type", "Empty"},
		[][]any{{1.0, nil}, {"宅地", "林地"}, {nil, nil}},
	)
	if err != nil {
		t.Fatal(err)
	}

	def, err := FromTable("features", tb, nil, testDialect)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	want := []string{"REAL", "TEXT", "TEXT"}
	for i, c := range def.Columns {
		if c.SQLType != want[i] || !c.Nullable {
			t.Fatalf("column %d = %+v, want %s nullable", i, c, want[i])
		}
	}

	def, err = FromTable("features", tb, []string{"Type"}, testDialect)
	if err != nil || len(def.Columns) != 1 || def.Columns[0].Name != "Type" {
		t.Fatalf("subset = %+v, %v", def, err)
	}

	if _, err := FromTable("features", tb, []string{"Price"}, testDialect); err == nil || !strings.Contains(err.Error(), "Price") {
		t.Fatalf("missing column err = %v", err)
	}
}
