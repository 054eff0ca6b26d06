package transformer

import (
	"errors"
	"testing"

	"featurepipe/pkg/table"
)

func mustTable(t *testing.T, names []string, cols [][]any) table.Table {
	t.Helper()
	tb, err := table.New(names, cols)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tb
}

/*
setColumn writes a constant column. It declares its reads and writes so it
can take part in Chain.Check.
*/
type setColumn struct {
	read  []string
	write string
	val   any
}

func (s setColumn) Reads() []string  { return s.read }
func (s setColumn) Writes() []string { return []string{s.write} }

func (s setColumn) Apply(t table.Table) (table.Table, error) {
	if err := t.Require(s.read...); err != nil {
		return t, err
	}
	col := make([]any, t.Len())
	for i := range col {
		col[i] = s.val
	}
	return t.WithColumn(s.write, col)
}

/*
TestChain_AppliesInOrder verifies that each transformer sees the previous
output and that the input table is never modified.
*/
func TestChain_AppliesInOrder(t *testing.T) {
	in := mustTable(t, []string{"a"}, [][]any{{1.0, 2.0}})
	var seen []int
	probe := func(n int) Transformer {
		return Func(func(t table.Table) (table.Table, error) {
			seen = append(seen, n)
			return t, nil
		})
	}
	c := Chain{
		probe(1),
		setColumn{write: "b", val: "x"},
		probe(2),
		setColumn{read: []string{"b"}, write: "a", val: 0.0},
	}
	out, err := c.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("call order = %v", seen)
	}
	if out.Value(1, "a") != 0.0 || out.Value(0, "b") != "x" {
		t.Fatalf("out row = %#v", out.Row(1))
	}
	if in.Value(1, "a") != 2.0 || in.Has("b") {
		t.Fatal("input mutated")
	}
}

/*
TestChain_ErrorReturnsInput verifies that a failing step aborts the chain,
wraps its error with the step index and hands back the untouched input.
*/
func TestChain_ErrorReturnsInput(t *testing.T) {
	in := mustTable(t, []string{"a"}, [][]any{{1.0}})
	c := Chain{
		setColumn{write: "b", val: 1.0},
		setColumn{read: []string{"missing"}, write: "c"},
	}
	out, err := c.Apply(in)
	if !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
	if out.Has("b") {
		t.Fatal("partial result returned")
	}
}

func TestChain_RowCountGuard(t *testing.T) {
	in := mustTable(t, []string{"a"}, [][]any{{1.0, 2.0}})
	drop := Func(func(t table.Table) (table.Table, error) {
		return table.New([]string{"a"}, [][]any{{1.0}})
	})
	if _, err := (Chain{drop}).Apply(in); !errors.Is(err, ErrRowCount) {
		t.Fatalf("err = %v, want ErrRowCount", err)
	}
}

func TestChain_Check(t *testing.T) {
	tests := []struct {
		name    string
		chain   Chain
		wantErr error
	}{
		{
			name: "ordered",
			chain: Chain{
				setColumn{read: []string{"a"}, write: "b"},
				setColumn{read: []string{"b"}, write: "c"},
			},
		},
		{
			name: "in place rewrite",
			chain: Chain{
				setColumn{read: []string{"a"}, write: "a"},
			},
		},
		{
			name: "read before write",
			chain: Chain{
				setColumn{read: []string{"b"}, write: "c"},
				setColumn{read: []string{"a"}, write: "b"},
			},
			wantErr: ErrOrder,
		},
		{
			name: "never written",
			chain: Chain{
				setColumn{read: []string{"zz"}, write: "c"},
			},
			wantErr: table.ErrMissingColumn,
		},
		{
			name: "undeclared step hides columns",
			chain: Chain{
				Func(func(t table.Table) (table.Table, error) { return t, nil }),
				setColumn{read: []string{"zz"}, write: "c"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chain.Check([]string{"a"})
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Check: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
