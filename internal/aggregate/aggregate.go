// Package aggregate appends per-group statistics to a table.
//
// For every (function, value column) pair, Aggregate computes the statistic
// of the value column within each group of the key column and broadcasts it
// back to every row of that group as agg_{fn}_{col}_by_{key}. Rows keep their
// count and order; rows with a missing key receive NaN.
//
// Functions are resolved before any work starts, so an invalid request never
// produces a partially augmented table.
package aggregate

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"featurepipe/pkg/table"
)

// Options tunes evaluation. The result never depends on them.
type Options struct {
	// Workers bounds concurrent pair computations. Zero means GOMAXPROCS.
	Workers int
}

// Spec is one aggregation request.
type Spec struct {
	Key    string
	Values []string
	Funcs  []Func
}

// ColumnName is the output column for fn over col grouped by key.
func ColumnName(fn Func, col, key string) string {
	return fmt.Sprintf("agg_%s_%s_by_%s", fn.Name(), col, key)
}

// Aggregate evaluates funcs over values grouped by key with default Options.
// It returns the augmented table and the new column names, functions in the
// outer loop and value columns in the inner loop.
func Aggregate(t table.Table, key string, values []string, funcs []Func) (table.Table, []string, error) {
	return AggregateWithOptions(t, Spec{Key: key, Values: values, Funcs: funcs}, Options{})
}

// AggregateWithOptions is Aggregate with explicit Options. On error the input
// table is returned unchanged.
func AggregateWithOptions(t table.Table, s Spec, opts Options) (table.Table, []string, error) {
	for i, f := range s.Funcs {
		if err := f.check(); err != nil {
			return t, nil, fmt.Errorf("%w: funcs[%d]: %v", ErrInvalidSpec, i, err)
		}
	}
	if err := t.Require(s.Key); err != nil {
		return t, nil, err
	}
	if err := t.Require(s.Values...); err != nil {
		return t, nil, err
	}

	type pair struct {
		fn  Func
		col int
	}
	names := make([]string, 0, len(s.Funcs)*len(s.Values))
	pairs := make([]pair, 0, cap(names))
	seen := make(map[string]struct{}, cap(names))
	for _, f := range s.Funcs {
		for j, v := range s.Values {
			name := ColumnName(f, v, s.Key)
			if _, dup := seen[name]; dup {
				return t, nil, fmt.Errorf("%w: column %q requested twice", ErrInvalidSpec, name)
			}
			if t.Has(name) {
				return t, nil, fmt.Errorf("%w: column %q already exists", ErrInvalidSpec, name)
			}
			seen[name] = struct{}{}
			names = append(names, name)
			pairs = append(pairs, pair{fn: f, col: j})
		}
	}
	if len(pairs) == 0 {
		return t, nil, nil
	}

	keys, _ := t.Column(s.Key)
	idx := buildIndex(keys)
	groups := make([][]group, len(s.Values))
	for j, v := range s.Values {
		col, _ := t.Column(v)
		groups[j] = gather(idx, col)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	cols := make([][]any, len(pairs))
	var g errgroup.Group
	g.SetLimit(workers)
	for p := range pairs {
		g.Go(func() error {
			perGroup := make([]float64, idx.groups)
			for gi, grp := range groups[pairs[p].col] {
				perGroup[gi] = evaluate(pairs[p].fn, grp)
			}
			cols[p] = broadcast(idx, perGroup)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return t, nil, err
	}

	out, err := t.WithColumns(names, cols)
	if err != nil {
		return t, nil, err
	}
	return out, names, nil
}

// Apply evaluates a Spec.
func (s Spec) Apply(t table.Table, opts Options) (table.Table, []string, error) {
	return AggregateWithOptions(t, s, opts)
}

func broadcast(idx groupIndex, perGroup []float64) []any {
	out := make([]any, len(idx.rows))
	for i, id := range idx.rows {
		if id < 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = perGroup[id]
	}
	return out
}

func evaluate(f Func, g group) float64 {
	op, named := f.Op()
	if !named {
		if len(g.nums) == 0 {
			return math.NaN()
		}
		// nums is shared by every func over the column.
		return f.reduce(append([]float64(nil), g.nums...))
	}
	switch op {
	case Mean:
		return mean(g.nums)
	case Median:
		return median(g.nums)
	case Min:
		return minOf(g.nums)
	case Max:
		return maxOf(g.nums)
	case Sum:
		return sum(g.nums)
	case Count:
		return float64(len(g.cells))
	case Std:
		return stddev(g.nums, 1)
	case Var:
		return variance(g.nums, 1)
	case NUnique:
		return float64(distinct(g.cells))
	case First:
		if len(g.nums) == 0 {
			return math.NaN()
		}
		return g.nums[0]
	case Last:
		if len(g.nums) == 0 {
			return math.NaN()
		}
		return g.nums[len(g.nums)-1]
	case Size:
		return float64(g.size)
	}
	return math.NaN()
}
