package aggregate

import (
	"errors"
	"fmt"
	"strings"
)

// Op is a named aggregation with pandas semantics: missing cells are
// skipped, std and var use one delta degree of freedom.
type Op int

const (
	Mean Op = iota
	Median
	Min
	Max
	Sum
	Count
	Std
	Var
	NUnique
	First
	Last
	Size
	opCount
)

var opNames = [...]string{
	Mean:    "mean",
	Median:  "median",
	Min:     "min",
	Max:     "max",
	Sum:     "sum",
	Count:   "count",
	Std:     "std",
	Var:     "var",
	NUnique: "nunique",
	First:   "first",
	Last:    "last",
	Size:    "size",
}

func (op Op) String() string {
	if op < 0 || op >= opCount {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

func (op Op) valid() bool { return op >= 0 && op < opCount }

// ParseOp resolves a named aggregation. Names are case-insensitive.
func ParseOp(s string) (Op, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for op, n := range opNames {
		if n == name {
			return Op(op), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown aggregation %q", ErrInvalidSpec, s)
}

// Reducer folds the non-missing numeric values of one group to a scalar.
// It is never called with an empty slice. The slice is the reducer's own
// copy and may be reordered in place.
type Reducer func(values []float64) float64

// Func is either a named Op or a labelled custom Reducer. The zero value is
// invalid.
type Func struct {
	op     Op
	label  string
	reduce Reducer
	named  bool
}

// Named wraps a builtin aggregation.
func Named(op Op) Func { return Func{op: op, named: true} }

// Custom wraps a caller-supplied reducer. The label appears in output column
// names, so it should be a short identifier.
func Custom(label string, r Reducer) Func { return Func{label: label, reduce: r} }

// Name is the identifier used in agg_{name}_{col}_by_{key}.
func (f Func) Name() string {
	if f.named {
		return f.op.String()
	}
	return f.label
}

// Op returns the builtin aggregation and true for Named funcs.
func (f Func) Op() (Op, bool) { return f.op, f.named }

func (f Func) check() error {
	switch {
	case f.named && !f.op.valid():
		return fmt.Errorf("unknown aggregation %v", f.op)
	case f.named:
		return nil
	case f.reduce == nil:
		return errors.New("custom aggregation has no reducer")
	case strings.TrimSpace(f.label) == "":
		return errors.New("custom aggregation has no label")
	}
	return nil
}

// ParseFunc resolves a configured name: a builtin Op first, then an entry of
// Library.
func ParseFunc(name string) (Func, error) {
	if op, err := ParseOp(name); err == nil {
		return Named(op), nil
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if r, ok := Library[key]; ok {
		return Custom(key, r), nil
	}
	return Func{}, fmt.Errorf("%w: unknown aggregation %q", ErrInvalidSpec, name)
}

// ParseFuncs resolves every name, failing on the first unknown one.
func ParseFuncs(names []string) ([]Func, error) {
	out := make([]Func, 0, len(names))
	for _, n := range names {
		f, err := ParseFunc(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
