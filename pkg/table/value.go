package table

import (
	"fmt"
	"math"
	"strconv"
)

// IsMissing reports whether v is the missing sentinel (nil or NaN).
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// NaN is the missing value written by numeric columns.
func NaN() any { return math.NaN() }

// Float returns v as a float64 when v is a non-missing number. Strings are
// not numbers here; parsing text is the job of the coercion transforms.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), !math.IsNaN(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	}
	return 0, false
}

// Text returns the string form of v, or "" for missing values.
func Text(v any) string {
	if IsMissing(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		if f, ok := Float(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return fmt.Sprint(v)
	}
}

// Kind classifies a column for storage.
type Kind uint8

const (
	// KindEmpty marks a column whose cells are all missing.
	KindEmpty Kind = iota
	// KindNumber marks a column whose non-missing cells are all numbers.
	KindNumber
	// KindText marks a column holding at least one non-numeric value.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "empty"
	}
}

// KindOf inspects the column and returns its storage kind.
func KindOf(col []any) Kind {
	k := KindEmpty
	for _, v := range col {
		if IsMissing(v) {
			continue
		}
		if _, ok := Float(v); !ok {
			return KindText
		}
		k = KindNumber
	}
	return k
}
