package aggregate

import "errors"

// ErrInvalidSpec reports an aggregation request that cannot be evaluated:
// an unknown function, a custom function without reducer or label, or two
// requests that would write the same output column.
var ErrInvalidSpec = errors.New("invalid aggregation spec")
