package table

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is matched (errors.Is) by every MissingColumnError.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError identifies a column referenced by a transform or an
// aggregation that is not present in the table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

// Is makes errors.Is(err, ErrMissingColumn) succeed.
func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }
