// Package datasource defines where raw transaction exports are read from.
// The file subpackage provides the local filesystem implementation.
package datasource

import (
	"context"
	"io"
)

// Source opens one input stream. Callers close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name identifies the input in logs.
	Name() string
}
