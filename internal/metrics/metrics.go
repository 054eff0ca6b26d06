// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from a featurepipe run.
//
//   - It exposes a narrow interface (Backend) focused on counters and timing
//     data (histograms).
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured.
//
// Concrete systems (Prometheus Pushgateway, Datadog) live in subpackages so
// the pipeline depends only on this package.
package metrics

import (
	"sync"
	"time"
)

// Metric names shared by every backend.
const (
	StepTotal       = "featurepipe_step_total"
	StepDuration    = "featurepipe_step_duration_seconds"
	RowsTotal       = "featurepipe_rows_total"
	BatchesTotal    = "featurepipe_batches_total"
	MissingCells    = "featurepipe_missing_cells_total"
	AggregateColumn = "featurepipe_aggregate_columns_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

// Disable reinstalls the no-op backend.
func Disable() {
	mu.Lock()
	backend = nopBackend{}
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep measures latency and success/failure of one pipeline step.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}
	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow increments a row counter for the given job and kind.
//
// Kinds used by the CLI:
//   - "read"
//   - "skipped"
//   - "written"
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBatches increments the storage batch counter for the given job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{
		"job": job,
	})
}

// RecordMissing counts missing cells in a column a step wrote. Coercion
// failures surface only here and as NaN in the output.
func RecordMissing(job, column string, n int64) {
	if n <= 0 {
		return
	}
	current().IncCounter(MissingCells, float64(n), Labels{
		"job":    job,
		"column": column,
	})
}

// RecordAggregate counts aggregate columns appended for a group key.
func RecordAggregate(job, key string, columns int) {
	if columns <= 0 {
		return
	}
	current().IncCounter(AggregateColumn, float64(columns), Labels{
		"job": job,
		"key": key,
	})
}
