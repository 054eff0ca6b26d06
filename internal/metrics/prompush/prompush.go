// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A featurepipe run is a batch job with no long-lived HTTP server, so metrics
// are pushed to a Pushgateway once the run ends instead of being scraped.
// Only this package depends on client_golang.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"featurepipe/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	grouping   map[string]string
	reg        *prometheus.Registry

	stepCounter      *prometheus.CounterVec // featurepipe_step_total
	stepDuration     *prometheus.SummaryVec // featurepipe_step_duration_seconds
	rowCounter       *prometheus.CounterVec // featurepipe_rows_total
	batchCounter     prometheus.Counter     // featurepipe_batches_total
	missingCounter   *prometheus.CounterVec // featurepipe_missing_cells_total
	aggregateCounter *prometheus.CounterVec // featurepipe_aggregate_columns_total
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name (often same as pipeline job).
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "featurepipe"
	}

	reg := prometheus.NewRegistry()
	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Pipeline step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.StepDuration,
			Help:       "Duration of pipeline steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Row counts per kind (read, written).",
		},
		[]string{"kind"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Storage batches flushed for this job.",
		},
	)
	missingCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.MissingCells,
			Help: "Missing cells in columns written by pipeline steps.",
		},
		[]string{"column"},
	)
	aggregateCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.AggregateColumn,
			Help: "Aggregate columns appended, partitioned by group key.",
		},
		[]string{"key"},
	)

	for _, c := range []prometheus.Collector{stepCounter, stepDuration, rowCounter, batchCounter, missingCounter, aggregateCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}

	return &Backend{
		gatewayURL:       gatewayURL,
		jobName:          jobName,
		grouping:         map[string]string{},
		reg:              reg,
		stepCounter:      stepCounter,
		stepDuration:     stepDuration,
		rowCounter:       rowCounter,
		batchCounter:     batchCounter,
		missingCounter:   missingCounter,
		aggregateCounter: aggregateCounter,
	}, nil
}

// WithGrouping adds a Pushgateway grouping label (e.g. run_id) and returns b.
func (b *Backend) WithGrouping(name, value string) *Backend {
	b.grouping[name] = value
	return b
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case metrics.RowsTotal:
		if b.rowCounter == nil {
			return
		}
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.BatchesTotal:
		if b.batchCounter == nil {
			return
		}
		b.batchCounter.Add(delta)
	case metrics.MissingCells:
		if b.missingCounter == nil {
			return
		}
		b.missingCounter.WithLabelValues(labels["column"]).Add(delta)
	case metrics.AggregateColumn:
		if b.aggregateCounter == nil {
			return
		}
		b.aggregateCounter.WithLabelValues(labels["key"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDuration || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	p := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg)
	for k, v := range b.grouping {
		p = p.Grouping(k, v)
	}
	return p.Push()
}
