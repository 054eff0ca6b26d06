package pipeline

import (
	"fmt"

	"featurepipe/internal/aggregate"
	"featurepipe/internal/config"
	"featurepipe/internal/logging"
	"featurepipe/internal/metrics"
	"featurepipe/pkg/table"
)

// Specs resolves configured aggregations. Every function name is checked
// before any table work starts.
func Specs(as []config.Aggregation) ([]aggregate.Spec, error) {
	out := make([]aggregate.Spec, len(as))
	for i, a := range as {
		funcs, err := aggregate.ParseFuncs(a.Funcs)
		if err != nil {
			return nil, fmt.Errorf("aggregate[%d]: %w", i, err)
		}
		out[i] = aggregate.Spec{Key: a.Key, Values: a.Values, Funcs: funcs}
	}
	return out, nil
}

// Augment applies specs in order, each on the previous result. On error the
// input table is returned unchanged.
func Augment(job string, t table.Table, specs []aggregate.Spec, opts aggregate.Options) (table.Table, error) {
	out := t
	for i, s := range specs {
		next, cols, err := s.Apply(out, opts)
		if err != nil {
			return t, fmt.Errorf("aggregate[%d] by %s: %w", i, s.Key, err)
		}
		metrics.RecordAggregate(job, s.Key, len(cols))
		logging.L().Debug("aggregate done", "job", job, "key", s.Key, "columns", len(cols))
		out = next
	}
	return out, nil
}
