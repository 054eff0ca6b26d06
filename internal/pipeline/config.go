package pipeline

import (
	"fmt"

	"featurepipe/internal/config"
	"featurepipe/internal/transformer/builtin"
)

// FromConfig builds a Pipeline from declared transforms through the builtin
// registry. An empty list selects Default(DefaultColumns()).
func FromConfig(job string, ts []config.Transform) (*Pipeline, error) {
	if len(ts) == 0 {
		return New(job, Default(DefaultColumns())...), nil
	}
	steps := make([]Step, 0, len(ts))
	for i, t := range ts {
		tr, err := builtin.Build(t.Kind, t.Options)
		if err != nil {
			return nil, fmt.Errorf("transform[%d]: %w", i, err)
		}
		name := t.Name
		if name == "" {
			name = t.Kind
		}
		steps = append(steps, Step{Name: name, Transformer: tr})
	}
	return New(job, steps...), nil
}
