// Package pipeline runs an ordered list of column transforms over a table and
// appends the configured group aggregations.
//
// A Pipeline is built either from the default preprocessing order (Default)
// or from the transform list of a pipeline file (FromConfig). Run validates
// the declared read/write order against the input columns before any step
// executes, then applies the steps one by one, recording per-step timing,
// status and missing-cell counts through internal/metrics.
package pipeline

import (
	"fmt"
	"time"

	"featurepipe/internal/logging"
	"featurepipe/internal/metrics"
	"featurepipe/internal/transformer"
	"featurepipe/pkg/table"
)

// Step is a named transform.
type Step struct {
	Name        string
	Transformer transformer.Transformer
}

// Pipeline is an ordered list of steps labelled with a job name.
type Pipeline struct {
	job   string
	steps []Step
}

// New returns a Pipeline running steps in order.
func New(job string, steps ...Step) *Pipeline {
	return &Pipeline{job: job, steps: steps}
}

// Job returns the label used for logs and metrics.
func (p *Pipeline) Job() string { return p.job }

// Steps returns a copy of the steps.
func (p *Pipeline) Steps() []Step { return append([]Step(nil), p.steps...) }

// Chain returns the steps as a transformer.Chain.
func (p *Pipeline) Chain() transformer.Chain {
	c := make(transformer.Chain, len(p.steps))
	for i, s := range p.steps {
		c[i] = s.Transformer
	}
	return c
}

// Check validates the declared dependency order against the starting
// columns without running anything.
func (p *Pipeline) Check(columns []string) error {
	if err := p.Chain().Check(columns); err != nil {
		return fmt.Errorf("pipeline %s: %w", p.job, err)
	}
	return nil
}

// Run checks the step order against t's columns and applies every step. On
// error the input table is returned unchanged.
func (p *Pipeline) Run(t table.Table) (table.Table, error) {
	if err := p.Check(t.Columns()); err != nil {
		return t, err
	}
	log := logging.L().With("job", p.job)
	out := t
	for i, s := range p.steps {
		start := time.Now()
		next, err := s.Transformer.Apply(out)
		if err == nil && next.Len() != out.Len() {
			err = fmt.Errorf("%w (%d -> %d)", transformer.ErrRowCount, out.Len(), next.Len())
		}
		d := time.Since(start)
		metrics.RecordStep(p.job, s.Name, err, d)
		if err != nil {
			log.Error("step failed", "step", s.Name, "index", i, "err", err)
			return t, fmt.Errorf("step %d (%s): %w", i, s.Name, err)
		}
		out = next
		p.recordMissing(s, out)
		log.Debug("step done", "step", s.Name, "index", i, "columns", out.Width(), "took", d)
	}
	return out, nil
}

// recordMissing counts missing cells in the columns a step declares it
// writes, which is where silent coercion failures show up.
func (p *Pipeline) recordMissing(s Step, t table.Table) {
	d, ok := s.Transformer.(transformer.Declarer)
	if !ok {
		return
	}
	for _, name := range d.Writes() {
		col, err := t.Column(name)
		if err != nil {
			continue
		}
		var n int64
		for _, v := range col {
			if table.IsMissing(v) {
				n++
			}
		}
		metrics.RecordMissing(p.job, name, n)
	}
}
