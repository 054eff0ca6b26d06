package builtin

import (
	"math"

	"featurepipe/internal/coerce"
	"featurepipe/pkg/table"
)

// EraYear converts era-date strings ("平成9年", "戦前") to Gregorian years.
type EraYear struct {
	Column string
	Output string // defaults to Column
}

func (e EraYear) Reads() []string  { return []string{e.Column} }
func (e EraYear) Writes() []string { return []string{or(e.Output, e.Column)} }

func (e EraYear) Apply(t table.Table) (table.Table, error) {
	return mapColumn(t, e.Column, or(e.Output, e.Column), func(v any) any {
		if f, ok := table.Float(v); ok {
			return f
		}
		return coerce.EraYear(table.Text(v))
	})
}

// Period converts deal-period strings ("2019年第1四半期") to year + quarter/4.
type Period struct {
	Column string
	Output string // defaults to Column
}

func (p Period) Reads() []string  { return []string{p.Column} }
func (p Period) Writes() []string { return []string{or(p.Output, p.Column)} }

func (p Period) Apply(t table.Table) (table.Table, error) {
	return mapColumn(t, p.Column, or(p.Output, p.Column), func(v any) any {
		if f, ok := table.Float(v); ok {
			return f
		}
		return coerce.PeriodIndex(table.Text(v))
	})
}

// Elapsed writes Period - Built. The result may be negative or fractional;
// a missing operand yields NaN.
type Elapsed struct {
	Period string
	Built  string
	Output string
}

func (e Elapsed) Reads() []string  { return []string{e.Period, e.Built} }
func (e Elapsed) Writes() []string { return []string{e.Output} }

func (e Elapsed) Apply(t table.Table) (table.Table, error) {
	period, err := t.Column(e.Period)
	if err != nil {
		return t, err
	}
	built, err := t.Column(e.Built)
	if err != nil {
		return t, err
	}
	out := make([]any, len(period))
	for i := range period {
		p, ok1 := table.Float(period[i])
		b, ok2 := table.Float(built[i])
		if !ok1 || !ok2 {
			out[i] = math.NaN()
			continue
		}
		out[i] = p - b
	}
	return t.WithColumn(e.Output, out)
}
