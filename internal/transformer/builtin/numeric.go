package builtin

import (
	"math"

	"featurepipe/internal/coerce"
	"featurepipe/pkg/table"
)

// Decode maps bucketed or capped labels to numbers with a coerce.Decoder,
// e.g. walk time "30分?60分" -> 45 or lot area "2000㎡以上" -> 2000.
type Decode struct {
	Column  string
	Output  string // defaults to Column
	Decoder coerce.Decoder
}

func (d Decode) Reads() []string  { return []string{d.Column} }
func (d Decode) Writes() []string { return []string{or(d.Output, d.Column)} }

func (d Decode) Apply(t table.Table) (table.Table, error) {
	return mapColumn(t, d.Column, or(d.Output, d.Column), func(v any) any {
		if f, ok := table.Float(v); ok {
			return f
		}
		return d.Decoder.Decode(table.Text(v))
	})
}

// Numeric coerces text columns to numbers in place; unparseable cells
// become NaN.
type Numeric struct {
	Columns []string
}

func (n Numeric) Reads() []string  { return n.Columns }
func (n Numeric) Writes() []string { return n.Columns }

func (n Numeric) Apply(t table.Table) (table.Table, error) {
	if err := t.Require(n.Columns...); err != nil {
		return t, err
	}
	out := t
	for _, c := range n.Columns {
		var err error
		out, err = mapColumn(out, c, c, func(v any) any {
			if f, ok := coerce.Number(v); ok {
				return f
			}
			return math.NaN()
		})
		if err != nil {
			return t, err
		}
	}
	return out, nil
}

// ScaleWhere multiplies Column by Factor on rows whose Category cell equals
// one of Values. It corrects the unit of lot areas reported for forest and
// farm land.
type ScaleWhere struct {
	Column   string
	Category string
	Values   []string
	Factor   float64
}

func (s ScaleWhere) Reads() []string  { return []string{s.Column, s.Category} }
func (s ScaleWhere) Writes() []string { return []string{s.Column} }

func (s ScaleWhere) Apply(t table.Table) (table.Table, error) {
	vals, err := t.Column(s.Column)
	if err != nil {
		return t, err
	}
	cats, err := t.Column(s.Category)
	if err != nil {
		return t, err
	}
	match := make(map[string]struct{}, len(s.Values))
	for _, v := range s.Values {
		match[v] = struct{}{}
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
		c, ok := cats[i].(string)
		if !ok {
			continue
		}
		if _, hit := match[c]; !hit {
			continue
		}
		if f, ok := table.Float(v); ok {
			out[i] = f * s.Factor
		}
	}
	return t.WithColumn(s.Column, out)
}

// Clip bounds a numeric column to [Lower, Upper]. A NaN bound is open.
// Missing cells stay missing.
type Clip struct {
	Column string
	Lower  float64
	Upper  float64
}

func (c Clip) Reads() []string  { return []string{c.Column} }
func (c Clip) Writes() []string { return []string{c.Column} }

func (c Clip) Apply(t table.Table) (table.Table, error) {
	return mapColumn(t, c.Column, c.Column, func(v any) any {
		f, ok := table.Float(v)
		if !ok {
			return math.NaN()
		}
		if !math.IsNaN(c.Lower) && f < c.Lower {
			f = c.Lower
		}
		if !math.IsNaN(c.Upper) && f > c.Upper {
			f = c.Upper
		}
		return f
	})
}

// Ratio writes Numerator / Denominator. A zero or missing denominator, or a
// missing numerator, yields NaN.
type Ratio struct {
	Numerator   string
	Denominator string
	Output      string
}

func (r Ratio) Reads() []string  { return []string{r.Numerator, r.Denominator} }
func (r Ratio) Writes() []string { return []string{r.Output} }

func (r Ratio) Apply(t table.Table) (table.Table, error) {
	num, err := t.Column(r.Numerator)
	if err != nil {
		return t, err
	}
	den, err := t.Column(r.Denominator)
	if err != nil {
		return t, err
	}
	out := make([]any, len(num))
	for i := range num {
		out[i] = math.NaN()
		n, ok := table.Float(num[i])
		if !ok {
			continue
		}
		d, ok := table.Float(den[i])
		if !ok || d == 0 {
			continue
		}
		out[i] = n / d
	}
	return t.WithColumn(r.Output, out)
}
