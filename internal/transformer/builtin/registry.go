package builtin

import (
	"fmt"
	"math"
	"sort"

	"featurepipe/internal/coerce"
	"featurepipe/internal/config"
	"featurepipe/internal/transformer"
)

// Factory builds a transform from its configuration options.
type Factory func(opts config.Options) (transformer.Transformer, error)

var factories = map[string]Factory{
	"narrow": func(o config.Options) (transformer.Transformer, error) {
		cols, err := needSlice(o, "columns")
		return Narrow{Columns: cols, Fill: o.String("fill", "")}, err
	},
	"era_year": func(o config.Options) (transformer.Transformer, error) {
		col, err := need(o, "column")
		return EraYear{Column: col, Output: o.String("output", "")}, err
	},
	"period": func(o config.Options) (transformer.Transformer, error) {
		col, err := need(o, "column")
		return Period{Column: col, Output: o.String("output", "")}, err
	},
	"elapsed": func(o config.Options) (transformer.Transformer, error) {
		e := Elapsed{
			Period: o.String("period", ""),
			Built:  o.String("built", ""),
			Output: o.String("output", "ElapsedYear"),
		}
		if e.Period == "" || e.Built == "" {
			return nil, fmt.Errorf("elapsed: options period and built are required")
		}
		return e, nil
	},
	"decode": func(o config.Options) (transformer.Transformer, error) {
		col, err := need(o, "column")
		if err != nil {
			return nil, err
		}
		name := o.String("decoder", "number")
		d, ok := coerce.Decoders[name]
		if !ok {
			return nil, fmt.Errorf("decode: unknown decoder %q", name)
		}
		if extra := o.FloatMap("labels"); len(extra) > 0 {
			d = d.With(extra)
		}
		return Decode{Column: col, Output: o.String("output", ""), Decoder: d}, nil
	},
	"numeric": func(o config.Options) (transformer.Transformer, error) {
		cols, err := needSlice(o, "columns")
		return Numeric{Columns: cols}, err
	},
	"scale_where": func(o config.Options) (transformer.Transformer, error) {
		s := ScaleWhere{
			Column:   o.String("column", ""),
			Category: o.String("category", ""),
			Values:   o.StringSlice("values"),
			Factor:   o.Float("factor", 1),
		}
		if s.Column == "" || s.Category == "" {
			return nil, fmt.Errorf("scale_where: options column and category are required")
		}
		return s, nil
	},
	"clip": func(o config.Options) (transformer.Transformer, error) {
		col, err := need(o, "column")
		return Clip{Column: col, Lower: o.Float("lower", math.NaN()), Upper: o.Float("upper", math.NaN())}, err
	},
	"ratio": func(o config.Options) (transformer.Transformer, error) {
		r := Ratio{
			Numerator:   o.String("numerator", ""),
			Denominator: o.String("denominator", ""),
			Output:      o.String("output", ""),
		}
		if r.Numerator == "" || r.Denominator == "" || r.Output == "" {
			return nil, fmt.Errorf("ratio: options numerator, denominator and output are required")
		}
		return r, nil
	},
	"floor_plan": func(o config.Options) (transformer.Transformer, error) {
		col, err := need(o, "column")
		return FloorPlan{Column: col, RoomsOutput: o.String("rooms_output", "")}, err
	},
	"fill": func(o config.Options) (transformer.Transformer, error) {
		cols, err := needSlice(o, "columns")
		return Fill{Columns: cols, Value: o.String("value", coerce.NoData)}, err
	},
	"replace": func(o config.Options) (transformer.Transformer, error) {
		col, err := need(o, "column")
		if err != nil {
			return nil, err
		}
		rt := ReplaceTable{}
		if path := o.String("rules_file", ""); path != "" {
			if rt, err = LoadReplaceTable(path); err != nil {
				return nil, err
			}
		}
		rt.Mode = o.String("mode", rt.Mode)
		rt.Trim = o.String("trim", rt.Trim)
		rt.Rules = append(rt.Rules, rulesOption(o)...)
		return NewReplace(col, rt)
	},
	"concat": func(o config.Options) (transformer.Transformer, error) {
		cols, err := needSlice(o, "columns")
		if err != nil {
			return nil, err
		}
		out, err := need(o, "output")
		return Concat{Columns: cols, Output: out, Prefix: o.Int("prefix", 0)}, err
	},
	"split_labels": func(o config.Options) (transformer.Transformer, error) {
		col, err := need(o, "column")
		return SplitLabels{Column: col, Sep: o.String("sep", "")}, err
	},
	"trim": func(o config.Options) (transformer.Transformer, error) {
		return Trim{Columns: o.StringSlice("columns")}, nil
	},
	"label_encode": func(o config.Options) (transformer.Transformer, error) {
		cols, err := needSlice(o, "columns")
		return LabelEncode{Columns: cols, Fill: o.String("fill", "")}, err
	},
}

// Build constructs the transform registered under kind.
func Build(kind string, opts config.Options) (transformer.Transformer, error) {
	f, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown transform kind %q", kind)
	}
	t, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return t, nil
}

// Kinds lists the registered transform kinds in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func need(o config.Options, key string) (string, error) {
	s := o.String(key, "")
	if s == "" {
		return "", fmt.Errorf("option %q is required", key)
	}
	return s, nil
}

func needSlice(o config.Options, key string) ([]string, error) {
	s := o.StringSlice(key)
	if len(s) == 0 {
		return nil, fmt.Errorf("option %q must list at least one column", key)
	}
	return s, nil
}

// rulesOption reads inline rules: [{from: "...", to: "..."}, ...].
func rulesOption(o config.Options) []Rule {
	raw, ok := o.Any("rules").([]any)
	if !ok {
		return nil
	}
	out := make([]Rule, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		from, _ := m["from"].(string)
		to, _ := m["to"].(string)
		if from == "" {
			continue
		}
		out = append(out, Rule{From: from, To: to})
	}
	return out
}
