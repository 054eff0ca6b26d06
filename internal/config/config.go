// Package config defines the configuration model for a featurepipe run.
//
// A pipeline file (YAML or JSON) names where the raw transaction table comes
// from, how it is parsed, which column transforms run, which group
// aggregations are appended and where the augmented table is written:
//
//	job: tokyo-2019
//	source:   { kind: file, file: { path: data/13_Tokyo.csv } }
//	parser:   { kind: csv, options: { has_header: true } }
//	transform:
//	  - { kind: narrow, options: { columns: [FloorPlan] } }
//	  - { kind: floor_plan, options: { column: FloorPlan } }
//	aggregate:
//	  - { key: Municipality, values: [TradePrice], funcs: [mean, std] }
//	storage:  { kind: sqlite, db: { dsn: out.db, table: features } }
//
// An empty transform list selects the default preprocessing chain.
// Files are loaded with Load; parser and transform settings live in free-form
// Options bags whose shape is defined by the implementation.
package config

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job labels metrics and log lines for this run.
	Job string `koanf:"job" json:"job" validate:"required"`

	Source Source `koanf:"source" json:"source"`
	Parser Parser `koanf:"parser" json:"parser"`

	// Transform lists the ordered column transforms. Empty means the default
	// preprocessing chain.
	Transform []Transform `koanf:"transform" json:"transform" validate:"dive"`

	// Aggregate lists the group aggregations appended after preprocessing.
	Aggregate []Aggregation `koanf:"aggregate" json:"aggregate" validate:"dive"`

	Storage Storage       `koanf:"storage" json:"storage"`
	Runtime RuntimeConfig `koanf:"runtime" json:"runtime"`
	Logging Logging       `koanf:"logging" json:"logging"`
}

// RuntimeConfig controls concurrency and batching.
type RuntimeConfig struct {
	// AggregateWorkers bounds the goroutines computing aggregate columns.
	// Zero means runtime.GOMAXPROCS.
	AggregateWorkers int `koanf:"aggregate_workers" json:"aggregate_workers" validate:"gte=0"`

	// BatchSize is the number of rows per storage write.
	BatchSize int `koanf:"batch_size" json:"batch_size" validate:"gte=0"`
}

// Logging configures the process logger.
type Logging struct {
	Level string `koanf:"level" json:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `koanf:"json" json:"json"`
}

// Source identifies the data source.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind string     `koanf:"kind" json:"kind" validate:"required"`
	File SourceFile `koanf:"file" json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `koanf:"path" json:"path"`

	// List names a text file of input paths, one per line ('#' comments
	// allowed). The parsed tables are stacked in list order. Path and List
	// are mutually exclusive.
	List string `koanf:"list" json:"list"`
}

// Parser selects how raw bytes become a table.
type Parser struct {
	// Kind is "csv" or "xlsx".
	Kind string `koanf:"kind" json:"kind" validate:"required"`

	// Options is interpreted by the parser. CSV: has_header, comma,
	// trim_space, header_map, lowercase_header. XLSX: sheet, header_map.
	Options Options `koanf:"options" json:"options"`
}

// Transform is one step of the column transform chain.
type Transform struct {
	// Kind selects a builtin transform (narrow, era_year, decode, ratio, ...).
	Kind string `koanf:"kind" json:"kind" validate:"required"`

	// Name labels the step in logs and metrics. Defaults to Kind.
	Name string `koanf:"name" json:"name"`

	Options Options `koanf:"options" json:"options"`
}

// Aggregation appends agg_{fn}_{col}_by_{key} columns for every value column
// and function.
type Aggregation struct {
	Key    string   `koanf:"key" json:"key" validate:"required"`
	Values []string `koanf:"values" json:"values" validate:"min=1,dive,required"`
	Funcs  []string `koanf:"funcs" json:"funcs" validate:"min=1,dive,required"`
}

// Storage selects the sink for the augmented table.
type Storage struct {
	// Kind is one of sqlite, postgres, mssql, mysql or csv.
	Kind string    `koanf:"kind" json:"kind" validate:"required"`
	DB   DBConfig  `koanf:"db" json:"db"`
	CSV  CSVConfig `koanf:"csv" json:"csv"`
}

// DBConfig configures a database sink.
type DBConfig struct {
	DSN   string `koanf:"dsn" json:"dsn"`
	Table string `koanf:"table" json:"table"`

	// Columns restricts and orders the written columns. Empty writes every
	// column of the final table.
	Columns []string `koanf:"columns" json:"columns"`

	// AutoCreateTable creates the table from the inferred column kinds when
	// it does not exist.
	AutoCreateTable bool `koanf:"auto_create_table" json:"auto_create_table"`
}

// CSVConfig configures the csv file sink.
type CSVConfig struct {
	Path    string   `koanf:"path" json:"path"`
	Comma   string   `koanf:"comma" json:"comma"`
	Columns []string `koanf:"columns" json:"columns"`
}

// Options fetches typed values from free-form option maps. It performs only
// minimal coercion and returns the default when a key is absent or has an
// unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON decodes numbers as float64
// and YAML as int, so both are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case int64:
			return int(n)
		}
	}
	return def
}

// Float returns the numeric value for key or def.
func (o Options) Float(key string, def float64) float64 {
	if v, ok := o[key]; ok {
		if f, ok := number(v); ok {
			return f
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns the string-valued entries of the object at key. Returns
// an empty map when the key is missing or not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if m, ok := o[key].(map[string]any); ok {
		for k, vv := range m {
			if s, ok := vv.(string); ok {
				res[k] = s
			}
		}
	}
	return res
}

// FloatMap returns the numeric entries of the object at key.
func (o Options) FloatMap(key string) map[string]float64 {
	res := map[string]float64{}
	if m, ok := o[key].(map[string]any); ok {
		for k, vv := range m {
			if f, ok := number(vv); ok {
				res[k] = f
			}
		}
	}
	return res
}

// StringSlice returns a []string for key when the value is an array of
// strings. Returns nil when the key is missing or not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// Any returns the raw value for key.
func (o Options) Any(key string) any {
	if v, ok := o[key]; ok {
		return v
	}
	return nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
