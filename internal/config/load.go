package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. Nesting uses a double underscore,
// so FEATUREPIPE_STORAGE__DB__DSN sets storage.db.dsn.
const EnvPrefix = "FEATUREPIPE_"

// delim separates key path segments. Option keys such as decoder labels
// ("50.0m以上") contain dots, so the usual "." cannot be used.
const delim = "::"

// Load reads a pipeline file (YAML, or JSON which YAML subsumes), applies
// environment overrides and fills defaults. It does not validate; call
// ValidatePipeline on the result.
func Load(path string) (Pipeline, error) {
	k := koanf.New(delim)
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Pipeline{}, fmt.Errorf("load %s: %w", path, err)
	}
	if err := k.Load(env.Provider(EnvPrefix, delim, envKey), nil); err != nil {
		return Pipeline{}, fmt.Errorf("load env: %w", err)
	}

	var p Pipeline
	if err := k.UnmarshalWithConf("", &p, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Pipeline{}, fmt.Errorf("decode %s: %w", path, err)
	}
	applyDefaults(&p)
	return p, nil
}

// envKey maps FEATUREPIPE_RUNTIME__BATCH_SIZE to runtime::batch_size.
// Variables without a "__" (FEATUREPIPE_LOG_LEVEL) belong to the logging
// package and are skipped.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if !strings.Contains(s, "__") {
		return ""
	}
	return strings.ReplaceAll(s, "__", delim)
}

func applyDefaults(p *Pipeline) {
	if p.Source.Kind == "" {
		p.Source.Kind = "file"
	}
	if p.Parser.Kind == "" {
		p.Parser.Kind = "csv"
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	for i := range p.Transform {
		if p.Transform[i].Options == nil {
			p.Transform[i].Options = Options{}
		}
		if p.Transform[i].Name == "" {
			p.Transform[i].Name = p.Transform[i].Kind
		}
	}
	if p.Runtime.BatchSize == 0 {
		p.Runtime.BatchSize = 5000
	}
}
