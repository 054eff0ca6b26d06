// This file holds the linter for Pipeline values. It performs static checks
// over a decoded Pipeline and returns a list of issues (errors and warnings)
// that callers can surface in a CLI or tests.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"featurepipe/internal/aggregate"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "aggregate[1].funcs[0]"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// TransformKinds are the transform kinds the builtin registry provides.
var TransformKinds = []string{
	"clip", "concat", "decode", "elapsed", "era_year", "fill", "floor_plan",
	"label_encode", "narrow", "numeric", "period", "ratio", "replace",
	"scale_where", "split_labels", "trim",
}

var (
	sourceKinds  = []string{"file"}
	parserKinds  = []string{"csv", "xlsx"}
	storageKinds = []string{"sqlite", "postgres", "mssql", "mysql", "csv"}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline; callers decide whether warnings are fatal.
//
//	p, err := config.Load("pipeline.yaml")
//	for _, iss := range config.ValidatePipeline(p) {
//	    fmt.Println(iss)
//	}
func ValidatePipeline(p Pipeline) []Issue {
	issues := structIssues(p)
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateAggregates(p.Aggregate)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateRuntime(p.Runtime)...)
	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// structIssues runs the struct tag rules and maps each failure to an Issue.
func structIssues(p Pipeline) []Issue {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Severity: SeverityError, Path: "", Message: err.Error()}}
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     fieldPath(fe.Namespace()),
			Message:  tagMessage(fe),
		})
	}
	return issues
}

// fieldPath drops the leading struct name: "Pipeline.storage.kind" -> "storage.kind".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "min":
		return fmt.Sprintf("must list at least %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}

func known(kinds []string, k string) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

func validateSource(s Source) []Issue {
	var issues []Issue
	if s.Kind != "" && !known(sourceKinds, s.Kind) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q; ensure a matching implementation exists", s.Kind),
		})
	}
	if s.Kind == "file" {
		path, list := strings.TrimSpace(s.File.Path), strings.TrimSpace(s.File.List)
		switch {
		case path == "" && list == "":
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.path",
				Message:  "file source requires a non-empty path (or list)",
			})
		case path != "" && list != "":
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.list",
				Message:  "set either path or list, not both",
			})
		}
	}
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue
	if p.Kind != "" && !known(parserKinds, p.Kind) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.kind",
			Message:  fmt.Sprintf("unknown parser kind %q; want one of %v", p.Kind, parserKinds),
		})
	}
	if p.Kind == "csv" && len(p.Options.String("comma", ",")) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.options.comma",
			Message:  "csv comma must be a single byte",
		})
	}
	return issues
}

func validateTransforms(ts []Transform) []Issue {
	var issues []Issue
	if len(ts) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "transform",
			Message:  "no transforms configured; the default preprocessing chain will run",
		})
		return issues
	}
	names := make(map[string]int, len(ts))
	for i, t := range ts {
		if t.Kind != "" && !known(TransformKinds, t.Kind) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("transform[%d].kind", i),
				Message:  fmt.Sprintf("unknown transform kind %q", t.Kind),
			})
		}
		if t.Name == "" {
			continue
		}
		if j, dup := names[t.Name]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("transform[%d].name", i),
				Message:  fmt.Sprintf("step name %q repeats transform[%d]; metrics will merge them", t.Name, j),
			})
			continue
		}
		names[t.Name] = i
	}
	return issues
}

func validateAggregates(as []Aggregation) []Issue {
	var issues []Issue
	for i, a := range as {
		for j, fn := range a.Funcs {
			if fn == "" {
				continue
			}
			if _, err := aggregate.ParseFunc(fn); err != nil {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     fmt.Sprintf("aggregate[%d].funcs[%d]", i, j),
					Message:  err.Error(),
				})
			}
		}
		for _, v := range a.Values {
			if v == a.Key {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     fmt.Sprintf("aggregate[%d].values", i),
					Message:  fmt.Sprintf("value column %q is also the group key", v),
				})
			}
		}
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	if s.Kind == "" {
		return nil
	}
	if !known(storageKinds, s.Kind) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}
	if s.Kind == "csv" {
		if strings.TrimSpace(s.CSV.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.csv.path",
				Message:  "csv storage requires a non-empty path",
			})
		}
		return issues
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage.db.table must not be empty",
		})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	if r.BatchSize == 0 {
		return []Issue{{
			Severity: SeverityWarning,
			Path:     "runtime.batch_size",
			Message:  "batch_size=0; rows will be written in a single batch",
		}}
	}
	return nil
}
