// Package report turns suite results into shareable summaries. Writers
// register by name in a Registry; text, json and html writers ship built in.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-viewcheck/pkg/harness"
	"github.com/goliatone/go-viewcheck/pkg/schema"
)

// Report is the neutral summary every writer renders.
type Report struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Counts      Counts         `json:"counts"`
	Views       []ViewSummary  `json:"views"`
	Setup       []SetupSummary `json:"setup,omitempty"`
}

// Counts aggregates verdict totals. Broken counts views whose setup failed
// before any input was drawn.
type Counts struct {
	Views  int `json:"views"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Broken int `json:"broken"`
}

// ViewSummary is one explored view.
type ViewSummary struct {
	Name     string          `json:"name"`
	Passing  bool            `json:"passing"`
	Examples int             `json:"examples"`
	Failure  *FailureSummary `json:"failure,omitempty"`
}

// FailureSummary carries a failing view's reproducer in rendered form.
type FailureSummary struct {
	Cause    string  `json:"cause"`
	Shrinks  int     `json:"shrinks"`
	Record   []Field `json:"record"`
	Original []Field `json:"original,omitempty"`
}

// Field is one rendered record entry: a dotted path and its JSON value.
type Field struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// SetupSummary is a view that never ran.
type SetupSummary struct {
	View  string `json:"view"`
	Error string `json:"error"`
}

// BuildOption adjusts report construction.
type BuildOption func(*Report)

// WithTitle overrides the report heading.
func WithTitle(title string) BuildOption {
	return func(r *Report) {
		r.Title = title
	}
}

// WithDescription sets a preamble shown above the results. The html writer
// sanitizes it and renders the surviving markup; the text writer reduces it
// to plain text.
func WithDescription(description string) BuildOption {
	return func(r *Report) {
		r.Description = description
	}
}

// WithGeneratedAt pins the timestamp so output is reproducible.
func WithGeneratedAt(at time.Time) BuildOption {
	return func(r *Report) {
		r.GeneratedAt = at
	}
}

// Build converts a suite result into the writable report model. Verdict
// order is preserved; broken views follow the explored ones.
func Build(result harness.SuiteResult, options ...BuildOption) Report {
	report := Report{
		Title:       "viewcheck report",
		GeneratedAt: time.Now().UTC(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&report)
		}
	}

	report.Counts.Views = len(result.Verdicts) + len(result.Setup)
	report.Counts.Broken = len(result.Setup)
	for _, verdict := range result.Verdicts {
		summary := ViewSummary{
			Name:     verdict.View,
			Passing:  verdict.Passing,
			Examples: verdict.Examples,
		}
		if verdict.Passing {
			report.Counts.Passed++
		} else {
			report.Counts.Failed++
		}
		if verdict.Failure != nil {
			summary.Failure = &FailureSummary{
				Cause:    causeText(verdict.Failure.Cause),
				Shrinks:  verdict.Failure.Shrinks,
				Record:   RenderRecord(verdict.Failure.Record),
				Original: RenderRecord(verdict.Failure.Original),
			}
		}
		report.Views = append(report.Views, summary)
	}
	for _, setup := range result.Setup {
		report.Setup = append(report.Setup, SetupSummary{View: setup.View, Error: setup.Err.Error()})
	}
	return report
}

// RenderRecord flattens a record into sorted dotted paths with JSON-encoded
// values, the shape reproducers are shown in everywhere. Absent optional
// fields were stripped at assembly, so missing means omitted.
func RenderRecord(record schema.Record) []Field {
	if len(record) == 0 {
		return nil
	}
	fields := appendRecordFields(nil, "", record)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Path < fields[j].Path })
	return fields
}

func appendRecordFields(fields []Field, prefix string, record schema.Record) []Field {
	for name, value := range record {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if nested, ok := value.(schema.Record); ok {
			fields = appendRecordFields(fields, path, nested)
			continue
		}
		fields = append(fields, Field{Path: path, Value: renderValue(value)})
	}
	return fields
}

func renderValue(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(encoded)
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
