// Package viewcheck explores views under test with schema-derived random
// inputs: it turns typed field schemas (parametrizations) into constrained
// generators, drives each view through a property-based exploration engine,
// and classifies every invocation as a success, a controlled failure, or a
// defect worth shrinking to a minimal reproducer.
package viewcheck

import (
	"context"

	"github.com/goliatone/go-viewcheck/pkg/app"
	"github.com/goliatone/go-viewcheck/pkg/compose"
	"github.com/goliatone/go-viewcheck/pkg/harness"
	"github.com/goliatone/go-viewcheck/pkg/schema"
	"github.com/goliatone/go-viewcheck/pkg/settings"
	"github.com/goliatone/go-viewcheck/pkg/strategy"
)

// FieldSpec describes one typed input field; re-exported for callers that
// build parametrizations in code.
type FieldSpec = schema.FieldSpec

// FieldType tags a FieldSpec with its registry entry.
type FieldType = schema.FieldType

// Parametrization is the full input schema of one view.
type Parametrization = schema.Parametrization

// Record is one drawn input: field name to value, groups nested.
type Record = schema.Record

// View is the unit under test.
type View = schema.View

// Settings configures an exploration run.
type Settings = settings.Settings

// Entry binds a view to its parametrization for suite runs.
type Entry = app.Entry

// Verdict is the outcome of exploring one view.
type Verdict = harness.Verdict

// Failure carries a failing view's minimal reproducer.
type Failure = harness.Failure

// Outcome classifies a single invocation.
type Outcome = harness.Outcome

// SuiteResult aggregates the verdicts of a full suite run.
type SuiteResult = harness.SuiteResult

// Absent marks an optional field omitted from a record.
var Absent = schema.Absent

// NewUserError builds the error kind views return to reject generated input
// on purpose; the classifier counts it as a controlled failure.
func NewUserError(format string, args ...any) error {
	return harness.NewUserError(format, args...)
}

// NewApp creates an empty in-process view registry.
func NewApp() *app.App {
	return app.New()
}

// Run derives generators for the parametrization, composes them, and
// explores the view with the default registry, engine, and settings.
func Run(ctx context.Context, name string, p Parametrization, view View, opts ...settings.Option) (Verdict, error) {
	fields, err := strategy.Derive(strategy.Default(), p)
	if err != nil {
		return Verdict{}, err
	}
	records, err := compose.Compose(fields)
	if err != nil {
		return Verdict{}, err
	}
	return harness.New().Run(ctx, name, view, records, opts...)
}

// RunSuite explores every view the loader yields, isolating per-view setup
// problems, and returns the aggregated result.
func RunSuite(ctx context.Context, loader app.Loader, options ...harness.SuiteOption) (SuiteResult, error) {
	return harness.NewSuite(options...).Run(ctx, loader)
}
