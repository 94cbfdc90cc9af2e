package harness

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/goliatone/go-viewcheck/pkg/compose"
	"github.com/goliatone/go-viewcheck/pkg/explore"
	gopterengine "github.com/goliatone/go-viewcheck/pkg/explorers/gopter"
	"github.com/goliatone/go-viewcheck/pkg/schema"
	"github.com/goliatone/go-viewcheck/pkg/settings"
)

// Invocation captures one view call and its classification.
type Invocation struct {
	Record  schema.Record
	Value   any
	Outcome Outcome
}

// Invoke runs a view once, converting panics into PanicError so a
// defective view cannot take the exploration down with it.
func Invoke(ctx context.Context, view schema.View, record schema.Record, classifier *Classifier) Invocation {
	if classifier == nil {
		classifier = NewClassifier()
	}
	var (
		value     any
		err       error
		recovered *PanicError
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				recovered = &PanicError{Value: r, Stack: debug.Stack()}
			}
		}()
		value, err = view(ctx, record)
	}()
	return Invocation{
		Record:  record,
		Value:   value,
		Outcome: classifier.Classify(err, recovered),
	}
}

// Failure is a failing exploration's reproducer: the minimal record, the
// pre-shrink original, and the defect both trigger.
type Failure struct {
	Record   schema.Record
	Original schema.Record
	Shrinks  int
	Cause    error
}

// Verdict is the outcome of exploring one view.
type Verdict struct {
	View     string
	Passing  bool
	Examples int
	Failure  *Failure
}

// Runner explores views with an engine and classifies every invocation.
type Runner struct {
	engine     explore.Engine
	classifier *Classifier
	defaults   settings.Settings
	observer   func(Invocation)
}

// Option configures a runner.
type Option func(*Runner)

// WithEngine replaces the exploration engine.
func WithEngine(engine explore.Engine) Option {
	return func(r *Runner) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithClassifier replaces the outcome classifier.
func WithClassifier(classifier *Classifier) Option {
	return func(r *Runner) {
		if classifier != nil {
			r.classifier = classifier
		}
	}
}

// WithSettings replaces the runner's base settings.
func WithSettings(base settings.Settings) Option {
	return func(r *Runner) {
		r.defaults = base.Override()
	}
}

// WithObserver registers a callback that sees every invocation, including
// the ones replayed during shrinking. Useful for progress output.
func WithObserver(observer func(Invocation)) Option {
	return func(r *Runner) {
		r.observer = observer
	}
}

// New creates a runner. Without options it uses the gopter engine, the
// default classifier and the process-wide default settings.
func New(options ...Option) *Runner {
	r := &Runner{
		classifier: NewClassifier(),
		defaults:   settings.Default(),
	}
	for _, option := range options {
		if option != nil {
			option(r)
		}
	}
	if r.engine == nil {
		r.engine = gopterengine.New()
	}
	return r
}

// Run explores one view. Successes and controlled failures count as handled
// inputs; the first unexpected failure aborts the exploration and shrinks
// to a minimal reproducer. A view that rejects every record in a controlled
// way is a passing view.
func (r *Runner) Run(ctx context.Context, name string, view schema.View, records *compose.RecordGenerator, opts ...settings.Option) (Verdict, error) {
	if view == nil {
		return Verdict{}, fmt.Errorf("harness: view is required")
	}
	if records == nil {
		return Verdict{}, fmt.Errorf("harness: record generator is required")
	}
	runSettings := r.defaults.Override(opts...)

	check := func(record schema.Record) (bool, error) {
		inv := Invoke(ctx, view, record, r.classifier)
		if r.observer != nil {
			r.observer(inv)
		}
		if inv.Outcome.Kind == OutcomeUnexpectedFailure {
			return false, inv.Outcome.Cause
		}
		return true, nil
	}

	result, err := r.engine.Explore(ctx, records, check, runSettings)
	if err != nil {
		return Verdict{}, fmt.Errorf("harness: view %q: %w", name, err)
	}

	verdict := Verdict{View: name, Passing: result.Passed, Examples: result.Examples}
	if result.Counterexample != nil {
		verdict.Failure = &Failure{
			Record:   result.Counterexample.Record,
			Original: result.Counterexample.Original,
			Shrinks:  result.Counterexample.Shrinks,
			Cause:    result.Counterexample.Cause,
		}
	}
	return verdict, nil
}
