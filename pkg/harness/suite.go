package harness

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-viewcheck/pkg/app"
	"github.com/goliatone/go-viewcheck/pkg/compose"
	"github.com/goliatone/go-viewcheck/pkg/strategy"
)

// SetupError reports a view that never reached a verdict, typically because
// its parametrization could not be derived.
type SetupError struct {
	View string
	Err  error
}

func (e SetupError) Error() string {
	return fmt.Sprintf("harness: view %q setup: %v", e.View, e.Err)
}

func (e SetupError) Unwrap() error { return e.Err }

// SuiteResult aggregates a full suite run.
type SuiteResult struct {
	Verdicts []Verdict
	Setup    []SetupError
}

// Passing reports whether every view reached a passing verdict.
func (r SuiteResult) Passing() bool {
	if len(r.Setup) > 0 {
		return false
	}
	for _, verdict := range r.Verdicts {
		if !verdict.Passing {
			return false
		}
	}
	return true
}

// Failures returns the failing verdicts in order.
func (r SuiteResult) Failures() []Verdict {
	var out []Verdict
	for _, verdict := range r.Verdicts {
		if !verdict.Passing {
			out = append(out, verdict)
		}
	}
	return out
}

// Suite explores every view a loader yields and aggregates the verdicts.
type Suite struct {
	runner   *Runner
	registry *strategy.Registry
}

// SuiteOption configures a suite.
type SuiteOption func(*Suite)

// WithRunner replaces the per-view runner.
func WithRunner(runner *Runner) SuiteOption {
	return func(s *Suite) {
		if runner != nil {
			s.runner = runner
		}
	}
}

// WithRegistry replaces the field-type registry used for derivation.
func WithRegistry(registry *strategy.Registry) SuiteOption {
	return func(s *Suite) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// NewSuite creates a suite around the default runner and registry.
func NewSuite(options ...SuiteOption) *Suite {
	s := &Suite{}
	for _, option := range options {
		if option != nil {
			option(s)
		}
	}
	if s.runner == nil {
		s.runner = New()
	}
	if s.registry == nil {
		s.registry = strategy.Default()
	}
	return s
}

// Run explores all views in name order. Problems are isolated per view: a
// broken parametrization lands in Setup and never stops the rest of the
// suite. Only cancellation aborts the whole run.
func (s *Suite) Run(ctx context.Context, loader app.Loader) (SuiteResult, error) {
	if loader == nil {
		return SuiteResult{}, fmt.Errorf("harness: loader is required")
	}
	entries, err := loader.Load(ctx)
	if err != nil {
		return SuiteResult{}, fmt.Errorf("harness: load views: %w", err)
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var result SuiteResult
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return SuiteResult{}, err
		}
		entry := entries[name]

		fields, err := strategy.Derive(s.registry, entry.Parametrization)
		if err != nil {
			result.Setup = append(result.Setup, SetupError{View: name, Err: err})
			continue
		}
		records, err := compose.Compose(fields)
		if err != nil {
			result.Setup = append(result.Setup, SetupError{View: name, Err: err})
			continue
		}

		verdict, err := s.runner.Run(ctx, name, entry.View, records, entry.Options...)
		if err != nil {
			if ctx.Err() != nil {
				return SuiteResult{}, err
			}
			result.Setup = append(result.Setup, SetupError{View: name, Err: err})
			continue
		}
		result.Verdicts = append(result.Verdicts, verdict)
	}
	return result, nil
}
