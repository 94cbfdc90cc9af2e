// Package gopter adapts the leanovate/gopter property engine to the explore
// contract. Field generators feed one property argument each, so gopter's
// per-argument shrinkers minimise a counterexample field by field.
package gopter

import (
	"context"
	"fmt"
	"reflect"

	gopterlib "github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"

	"github.com/goliatone/go-viewcheck/pkg/compose"
	"github.com/goliatone/go-viewcheck/pkg/explore"
	"github.com/goliatone/go-viewcheck/pkg/settings"
)

// Engine explores records through gopter properties. The draw loop is
// single-threaded: per-field draws and the check run on one goroutine.
type Engine struct {
	maxDiscardRatio float64
}

// Option configures the engine.
type Option func(*Engine)

// WithMaxDiscardRatio overrides how many sieve rejections per successful
// draw the engine tolerates before giving up as exhausted.
func WithMaxDiscardRatio(ratio float64) Option {
	return func(e *Engine) {
		e.maxDiscardRatio = ratio
	}
}

// New creates a gopter-backed exploration engine.
func New(options ...Option) *Engine {
	e := &Engine{}
	for _, option := range options {
		if option != nil {
			option(e)
		}
	}
	return e
}

// Name identifies the engine.
func (e *Engine) Name() string { return "gopter" }

// Explore draws up to opts.MaxExamples records, checks each, and shrinks
// the first failure to a minimal counterexample. A parametrization without
// fields has exactly one point in its input space, so the check runs once.
func (e *Engine) Explore(ctx context.Context, records *compose.RecordGenerator, check explore.CheckFunc, opts settings.Settings) (explore.Result, error) {
	if records == nil {
		return explore.Result{}, fmt.Errorf("gopter: record generator is required")
	}
	if check == nil {
		return explore.Result{}, fmt.Errorf("gopter: check function is required")
	}
	if err := opts.Validate(); err != nil {
		return explore.Result{}, err
	}

	fields := records.Fields()
	if len(fields) == 0 {
		return exploreEmpty(ctx, records, check)
	}

	gens := make([]gopterlib.Gen, len(fields))
	for i, field := range fields {
		gens[i] = field.Gen
	}

	result := prop.ForAll(condition(ctx, records, check, len(fields)), gens...).Check(e.testParameters(opts))

	// Cancellation surfaces as a run error, never as a counterexample.
	if err := ctx.Err(); err != nil {
		return explore.Result{}, err
	}
	return mapResult(records, result)
}

func exploreEmpty(ctx context.Context, records *compose.RecordGenerator, check explore.CheckFunc) (explore.Result, error) {
	if err := ctx.Err(); err != nil {
		return explore.Result{}, err
	}
	record, err := records.Assemble(nil)
	if err != nil {
		return explore.Result{}, err
	}
	ok, cause := check(record)
	if ok && cause == nil {
		return explore.Result{Passed: true, Examples: 1}, nil
	}
	if cause == nil {
		cause = fmt.Errorf("gopter: check failed")
	}
	return explore.Result{
		Examples: 1,
		Counterexample: &explore.Counterexample{
			Record:   record,
			Original: record.Clone(),
			Cause:    cause,
		},
	}, nil
}

func (e *Engine) testParameters(opts settings.Settings) *gopterlib.TestParameters {
	var params *gopterlib.TestParameters
	if opts.Seed != nil {
		params = gopterlib.DefaultTestParametersWithSeed(*opts.Seed)
	} else {
		params = gopterlib.DefaultTestParameters()
	}
	params.MinSuccessfulTests = opts.MaxExamples
	if opts.MaxShrinks > 0 {
		params.MaxShrinkCount = opts.MaxShrinks
	}
	if e.maxDiscardRatio > 0 {
		params.MaxDiscardRatio = e.maxDiscardRatio
	}
	params.Workers = 1
	return params
}

// condition builds the property function gopter calls per draw. Every field
// generator contributes one untyped argument; the values assemble into a
// record before the check sees them.
func condition(ctx context.Context, records *compose.RecordGenerator, check explore.CheckFunc, arity int) interface{} {
	anyType := reflect.TypeOf((*interface{})(nil)).Elem()
	boolType := reflect.TypeOf(true)
	errType := reflect.TypeOf((*error)(nil)).Elem()

	in := make([]reflect.Type, arity)
	for i := range in {
		in[i] = anyType
	}
	fnType := reflect.FuncOf(in, []reflect.Type{boolType, errType}, false)

	return reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		if err := ctx.Err(); err != nil {
			return conditionResult(false, err)
		}
		values := make([]any, len(args))
		for i, arg := range args {
			values[i] = arg.Interface()
		}
		record, err := records.Assemble(values)
		if err != nil {
			return conditionResult(false, err)
		}
		return conditionResult(check(record))
	}).Interface()
}

func conditionResult(ok bool, err error) []reflect.Value {
	errValue := reflect.New(reflect.TypeOf((*error)(nil)).Elem()).Elem()
	if err != nil {
		errValue.Set(reflect.ValueOf(err))
	}
	return []reflect.Value{reflect.ValueOf(ok), errValue}
}

func mapResult(records *compose.RecordGenerator, result *gopterlib.TestResult) (explore.Result, error) {
	switch result.Status {
	case gopterlib.TestPassed, gopterlib.TestProved:
		return explore.Result{Passed: true, Examples: result.Succeeded}, nil
	case gopterlib.TestFailed, gopterlib.TestError:
		ce, err := counterexample(records, result)
		if err != nil {
			return explore.Result{}, err
		}
		return explore.Result{Examples: result.Succeeded, Counterexample: ce}, nil
	case gopterlib.TestExhausted:
		return explore.Result{}, fmt.Errorf("gopter: generators exhausted after %d discards, %d passed", result.Discarded, result.Succeeded)
	default:
		return explore.Result{}, fmt.Errorf("gopter: unexpected test status %v", result.Status)
	}
}

func counterexample(records *compose.RecordGenerator, result *gopterlib.TestResult) (*explore.Counterexample, error) {
	arity := len(records.Fields())
	if len(result.Args) != arity {
		return nil, fmt.Errorf("gopter: result carries %d args for %d fields", len(result.Args), arity)
	}
	shrunk := make([]any, arity)
	original := make([]any, arity)
	shrinks := 0
	for i, arg := range result.Args {
		shrunk[i] = arg.Arg
		original[i] = arg.OrigArg
		shrinks += arg.Shrinks
	}
	record, err := records.Assemble(shrunk)
	if err != nil {
		return nil, err
	}
	origRecord, err := records.Assemble(original)
	if err != nil {
		return nil, err
	}
	cause := result.Error
	if cause == nil {
		cause = fmt.Errorf("gopter: check failed")
	}
	return &explore.Counterexample{
		Record:   record,
		Original: origRecord,
		Shrinks:  shrinks,
		Cause:    cause,
	}, nil
}
