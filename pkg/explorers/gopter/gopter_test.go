package gopter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewcheck/pkg/compose"
	"github.com/goliatone/go-viewcheck/pkg/schema"
	"github.com/goliatone/go-viewcheck/pkg/settings"
	"github.com/goliatone/go-viewcheck/pkg/strategy"
)

func floatPtr(v float64) *float64 { return &v }

func recordsFor(t *testing.T, p schema.Parametrization) *compose.RecordGenerator {
	t.Helper()
	fields, err := strategy.Derive(strategy.Default(), p)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	rg, err := compose.Compose(fields)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	return rg
}

func singleInt(t *testing.T, lo, hi float64) *compose.RecordGenerator {
	t.Helper()
	return recordsFor(t, schema.Parametrization{
		Name: "single",
		Fields: []schema.FieldSpec{
			{Name: "x", Type: schema.FieldInteger, Min: floatPtr(lo), Max: floatPtr(hi)},
		},
	})
}

func TestExplorePassingProperty(t *testing.T) {
	rg := singleInt(t, 0, 1000)
	opts := settings.New(settings.WithSeed(1234), settings.WithMaxExamples(40))

	result, err := New().Explore(context.Background(), rg, func(record schema.Record) (bool, error) {
		if _, ok := record["x"].(int64); !ok {
			return false, fmt.Errorf("record misses x: %#v", record)
		}
		return true, nil
	}, opts)
	if err != nil {
		t.Fatalf("explore failed: %v", err)
	}
	if !result.Passed {
		t.Fatalf("expected passing result, got %+v", result)
	}
	if result.Examples != 40 {
		t.Fatalf("examples = %d, want 40", result.Examples)
	}
	if result.Counterexample != nil {
		t.Fatalf("passing result carries a counterexample: %+v", result.Counterexample)
	}
}

func TestExploreShrinksToBoundary(t *testing.T) {
	rg := singleInt(t, 0, 1000)
	opts := settings.New(settings.WithSeed(1234), settings.WithMaxExamples(100))

	result, err := New().Explore(context.Background(), rg, func(record schema.Record) (bool, error) {
		x := record["x"].(int64)
		if x > 100 {
			return false, fmt.Errorf("crossed the boundary at %d", x)
		}
		return true, nil
	}, opts)
	if err != nil {
		t.Fatalf("explore failed: %v", err)
	}
	if result.Passed {
		t.Fatalf("expected failing result")
	}
	ce := result.Counterexample
	if ce == nil {
		t.Fatalf("missing counterexample")
	}
	if got := ce.Record["x"]; got != int64(101) {
		t.Fatalf("minimal x = %v, want 101", got)
	}
	orig, ok := ce.Original["x"].(int64)
	if !ok || orig < 101 {
		t.Fatalf("original x = %v, want >= 101", ce.Original["x"])
	}
	if orig > 101 && ce.Shrinks == 0 {
		t.Fatalf("shrunk from %d to 101 with zero recorded shrinks", orig)
	}
	if ce.Cause == nil || !strings.Contains(ce.Cause.Error(), "crossed the boundary at 101") {
		t.Fatalf("cause does not describe the minimal record: %v", ce.Cause)
	}
}

func TestExploreDropsAbsentFieldFromCounterexample(t *testing.T) {
	rg := recordsFor(t, schema.Parametrization{
		Name: "optional",
		Fields: []schema.FieldSpec{
			{Name: "x", Type: schema.FieldInteger, Min: floatPtr(0), Max: floatPtr(9)},
			{Name: "label", Type: schema.FieldText, Optional: true},
		},
	})
	opts := settings.New(settings.WithSeed(1234), settings.WithMaxExamples(200))

	result, err := New().Explore(context.Background(), rg, func(record schema.Record) (bool, error) {
		if _, ok := record.Lookup("label"); !ok {
			return false, errors.New("label is required")
		}
		return true, nil
	}, opts)
	if err != nil {
		t.Fatalf("explore failed: %v", err)
	}
	if result.Passed {
		t.Fatalf("expected a draw with the label absent to fail")
	}
	ce := result.Counterexample
	if ce == nil {
		t.Fatalf("missing counterexample")
	}
	if value, ok := ce.Record.Lookup("label"); ok {
		t.Fatalf("counterexample still carries label %v", value)
	}
	if _, ok := ce.Record["x"].(int64); !ok {
		t.Fatalf("counterexample lost x: %#v", ce.Record)
	}
}

func TestExploreEmptyParametrizationRunsOnce(t *testing.T) {
	rg := recordsFor(t, schema.Parametrization{Name: "empty"})
	opts := settings.New(settings.WithMaxExamples(50))

	calls := 0
	result, err := New().Explore(context.Background(), rg, func(record schema.Record) (bool, error) {
		calls++
		if len(record) != 0 {
			return false, fmt.Errorf("expected empty record, got %#v", record)
		}
		return true, nil
	}, opts)
	if err != nil {
		t.Fatalf("explore failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("check ran %d times, want 1", calls)
	}
	if !result.Passed || result.Examples != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestExploreEmptyParametrizationFailure(t *testing.T) {
	rg := recordsFor(t, schema.Parametrization{Name: "empty"})
	opts := settings.New(settings.WithMaxExamples(50))

	boom := errors.New("nothing works")
	result, err := New().Explore(context.Background(), rg, func(schema.Record) (bool, error) {
		return false, boom
	}, opts)
	if err != nil {
		t.Fatalf("explore failed: %v", err)
	}
	if result.Passed || result.Counterexample == nil {
		t.Fatalf("expected counterexample, got %+v", result)
	}
	if !errors.Is(result.Counterexample.Cause, boom) {
		t.Fatalf("cause = %v, want %v", result.Counterexample.Cause, boom)
	}
	if len(result.Counterexample.Record) != 0 {
		t.Fatalf("counterexample record should be empty: %#v", result.Counterexample.Record)
	}
}

func TestExploreCancelledContext(t *testing.T) {
	rg := singleInt(t, 0, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Explore(ctx, rg, func(schema.Record) (bool, error) {
		return true, nil
	}, settings.New())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExploreCancelsMidRun(t *testing.T) {
	rg := singleInt(t, 0, 10)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := New().Explore(ctx, rg, func(schema.Record) (bool, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return true, nil
	}, settings.New(settings.WithMaxExamples(1000)))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls >= 1000 {
		t.Fatalf("cancellation did not stop the loop, ran %d checks", calls)
	}
}

func TestExploreSeedReproducesSequence(t *testing.T) {
	opts := settings.New(settings.WithSeed(7), settings.WithMaxExamples(25))

	run := func() []int64 {
		rg := singleInt(t, 0, 1000)
		var seen []int64
		_, err := New().Explore(context.Background(), rg, func(record schema.Record) (bool, error) {
			seen = append(seen, record["x"].(int64))
			return true, nil
		}, opts)
		if err != nil {
			t.Fatalf("explore failed: %v", err)
		}
		return seen
	}

	first := run()
	second := run()
	if len(first) == 0 {
		t.Fatalf("no draws recorded")
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed drew different sequences (-first +second):\n%s", diff)
	}
}

func TestExploreValidatesInputs(t *testing.T) {
	rg := singleInt(t, 0, 10)
	engine := New()

	if _, err := engine.Explore(context.Background(), nil, func(schema.Record) (bool, error) { return true, nil }, settings.New()); err == nil {
		t.Fatalf("expected error for nil record generator")
	}
	if _, err := engine.Explore(context.Background(), rg, nil, settings.New()); err == nil {
		t.Fatalf("expected error for nil check")
	}
	if _, err := engine.Explore(context.Background(), rg, func(schema.Record) (bool, error) { return true, nil }, settings.Settings{}); err == nil {
		t.Fatalf("expected error for zero-value settings")
	}
}

func TestEngineName(t *testing.T) {
	if got := New().Name(); got != "gopter" {
		t.Fatalf("engine name = %q", got)
	}
}
