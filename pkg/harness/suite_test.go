package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewcheck/pkg/app"
	"github.com/goliatone/go-viewcheck/pkg/schema"
	"github.com/goliatone/go-viewcheck/pkg/settings"
	"github.com/goliatone/go-viewcheck/pkg/strategy"
)

func intField(name string, lo, hi float64) schema.FieldSpec {
	return schema.FieldSpec{Name: name, Type: schema.FieldInteger, Min: floatPtr(lo), Max: floatPtr(hi)}
}

func TestSuiteIsolatesBrokenViews(t *testing.T) {
	views := app.New()
	views.MustRegister("alpha", app.Entry{
		Parametrization: schema.Parametrization{Fields: []schema.FieldSpec{intField("n", 0, 9)}},
		View: func(ctx context.Context, params schema.Record) (any, error) {
			return params["n"], nil
		},
		Options: []settings.Option{settings.WithMaxExamples(20), settings.WithSeed(1)},
	})
	views.MustRegister("zulu", app.Entry{
		Parametrization: schema.Parametrization{Fields: []schema.FieldSpec{intField("x", 0, 10)}},
		View: func(ctx context.Context, params schema.Record) (any, error) {
			if params["x"].(int64) > 3 {
				return nil, errors.New("arithmetic went sideways")
			}
			return nil, nil
		},
		Options: []settings.Option{settings.WithMaxExamples(50), settings.WithSeed(9)},
	})
	views.MustRegister("broken", app.Entry{
		Parametrization: schema.Parametrization{Fields: []schema.FieldSpec{{Name: "upload", Type: schema.FieldFile}}},
		View: func(ctx context.Context, params schema.Record) (any, error) {
			return nil, nil
		},
	})

	result, err := NewSuite().Run(context.Background(), views)
	if err != nil {
		t.Fatalf("suite run: %v", err)
	}

	var names []string
	for _, verdict := range result.Verdicts {
		names = append(names, verdict.View)
	}
	if diff := cmp.Diff([]string{"alpha", "zulu"}, names); diff != "" {
		t.Fatalf("verdict order mismatch (-want +got):\n%s", diff)
	}

	if len(result.Setup) != 1 || result.Setup[0].View != "broken" {
		t.Fatalf("setup errors = %+v", result.Setup)
	}
	var unsupported *strategy.UnsupportedTypeError
	if !errors.As(result.Setup[0], &unsupported) {
		t.Fatalf("setup error chain missing unsupported type: %v", result.Setup[0])
	}
	if unsupported.Type != schema.FieldFile || unsupported.Path != "upload" {
		t.Fatalf("unsupported = %+v", unsupported)
	}

	if result.Passing() {
		t.Fatal("suite with a broken and a failing view reported passing")
	}
	failures := result.Failures()
	if len(failures) != 1 || failures[0].View != "zulu" {
		t.Fatalf("failures = %+v", failures)
	}
	if got := failures[0].Failure.Record["x"]; got != int64(4) {
		t.Fatalf("shrunk x = %v, want 4", got)
	}

	if result.Verdicts[0].Examples != 20 {
		t.Fatalf("alpha examples = %d, want per-view override 20", result.Verdicts[0].Examples)
	}
}

func TestSuiteAllPassing(t *testing.T) {
	views := app.New()
	views.MustRegister("accept", app.Entry{
		Parametrization: schema.Parametrization{Fields: []schema.FieldSpec{intField("n", 0, 5)}},
		View: func(ctx context.Context, params schema.Record) (any, error) {
			return params["n"], nil
		},
		Options: []settings.Option{settings.WithMaxExamples(7), settings.WithSeed(2)},
	})
	views.MustRegister("reject", app.Entry{
		Parametrization: schema.Parametrization{Fields: []schema.FieldSpec{intField("n", 0, 5)}},
		View: func(ctx context.Context, params schema.Record) (any, error) {
			return nil, NewUserError("not today")
		},
		Options: []settings.Option{settings.WithMaxExamples(7), settings.WithSeed(2)},
	})

	result, err := NewSuite().Run(context.Background(), views)
	if err != nil {
		t.Fatalf("suite run: %v", err)
	}
	if !result.Passing() {
		t.Fatalf("suite not passing: %+v", result)
	}
	if len(result.Failures()) != 0 {
		t.Fatalf("failures = %+v", result.Failures())
	}
	for _, verdict := range result.Verdicts {
		if verdict.Examples != 7 {
			t.Fatalf("view %q ran %d examples, want 7", verdict.View, verdict.Examples)
		}
	}
}

func TestSuiteCustomRunnerAndRegistry(t *testing.T) {
	registry := strategy.NewRegistry()
	registry.MustRegister(schema.FieldInteger, strategy.IntegerConstructor)

	var seen int
	runner := New(WithObserver(func(Invocation) { seen++ }))

	views := app.New()
	views.MustRegister("count", app.Entry{
		Parametrization: schema.Parametrization{Fields: []schema.FieldSpec{intField("n", 0, 3)}},
		View: func(ctx context.Context, params schema.Record) (any, error) {
			return nil, nil
		},
		Options: []settings.Option{settings.WithMaxExamples(4), settings.WithSeed(3)},
	})

	result, err := NewSuite(WithRunner(runner), WithRegistry(registry)).Run(context.Background(), views)
	if err != nil {
		t.Fatalf("suite run: %v", err)
	}
	if !result.Passing() {
		t.Fatalf("suite not passing: %+v", result)
	}
	if seen != 4 {
		t.Fatalf("observer saw %d invocations, want 4", seen)
	}
}

func TestSuiteRequiresLoader(t *testing.T) {
	if _, err := NewSuite().Run(context.Background(), nil); err == nil {
		t.Fatal("nil loader accepted")
	}
}

func TestSuiteCancelledContext(t *testing.T) {
	views := app.New()
	views.MustRegister("idle", app.Entry{
		Parametrization: schema.Parametrization{Fields: []schema.FieldSpec{intField("n", 0, 3)}},
		View: func(ctx context.Context, params schema.Record) (any, error) {
			return nil, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewSuite().Run(ctx, views); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
