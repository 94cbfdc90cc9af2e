// Package explore defines the engine contract for property-based input
// exploration. Engines own the draw loop and the shrink search; callers
// supply a check function that judges one record at a time.
package explore

import (
	"context"

	"github.com/goliatone/go-viewcheck/pkg/compose"
	"github.com/goliatone/go-viewcheck/pkg/schema"
	"github.com/goliatone/go-viewcheck/pkg/settings"
)

// CheckFunc evaluates one generated record. Returning false or an error
// marks the record a counterexample and starts the shrink search.
type CheckFunc func(record schema.Record) (bool, error)

// Counterexample is the failing input an exploration ends on.
type Counterexample struct {
	// Record is the shrunk, minimal failing input.
	Record schema.Record
	// Original is the first failing input before shrinking.
	Original schema.Record
	// Shrinks counts the shrink steps between Original and Record.
	Shrinks int
	// Cause is the error the check reported for Record.
	Cause error
}

// Result summarises one exploration run. Passed and Counterexample are
// mutually exclusive; an engine error yields neither.
type Result struct {
	Passed         bool
	Examples       int
	Counterexample *Counterexample
}

// Engine drives repeated record draws against a check.
type Engine interface {
	Name() string
	Explore(ctx context.Context, records *compose.RecordGenerator, check CheckFunc, opts settings.Settings) (Result, error)
}
