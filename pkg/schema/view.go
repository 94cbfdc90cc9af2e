package schema

import "context"

// View is a unit under test. It receives a generated record and either
// returns a result, fails in a controlled way by returning an error the
// harness recognises, or fails unexpectedly by returning any other error or
// panicking.
type View func(ctx context.Context, params Record) (any, error)
