// Package compose turns per-field generators into whole-record generators.
// Field values are always drawn independently and assembled afterwards; the
// joint space is the product of the per-field spaces and no generator ever
// observes another's drawn value.
package compose

import (
	"fmt"

	"github.com/leanovate/gopter"

	"github.com/goliatone/go-viewcheck/pkg/schema"
	"github.com/goliatone/go-viewcheck/pkg/strategy"
)

// RecordGenerator assembles independently drawn field values into nested
// input records.
type RecordGenerator struct {
	fields []strategy.FieldGenerator
}

// Compose builds a record generator from derived field generators. Paths
// must be unique and every field needs a generator.
func Compose(fields []strategy.FieldGenerator) (*RecordGenerator, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if field.Path == "" {
			return nil, fmt.Errorf("compose: field generator without a path")
		}
		if field.Gen == nil {
			return nil, fmt.Errorf("compose: field %q has no generator", field.Path)
		}
		if _, dup := seen[field.Path]; dup {
			return nil, fmt.Errorf("compose: duplicate field path %q", field.Path)
		}
		seen[field.Path] = struct{}{}
	}
	return &RecordGenerator{fields: append([]strategy.FieldGenerator(nil), fields...)}, nil
}

// Fields returns a copy of the composed field generators in declaration
// order.
func (rg *RecordGenerator) Fields() []strategy.FieldGenerator {
	return append([]strategy.FieldGenerator(nil), rg.fields...)
}

// Assemble builds a record from one drawn value per field, in field order.
// Absent markers are stripped so a view observes a missing key exactly as a
// user-left-blank field; dotted paths nest back into group records.
func (rg *RecordGenerator) Assemble(values []any) (schema.Record, error) {
	if len(values) != len(rg.fields) {
		return nil, fmt.Errorf("compose: got %d values for %d fields", len(values), len(rg.fields))
	}
	return rg.assemble(values), nil
}

func (rg *RecordGenerator) assemble(values []interface{}) schema.Record {
	flat := make(map[string]any, len(values))
	for i, value := range values {
		if _, absent := value.(schema.AbsentValue); absent {
			continue
		}
		flat[rg.fields[i].Path] = value
	}
	return schema.Unflatten(flat)
}

// Gen returns a generator for whole records. The exploration engine drives
// the per-field generators directly so counterexamples shrink per field;
// this joint generator serves sampling and tooling, where shrinking does
// not matter.
func (rg *RecordGenerator) Gen() gopter.Gen {
	gens := make([]gopter.Gen, len(rg.fields))
	for i, field := range rg.fields {
		gens[i] = field.Gen
	}
	return gopter.CombineGens(gens...).Map(func(drawn []interface{}) schema.Record {
		return rg.assemble(drawn)
	})
}

// Draw samples a single record with a fixed seed.
func (rg *RecordGenerator) Draw(seed int64) (schema.Record, error) {
	records, err := rg.Samples(1, seed)
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

// Samples draws n records from one seeded sequence. Draws a value sieve
// rejects are retried; a generator that rejects nearly everything is
// reported instead of spinning.
func (rg *RecordGenerator) Samples(n int, seed int64) ([]schema.Record, error) {
	if n <= 0 {
		return nil, fmt.Errorf("compose: sample count must be positive, got %d", n)
	}
	params := gopter.DefaultGenParameters().CloneWithSeed(seed)
	g := rg.Gen()
	out := make([]schema.Record, 0, n)
	for attempts := 10*n + 100; len(out) < n && attempts > 0; attempts-- {
		value, ok := g(params).Retrieve()
		if !ok {
			continue
		}
		record, ok := value.(schema.Record)
		if !ok {
			return nil, fmt.Errorf("compose: draw produced %T, want a record", value)
		}
		out = append(out, record)
	}
	if len(out) < n {
		return nil, fmt.Errorf("compose: generator rejected too many draws, produced %d of %d", len(out), n)
	}
	return out, nil
}
