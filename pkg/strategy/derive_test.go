package strategy

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"

	"github.com/goliatone/go-viewcheck/pkg/schema"
)

func TestDeriveFlattensGroups(t *testing.T) {
	p := schema.Parametrization{
		Name: "checkout",
		Fields: []schema.FieldSpec{
			{Name: "quantity", Type: schema.FieldInteger, Min: floatPtr(0), Max: floatPtr(10)},
			{Name: "address", Type: schema.FieldGroup, Fields: []schema.FieldSpec{
				{Name: "city", Type: schema.FieldText},
				{Name: "geo", Type: schema.FieldGroup, Fields: []schema.FieldSpec{
					{Name: "lat", Type: schema.FieldNumber, Min: floatPtr(-90), Max: floatPtr(90)},
				}},
			}},
			{Name: "confirmed", Type: schema.FieldBoolean},
		},
	}

	fields, err := Derive(Default(), p)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}

	paths := make([]string, len(fields))
	for i, field := range fields {
		if field.Gen == nil {
			t.Fatalf("field %q derived without a generator", field.Path)
		}
		paths[i] = field.Path
	}
	want := []string{"quantity", "address.city", "address.geo.lat", "confirmed"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveWrapsOptionalFields(t *testing.T) {
	p := schema.Parametrization{
		Name: "form",
		Fields: []schema.FieldSpec{
			{Name: "note", Type: schema.FieldBoolean, Optional: true},
		},
	}
	fields, err := Derive(Default(), p)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}

	params := gopter.DefaultGenParameters().CloneWithSeed(1234)
	absent := false
	concrete := false
	for i := 0; i < 200 && !(absent && concrete); i++ {
		value, ok := fields[0].Gen(params).Retrieve()
		if !ok {
			continue
		}
		switch value.(type) {
		case schema.AbsentValue:
			absent = true
		case bool:
			concrete = true
		default:
			t.Fatalf("unexpected draw %T", value)
		}
	}
	if !absent || !concrete {
		t.Fatalf("optional field never drew both kinds: absent=%v concrete=%v", absent, concrete)
	}
}

func TestDeriveFailsFastOnUnsupportedType(t *testing.T) {
	p := schema.Parametrization{
		Name: "upload",
		Fields: []schema.FieldSpec{
			{Name: "title", Type: schema.FieldText},
			{Name: "uploads", Type: schema.FieldGroup, Fields: []schema.FieldSpec{
				{Name: "attachment", Type: schema.FieldFile},
			}},
		},
	}
	_, err := Derive(Default(), p)
	var unsupported *UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
	if unsupported.Path != "uploads.attachment" {
		t.Fatalf("error path = %q, want %q", unsupported.Path, "uploads.attachment")
	}
	if unsupported.Type != schema.FieldFile {
		t.Fatalf("error type = %q, want %q", unsupported.Type, schema.FieldFile)
	}
}

func TestDeriveFailsFastOnUnknownType(t *testing.T) {
	p := schema.Parametrization{
		Name: "form",
		Fields: []schema.FieldSpec{
			{Name: "when", Type: "daterange"},
		},
	}
	_, err := Derive(Default(), p)
	var unsupported *UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
	if unsupported.Path != "when" {
		t.Fatalf("error path = %q, want %q", unsupported.Path, "when")
	}
}

func TestDeriveFailsFastOnInvalidConstraints(t *testing.T) {
	p := schema.Parametrization{
		Name: "form",
		Fields: []schema.FieldSpec{
			{Name: "color", Type: schema.FieldOption},
		},
	}
	_, err := Derive(Default(), p)
	var invalid *InvalidConstraintError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConstraintError, got %v", err)
	}
	if invalid.Path != "color" {
		t.Fatalf("error path = %q, want %q", invalid.Path, "color")
	}
}

func TestDeriveTableColumnErrorPath(t *testing.T) {
	p := schema.Parametrization{
		Name: "orders",
		Fields: []schema.FieldSpec{
			{Name: "lines", Type: schema.FieldTable, Fields: []schema.FieldSpec{
				{Name: "doc", Type: schema.FieldFile},
			}},
		},
	}
	_, err := Derive(Default(), p)
	var unsupported *UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
	if unsupported.Path != "lines.doc" {
		t.Fatalf("error path = %q, want %q", unsupported.Path, "lines.doc")
	}
}

func TestDeriveValidatesParametrization(t *testing.T) {
	p := schema.Parametrization{
		Name: "dup",
		Fields: []schema.FieldSpec{
			{Name: "a", Type: schema.FieldBoolean},
			{Name: "a", Type: schema.FieldBoolean},
		},
	}
	if _, err := Derive(Default(), p); err == nil {
		t.Fatalf("expected validation error for duplicate paths")
	}
}

func TestDeriveRequiresRegistry(t *testing.T) {
	if _, err := Derive(nil, schema.Parametrization{Name: "x"}); err == nil {
		t.Fatalf("expected error for nil registry")
	}
}

func TestDeriveEmptyParametrization(t *testing.T) {
	fields, err := Derive(Default(), schema.Parametrization{Name: "empty"})
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	if len(fields) != 0 {
		t.Fatalf("expected no field generators, got %d", len(fields))
	}
}
