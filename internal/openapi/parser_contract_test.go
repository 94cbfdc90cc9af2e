package openapi_test

import (
	"context"
	"path/filepath"
	"testing"

	viewcheck "github.com/goliatone/go-viewcheck"
	pkgopenapi "github.com/goliatone/go-viewcheck/pkg/openapi"
	"github.com/goliatone/go-viewcheck/pkg/testsupport"
)

func TestParserOperationsPetstore(t *testing.T) {
	ctx := context.Background()
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "petstore.yaml"))
	parser := viewcheck.NewParser()

	ops, err := parser.Operations(ctx, doc)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	if len(ops) != 3 {
		t.Fatalf("operations: got %d, want 3", len(ops))
	}

	list, ok := ops["listPets"]
	if !ok {
		t.Fatalf("listPets missing from %v", opIDs(ops))
	}
	if !list.RequestBody.IsZero() {
		t.Fatalf("listPets request body = %+v, want zero", list.RequestBody)
	}
	create, ok := ops["createPet"]
	if !ok {
		t.Fatalf("createPet missing from %v", opIDs(ops))
	}
	if create.RequestBody.Ref != "#/components/schemas/NewPet" {
		t.Fatalf("createPet body ref = %q", create.RequestBody.Ref)
	}
	if create.RequestBody.Type != "object" {
		t.Fatalf("createPet body type = %q, want object", create.RequestBody.Type)
	}
}

func TestParametrizationsPetstoreGolden(t *testing.T) {
	ctx := context.Background()
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "petstore.yaml"))

	got, err := viewcheck.Parse(ctx, doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// Bodyless operations carry nothing to generate inputs from.
	if _, ok := got["listPets"]; ok {
		t.Fatalf("listPets should not convert to a parametrization")
	}

	goldenPath := filepath.Join("testdata", "petstore_parametrizations.golden.json")
	testsupport.WriteGolden(t, goldenPath, got)
	want := testsupport.MustLoadParametrizations(t, goldenPath)

	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func opIDs(ops map[string]pkgopenapi.Operation) []string {
	ids := make([]string, 0, len(ops))
	for id := range ops {
		ids = append(ids, id)
	}
	return ids
}
