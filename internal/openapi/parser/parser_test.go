package parser

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-viewcheck/pkg/openapi"
)

func parseDocument(t *testing.T, document string) map[string]pkgopenapi.Operation {
	t.Helper()
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile("inline.json"), []byte(document))
	if err != nil {
		t.Fatalf("construct document: %v", err)
	}
	operations, err := New(pkgopenapi.NewParserOptions()).Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse operations: %v", err)
	}
	return operations
}

func TestConvertSchemaHandlesRecursiveReferences(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Cycle", "version": "1.0.0" },
  "paths": {},
  "components": {
    "schemas": {
      "PublishingHouse": {
        "type": "object",
        "properties": {
          "headquarters": { "$ref": "#/components/schemas/Headquarters" }
        }
      },
      "Headquarters": {
        "type": "object",
        "properties": {
          "publisher": { "$ref": "#/components/schemas/PublishingHouse" }
        }
      }
    }
  }
}`

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(document))
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}

	publishing := doc.Components.Schemas["PublishingHouse"]
	if publishing == nil {
		t.Fatalf("schema PublishingHouse not found")
	}
	converted := convertSchema(publishing, make(map[string]bool))

	headquarters, ok := converted.Properties["headquarters"]
	if !ok {
		t.Fatalf("expected headquarters property on PublishingHouse schema")
	}
	if headquarters.Ref == "" {
		t.Fatalf("expected headquarters property to retain its reference")
	}
	publisher, ok := headquarters.Properties["publisher"]
	if !ok {
		t.Fatalf("expected publisher property below headquarters")
	}
	if publisher.Ref == "" {
		t.Fatalf("expected publisher property to retain its reference across the cycle")
	}
}

func TestOperationsMergesAllOfSchemas(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "AllOf", "version": "1.0.0" },
  "paths": {
    "/users": {
      "post": {
        "operationId": "createUser",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "allOf": [
                  {"$ref": "#/components/schemas/BaseUser"},
                  {
                    "type": "object",
                    "required": ["email"],
                    "properties": {
                      "email": {"type": "string", "format": "email"}
                    }
                  }
                ]
              }
            }
          }
        },
        "responses": {
          "200": {"description": "ok"}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "BaseUser": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "age": {"type": "integer", "minimum": 1}
        }
      }
    }
  }
}`

	operations := parseDocument(t, document)

	op, ok := operations["createUser"]
	if !ok {
		t.Fatalf("operation createUser not found")
	}

	req := op.RequestBody
	if req.Type != "object" {
		t.Fatalf("request schema type = %q, want object", req.Type)
	}
	if len(req.Properties) != 3 {
		t.Fatalf("properties length = %d, want 3", len(req.Properties))
	}
	if _, ok := req.Properties["name"]; !ok {
		t.Fatalf("expected name property from allOf ref")
	}
	if email, ok := req.Properties["email"]; !ok || email.Format != "email" {
		t.Fatalf("expected email property with format email, got %+v", email)
	}
	if age, ok := req.Properties["age"]; !ok || age.Minimum == nil || *age.Minimum != 1 {
		t.Fatalf("expected age property with minimum 1, got %+v", age)
	}

	required := make(map[string]struct{}, len(req.Required))
	for _, name := range req.Required {
		required[name] = struct{}{}
	}
	if _, ok := required["name"]; !ok {
		t.Fatalf("required set missing name")
	}
	if _, ok := required["email"]; !ok {
		t.Fatalf("required set missing email")
	}
}

func TestOperationsExtractsConstraints(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Orders", "version": "1.0.0" },
  "paths": {
    "/orders": {
      "post": {
        "operationId": "createOrder",
        "summary": "Create an order",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["quantity", "email"],
                "properties": {
                  "quantity": {
                    "type": "integer",
                    "minimum": 2,
                    "exclusiveMinimum": true,
                    "maximum": 10,
                    "multipleOf": 2
                  },
                  "email": {
                    "type": "string",
                    "minLength": 3,
                    "maxLength": 64,
                    "pattern": "^[^@]+@[^@]+$"
                  },
                  "tags": {
                    "type": "array",
                    "minItems": 1,
                    "maxItems": 4,
                    "items": {"type": "string"}
                  },
                  "priority": {"type": "string", "enum": ["low", "high"]},
                  "address": {
                    "type": "object",
                    "properties": {"city": {"type": "string"}}
                  },
                  "discount": {
                    "type": "number",
                    "x-viewcheck": {"step": 0.25}
                  }
                }
              }
            }
          }
        },
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

	operations := parseDocument(t, document)

	op, ok := operations["createOrder"]
	if !ok {
		t.Fatalf("operation createOrder not found")
	}
	if op.Summary != "Create an order" || op.Method != "POST" || op.Path != "/orders" {
		t.Fatalf("operation metadata = %+v", op)
	}

	req := op.RequestBody
	quantity := req.Properties["quantity"]
	if *quantity.Minimum != 2 || !quantity.ExclusiveMinimum || *quantity.Maximum != 10 || *quantity.MultipleOf != 2 {
		t.Fatalf("quantity = %+v", quantity)
	}
	email := req.Properties["email"]
	if *email.MinLength != 3 || *email.MaxLength != 64 || email.Pattern != "^[^@]+@[^@]+$" {
		t.Fatalf("email = %+v", email)
	}
	tags := req.Properties["tags"]
	if *tags.MinItems != 1 || *tags.MaxItems != 4 || tags.Items == nil || tags.Items.Type != "string" {
		t.Fatalf("tags = %+v", tags)
	}
	priority := req.Properties["priority"]
	if diff := cmp.Diff([]any{"low", "high"}, priority.Enum); diff != "" {
		t.Fatalf("priority enum mismatch (-want +got):\n%s", diff)
	}
	address := req.Properties["address"]
	if address.Type != "object" || address.Properties["city"].Type != "string" {
		t.Fatalf("address = %+v", address)
	}
	discount := req.Properties["discount"]
	ext, ok := discount.Extensions[pkgopenapi.ExtensionKey].(map[string]any)
	if !ok {
		t.Fatalf("discount extensions = %+v", discount.Extensions)
	}
	if step, ok := ext["step"].(float64); !ok || step != 0.25 {
		t.Fatalf("discount step = %v", ext["step"])
	}
}

func TestOperationsFallBackToMethodPathID(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Anon", "version": "1.0.0" },
  "paths": {
    "/orders": {
      "post": {
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {"type": "object", "properties": {"n": {"type": "integer"}}}
            }
          }
        },
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

	operations := parseDocument(t, document)
	if _, ok := operations["post:/orders"]; !ok {
		t.Fatalf("fallback id missing, got %v", keys(operations))
	}
}

func TestOperationsPrefersJSONMediaType(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Media", "version": "1.0.0" },
  "paths": {
    "/notes": {
      "post": {
        "operationId": "createNote",
        "requestBody": {
          "content": {
            "text/plain": {
              "schema": {"type": "string"}
            },
            "application/json": {
              "schema": {"type": "object", "properties": {"body": {"type": "string"}}}
            }
          }
        },
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

	operations := parseDocument(t, document)
	op := operations["createNote"]
	if op.RequestBody.Type != "object" {
		t.Fatalf("request body type = %q, want object from application/json", op.RequestBody.Type)
	}
}

func TestOperationsRejectsDocumentsWithoutPaths(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Empty", "version": "1.0.0" },
  "paths": {}
}`

	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("inline.json"), []byte(document))

	if _, err := New(pkgopenapi.NewParserOptions()).Operations(context.Background(), doc); err == nil {
		t.Fatal("document without paths accepted")
	}

	partial := New(pkgopenapi.NewParserOptions(pkgopenapi.WithPartialDocuments(true)))
	operations, err := partial.Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("partial documents rejected: %v", err)
	}
	if len(operations) != 0 {
		t.Fatalf("operations = %v, want none", operations)
	}
}

func keys(operations map[string]pkgopenapi.Operation) []string {
	out := make([]string, 0, len(operations))
	for key := range operations {
		out = append(out, key)
	}
	return out
}
