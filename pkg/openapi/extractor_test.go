package openapi

import (
	"context"
	"testing"
)

const sampleSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Pets", "version": "1.0.0"},
  "paths": {
    "/pets": {
      "post": {
        "operationId": "createPet",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["name"],
                "properties": {
                  "name": {"type": "string", "minLength": 1},
                  "age": {"type": "integer", "minimum": 0},
                  "tags": {
                    "type": "array",
                    "items": {"type": "string"}
                  }
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      },
      "get": {
        "operationId": "listPets",
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

func TestRequestSchemasExtractsJSONBody(t *testing.T) {
	extractor := NewExtractor(Options{})

	schemas, err := extractor.RequestSchemas(context.Background(), []byte(sampleSpec))
	if err != nil {
		t.Fatalf("RequestSchemas: %v", err)
	}
	if len(schemas) != 1 {
		t.Fatalf("only body-carrying operations should appear, got %v", schemas)
	}

	payload, ok := schemas["createPet"]
	if !ok {
		t.Fatalf("createPet missing: %v", schemas)
	}
	if payload["type"] != "object" {
		t.Fatalf("type mismatch: %v", payload["type"])
	}
	required, ok := payload["required"].([]any)
	if !ok || len(required) != 1 || required[0] != "name" {
		t.Fatalf("required mismatch: %v", payload["required"])
	}

	props := payload["properties"].(map[string]any)
	name := props["name"].(map[string]any)
	if name["minLength"] != 1 {
		t.Fatalf("minLength mismatch: %v", name["minLength"])
	}
	age := props["age"].(map[string]any)
	if age["minimum"] != float64(0) {
		t.Fatalf("minimum mismatch: %v", age["minimum"])
	}
	tags := props["tags"].(map[string]any)
	items := tags["items"].(map[string]any)
	if items["type"] != "string" {
		t.Fatalf("items mismatch: %v", items)
	}
}

func TestRequestSchemaByOperationID(t *testing.T) {
	extractor := NewExtractor(Options{})

	if _, err := extractor.RequestSchema(context.Background(), []byte(sampleSpec), "createPet"); err != nil {
		t.Fatalf("RequestSchema: %v", err)
	}
	if _, err := extractor.RequestSchema(context.Background(), []byte(sampleSpec), "listPets"); err == nil {
		t.Fatalf("bodyless operation should report no request schema")
	}
}

func TestRequestSchemasRejectsEmptySpecs(t *testing.T) {
	extractor := NewExtractor(Options{})
	if _, err := extractor.RequestSchemas(context.Background(), nil); err == nil {
		t.Fatalf("empty payload must fail")
	}

	empty := `{"openapi":"3.0.3","info":{"title":"t","version":"1"},"paths":{}}`
	if _, err := extractor.RequestSchemas(context.Background(), []byte(empty)); err == nil {
		t.Fatalf("pathless spec must fail by default")
	}

	tolerant := NewExtractor(Options{AllowPartialDocuments: true})
	schemas, err := tolerant.RequestSchemas(context.Background(), []byte(empty))
	if err != nil {
		t.Fatalf("partial documents should be tolerated: %v", err)
	}
	if len(schemas) != 0 {
		t.Fatalf("expected no operations, got %v", schemas)
	}
}
