// Package openapi extracts request-body schemas from OpenAPI 3 documents so
// operations can be rendered as forms through the regular schema pipeline.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Options configures document parsing.
type Options struct {
	// ResolveReferences validates the document and resolves component refs.
	ResolveReferences bool
	// AllowPartialDocuments tolerates specs without paths or operations.
	AllowPartialDocuments bool
}

// Extractor parses OpenAPI documents with kin-openapi and exposes each
// operation's request schema as a plain object tree.
type Extractor struct {
	options Options
}

// NewExtractor constructs an Extractor with the given options.
func NewExtractor(options Options) *Extractor {
	return &Extractor{options: options}
}

// mediaTypePreference orders the content types worth rendering as a form.
var mediaTypePreference = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// RequestSchemas returns the request-body schema payload per operation,
// keyed by operationId (or "method:path" when the spec omits one).
func (e *Extractor) RequestSchemas(ctx context.Context, data []byte) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: e.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if e.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	if spec.Paths == nil || spec.Paths.Len() == 0 {
		if e.options.AllowPartialDocuments {
			return map[string]map[string]any{}, nil
		}
		return nil, errors.New("openapi: document does not contain any paths")
	}

	schemas := make(map[string]map[string]any)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		methods := map[string]*openapi3.Operation{
			"PUT":   item.Put,
			"POST":  item.Post,
			"PATCH": item.Patch,
		}
		for method, operation := range methods {
			if operation == nil {
				continue
			}
			payload := requestSchema(operation.RequestBody)
			if payload == nil {
				continue
			}
			id := operation.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			schemas[id] = payload
		}
	}

	if len(schemas) == 0 && !e.options.AllowPartialDocuments {
		return nil, errors.New("openapi: no form-renderable operations found")
	}
	return schemas, nil
}

// RequestSchema returns the request-body schema for a single operation.
func (e *Extractor) RequestSchema(ctx context.Context, data []byte, operationID string) (map[string]any, error) {
	schemas, err := e.RequestSchemas(ctx, data)
	if err != nil {
		return nil, err
	}
	payload, ok := schemas[operationID]
	if !ok {
		return nil, fmt.Errorf("openapi: operation %q has no request schema", operationID)
	}
	return payload, nil
}

func requestSchema(body *openapi3.RequestBodyRef) map[string]any {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range mediaTypePreference {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return schemaPayload(mt.Schema)
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return schemaPayload(mt.Schema)
		}
	}
	return nil
}

// schemaPayload converts a kin-openapi schema into the generic object tree
// the transformer consumes.
func schemaPayload(ref *openapi3.SchemaRef) map[string]any {
	if ref == nil || ref.Value == nil {
		return nil
	}
	src := ref.Value

	payload := map[string]any{}
	if kind := firstSchemaType(src.Type); kind != "" {
		payload["type"] = kind
	}
	if src.Title != "" {
		payload["title"] = src.Title
	}
	if src.Description != "" {
		payload["description"] = src.Description
	}
	if src.Format != "" {
		payload["format"] = src.Format
	}
	if src.Default != nil {
		payload["default"] = src.Default
	}
	if src.Pattern != "" {
		payload["pattern"] = src.Pattern
	}
	if src.ReadOnly {
		payload["readOnly"] = true
	}
	if len(src.Enum) > 0 {
		payload["enum"] = append([]any(nil), src.Enum...)
	}
	if len(src.Required) > 0 {
		required := make([]any, 0, len(src.Required))
		for _, name := range src.Required {
			required = append(required, name)
		}
		payload["required"] = required
	}
	if src.Min != nil {
		payload["minimum"] = *src.Min
	}
	if src.Max != nil {
		payload["maximum"] = *src.Max
	}
	if src.MinLength > 0 {
		payload["minLength"] = int(src.MinLength)
	}
	if src.MaxLength != nil {
		payload["maxLength"] = int(*src.MaxLength)
	}

	if len(src.Properties) > 0 {
		properties := make(map[string]any, len(src.Properties))
		for name, property := range src.Properties {
			if child := schemaPayload(property); child != nil {
				properties[name] = child
			}
		}
		payload["properties"] = properties
	}
	if src.Items != nil {
		if items := schemaPayload(src.Items); items != nil {
			payload["items"] = items
		}
	}
	if src.AdditionalProperties.Schema != nil {
		if additional := schemaPayload(src.AdditionalProperties.Schema); additional != nil {
			payload["additionalProperties"] = additional
		}
	} else if src.AdditionalProperties.Has != nil {
		payload["additionalProperties"] = *src.AdditionalProperties.Has
	}
	for keyword, refs := range map[string]openapi3.SchemaRefs{
		"oneOf": src.OneOf,
		"anyOf": src.AnyOf,
		"allOf": src.AllOf,
	} {
		if len(refs) == 0 {
			continue
		}
		branches := make([]any, 0, len(refs))
		for _, branch := range refs {
			if child := schemaPayload(branch); child != nil {
				branches = append(branches, child)
			}
		}
		if len(branches) > 0 {
			payload[keyword] = branches
		}
	}

	return payload
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil || len(*types) == 0 {
		return ""
	}
	return (*types)[0]
}
