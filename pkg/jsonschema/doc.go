// Package jsonschema loads raw JSON Schema documents, decodes JSON or YAML
// payloads, and expands local $ref pointers so the schema transformer can
// operate on a self-contained object tree.
package jsonschema
