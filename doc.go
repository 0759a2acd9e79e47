// Package schemaform turns JSON Schema documents into interactive,
// data-bound forms. The pipeline loads a schema from a file, fs.FS or URL,
// resolves local $ref pointers, transforms the payload into a normalized node
// tree, generates initial data, and binds both to a reactive store behind a
// render context. Renderers (HTML documents, terminal prompt sessions) and
// external validators plug into that context without knowing about each
// other.
package schemaform
