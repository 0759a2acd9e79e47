package jsonschema

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Decode parses a document payload into a generic object tree. JSON is tried
// first unless the source location carries a YAML extension; YAML is the
// fallback either way so callers can feed both formats through one path.
func Decode(doc schema.Document) (map[string]any, error) {
	raw := doc.Raw()
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("jsonschema: document %s is empty", doc.Location())
	}

	if looksLikeYAML(doc.Location()) {
		return decodeYAML(doc, raw)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return decodeYAML(doc, raw)
	}
	return payload, nil
}

func decodeYAML(doc schema.Document, raw []byte) (map[string]any, error) {
	var payload map[string]any
	if err := yaml.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("jsonschema: decode %s: %w", doc.Location(), err)
	}
	return payload, nil
}

func looksLikeYAML(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
