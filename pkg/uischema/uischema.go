// Package uischema overlays presentation hints on a transformed schema tree.
// A UI schema is a separate document, authored next to the data schema, that
// relabels fields, hides regions and swaps widgets without touching the data
// contract.
package uischema

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Element carries per-field presentation overrides, addressed by the field's
// canonical data path ("server.host", array items as "tags.[]", map values
// as "routes.*").
type Element struct {
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Widget      string `json:"widget,omitempty" yaml:"widget,omitempty"`
	ReadOnly    *bool  `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
}

// Schema is a parsed UI schema document.
type Schema struct {
	// Hidden lists canonical data paths excluded from rendering.
	Hidden []string `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	// HiddenKeys lists property keys excluded wherever they appear.
	HiddenKeys []string `json:"hiddenKeys,omitempty" yaml:"hiddenKeys,omitempty"`
	// Elements maps canonical data paths to presentation overrides.
	Elements map[string]Element `json:"elements,omitempty" yaml:"elements,omitempty"`
}

var textPolicy = bluemonday.StrictPolicy()

// Parse decodes a UI schema document from JSON, falling back to YAML, and
// sanitizes every display string. UI schemas are often authored by
// integrators rather than the application, so labels get the same scrubbing
// schema titles do.
func Parse(raw []byte) (*Schema, error) {
	var out Schema
	if err := json.Unmarshal(raw, &out); err != nil {
		out = Schema{}
		if yamlErr := yaml.Unmarshal(raw, &out); yamlErr != nil {
			return nil, fmt.Errorf("uischema: decode document: %w", err)
		}
	}

	for path, element := range out.Elements {
		element.Label = sanitize(element.Label)
		element.Description = sanitize(element.Description)
		out.Elements[path] = element
	}
	return &out, nil
}

func sanitize(value string) string {
	if value == "" {
		return ""
	}
	return strings.TrimSpace(textPolicy.Sanitize(value))
}

// FormOptions converts the document's hiding directives into form context
// options.
func (s *Schema) FormOptions() []form.ContextOption {
	var out []form.ContextOption
	if len(s.Hidden) > 0 {
		out = append(out, form.WithHiddenPaths(s.Hidden...))
	}
	if len(s.HiddenKeys) > 0 {
		out = append(out, form.WithHiddenKeys(s.HiddenKeys...))
	}
	return out
}

// Apply overlays the element overrides onto a transformed tree, returning a
// modified copy. Unknown paths are ignored.
func (s *Schema) Apply(root schema.Node) schema.Node {
	if len(s.Elements) == 0 {
		return root
	}
	return s.applyNode(root, "")
}

func (s *Schema) applyNode(node schema.Node, path string) schema.Node {
	if path != "" {
		if element, ok := s.Elements[path]; ok {
			node = applyElement(node, element)
		}
	}

	if len(node.Properties) > 0 {
		properties := make(map[string]schema.Node, len(node.Properties))
		for key, child := range node.Properties {
			properties[key] = s.applyNode(child, joinPath(path, key))
		}
		node.Properties = properties
	}
	if node.Items != nil {
		item := s.applyNode(*node.Items, joinPath(path, "[]"))
		node.Items = &item
	}
	if len(node.PrefixItems) > 0 {
		slots := make([]schema.Node, len(node.PrefixItems))
		for i, child := range node.PrefixItems {
			slots[i] = s.applyNode(child, joinPath(path, fmt.Sprintf("%d", i)))
		}
		node.PrefixItems = slots
	}
	if node.IsMap() {
		value := s.applyNode(*node.Additional.Schema, joinPath(path, "*"))
		node.Additional = &schema.Additional{Allowed: node.Additional.Allowed, Schema: &value}
	}
	if len(node.OneOf) > 0 {
		branches := make([]schema.Node, len(node.OneOf))
		for i, branch := range node.OneOf {
			branches[i] = s.applyNode(branch, joinPath(path, fmt.Sprintf("%d", i)))
		}
		node.OneOf = branches
	}
	return node
}

func applyElement(node schema.Node, element Element) schema.Node {
	if element.Label != "" {
		node.Title = element.Label
	}
	if element.Description != "" {
		node.Description = element.Description
	}
	if element.Widget != "" {
		// Renderers read widget hints off the format facet.
		node.Format = element.Widget
	}
	if element.ReadOnly != nil {
		node.ReadOnly = *element.ReadOnly
	}
	return node
}

func joinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "." + segment
}
