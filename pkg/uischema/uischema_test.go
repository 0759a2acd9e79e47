package uischema

import (
	"testing"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

func TestParseJSONAndYAML(t *testing.T) {
	jsonDoc := []byte(`{
		"hidden": ["server.internal"],
		"hiddenKeys": ["_meta"],
		"elements": {
			"server.host": {"label": "Hostname", "widget": "textarea"}
		}
	}`)
	parsed, err := Parse(jsonDoc)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if parsed.Elements["server.host"].Label != "Hostname" {
		t.Fatalf("json element missing: %+v", parsed)
	}

	yamlDoc := []byte("hidden:\n  - server.internal\nelements:\n  server.host:\n    label: Hostname\n")
	parsed, err = Parse(yamlDoc)
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if parsed.Elements["server.host"].Label != "Hostname" {
		t.Fatalf("yaml element missing: %+v", parsed)
	}

	if _, err := Parse([]byte("{: nope")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestParseSanitizesLabels(t *testing.T) {
	doc := []byte(`{"elements": {"host": {"label": "<script>x()</script>Host", "description": "<b>bold</b> text"}}}`)
	parsed, err := Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	element := parsed.Elements["host"]
	if element.Label != "Host" {
		t.Fatalf("label = %q", element.Label)
	}
	if element.Description != "bold text" {
		t.Fatalf("description = %q", element.Description)
	}
}

func TestApplyOverlaysTree(t *testing.T) {
	readOnly := true
	ui := &Schema{
		Elements: map[string]Element{
			"server.host": {Label: "Hostname", Description: "Public name"},
			"tags.[]":     {Widget: "textarea"},
			"routes.*":    {Label: "Target"},
			"id":          {ReadOnly: &readOnly},
		},
	}

	root := schema.Node{
		Type: schema.TypeObject,
		Properties: map[string]schema.Node{
			"id": {Key: "id", Keyed: true, Type: schema.TypeString, Title: "Id"},
			"server": {
				Key: "server", Keyed: true, Type: schema.TypeObject,
				Properties: map[string]schema.Node{
					"host": {Key: "host", Keyed: true, Type: schema.TypeString, Title: "Host"},
				},
			},
			"tags": {
				Key: "tags", Keyed: true, Type: schema.TypeArray,
				Items: &schema.Node{Type: schema.TypeString},
			},
			"routes": {
				Key: "routes", Keyed: true, Type: schema.TypeObject,
				Additional: &schema.Additional{Allowed: true, Schema: &schema.Node{Type: schema.TypeString}},
			},
		},
	}

	got := ui.Apply(root)

	host := got.Properties["server"].Properties["host"]
	if host.Title != "Hostname" || host.Description != "Public name" {
		t.Fatalf("host overrides missing: %+v", host)
	}
	if got.Properties["tags"].Items.Format != "textarea" {
		t.Fatalf("items widget missing: %+v", got.Properties["tags"].Items)
	}
	if got.Properties["routes"].Additional.Schema.Title != "Target" {
		t.Fatalf("map value override missing")
	}
	if !got.Properties["id"].ReadOnly {
		t.Fatalf("readOnly override missing")
	}

	// The original tree stays untouched.
	if root.Properties["server"].Properties["host"].Title != "Host" {
		t.Fatalf("apply mutated its input")
	}
}

func TestFormOptionsCarryHiding(t *testing.T) {
	ui := &Schema{Hidden: []string{"server.internal"}, HiddenKeys: []string{"_meta"}}
	if got := len(ui.FormOptions()); got != 2 {
		t.Fatalf("options = %d, want 2", got)
	}
	if got := len((&Schema{}).FormOptions()); got != 0 {
		t.Fatalf("empty schema should produce no options, got %d", got)
	}
}
