package gotemplate

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestRenderTemplateFromFS(t *testing.T) {
	files := fstest.MapFS{
		"greeting.html": &fstest.MapFile{Data: []byte("Hello {{ name }}!")},
	}
	engine, err := New(WithFS(files))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := engine.RenderTemplate("greeting", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if got != "Hello Ada!" {
		t.Fatalf("output mismatch: %q", got)
	}
}

func TestRenderDetectsInlineContent(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := engine.Render("{{ value }}", map[string]any{"value": 42})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "42" {
		t.Fatalf("inline output mismatch: %q", got)
	}
}

func TestGlobalContextAvailableEverywhere(t *testing.T) {
	engine, err := New(
		WithFS(fstest.MapFS{"page.html": &fstest.MapFile{Data: []byte("{{ brand }}")}}),
		WithGlobalData(map[string]any{"brand": "acme"}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := engine.RenderTemplate("page", nil)
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if got != "acme" {
		t.Fatalf("global data missing: %q", got)
	}
}

func TestNewRequiresATemplateSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected configuration error")
	}
}

func TestRenderTemplateMissingFile(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.RenderTemplate("absent", nil); err == nil {
		t.Fatalf("expected load error")
	} else if !strings.Contains(err.Error(), "absent") {
		t.Fatalf("error should name the template: %v", err)
	}
}
