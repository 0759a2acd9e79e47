package render

import (
	"context"
	"testing"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, View, Options) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(stubRenderer{name: "html"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatalf("duplicate registration must fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("nil renderer must fail")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("unnamed renderer must fail")
	}

	renderer, err := registry.Get("html")
	if err != nil || renderer.Name() != "html" {
		t.Fatalf("Get mismatch: %v %v", renderer, err)
	}
	if _, err := registry.Get("missing"); err == nil {
		t.Fatalf("missing renderer must fail")
	}
}

func TestRegistryList(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(stubRenderer{name: "tui"})
	registry.MustRegister(stubRenderer{name: "html"})

	names := registry.List()
	if len(names) != 2 || names[0] != "html" || names[1] != "tui" {
		t.Fatalf("sorted listing mismatch: %v", names)
	}
	if !registry.Has("tui") || registry.Has("nope") {
		t.Fatalf("Has mismatch")
	}
}
