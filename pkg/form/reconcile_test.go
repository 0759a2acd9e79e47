package form

import (
	"testing"

	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
)

// recordingSurface captures surface calls for assertions.
type recordingSurface struct {
	mounted   []string
	removed   []string
	invalid   map[string]string
	formLevel []string
}

func (s *recordingSurface) Mount(_ schema.Node, identifier string, _ store.Path) error {
	s.mounted = append(s.mounted, identifier)
	return nil
}

func (s *recordingSurface) Remove(identifier string) {
	s.removed = append(s.removed, identifier)
}

func (s *recordingSurface) MarkInvalid(identifier, message string) {
	if s.invalid == nil {
		s.invalid = make(map[string]string)
	}
	s.invalid[identifier] = message
}

func (s *recordingSurface) ClearInvalid() {
	s.invalid = nil
}

func (s *recordingSurface) SetFormErrors(messages []string) {
	s.formLevel = messages
}

func (s *recordingSurface) mountedOnce(identifier string) bool {
	count := 0
	for _, id := range s.mounted {
		if id == identifier {
			count++
		}
	}
	return count == 1
}

func transform(t *testing.T, raw map[string]any) schema.Node {
	t.Helper()
	return schema.NewTransformer().Transform(raw)
}

func newTestContext(t *testing.T, raw map[string]any, options ...ContextOption) (*Context, *recordingSurface) {
	t.Helper()
	root := transform(t, raw)
	st := store.New(schema.Default(root))
	surface := &recordingSurface{}
	ctx, err := NewContext(st, root, append([]ContextOption{WithSurface(surface)}, options...)...)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	if err := ctx.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	return ctx, surface
}

func TestReconcileRegistersIdentifiersAndPaths(t *testing.T) {
	ctx, surface := newTestContext(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"server": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"host": map[string]any{"type": "string"},
				},
			},
		},
	})

	if _, ok := ctx.Node("root.server.host"); !ok {
		t.Fatalf("expected root.server.host to be registered")
	}
	path, ok := ctx.PathFor("root.server.host")
	if !ok || path.String() != "server.host" {
		t.Fatalf("data path mismatch: %q %v", path.String(), ok)
	}
	if id, ok := ctx.IdentifierFor(path); !ok || id != "root.server.host" {
		t.Fatalf("inverse lookup mismatch: %q %v", id, ok)
	}
	if !surface.mountedOnce("root.server.host") {
		t.Fatalf("host mounted wrong number of times: %v", surface.mounted)
	}
}

func TestReconcileRootIdentifierFallbacks(t *testing.T) {
	titled := transform(t, map[string]any{"type": "object", "title": "App Config"})
	ctx, err := NewContext(store.New(map[string]any{}), titled)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	if got := ctx.rootIdentifier(); got != "app_config" {
		t.Fatalf("titled root identifier mismatch: %q", got)
	}

	bare, err := NewContext(store.New(map[string]any{}), schema.Node{Type: schema.TypeObject})
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	if got := bare.rootIdentifier(); got != "root" {
		t.Fatalf("bare root identifier mismatch: %q", got)
	}
}

func TestReconcileHiddenKeysAndPaths(t *testing.T) {
	raw := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"visible": map[string]any{"type": "string"},
			"secret":  map[string]any{"type": "string"},
			"debug":   map[string]any{"type": "string"},
		},
	}
	ctx, surface := newTestContext(t, raw,
		WithHiddenKeys("secret"),
		WithHiddenPaths("debug"),
	)

	if _, ok := ctx.Node("root.secret"); ok {
		t.Fatalf("hidden key must not register")
	}
	if _, ok := ctx.Node("root.debug"); ok {
		t.Fatalf("hidden path must not register")
	}
	if _, ok := ctx.Node("root.visible"); !ok {
		t.Fatalf("visible sibling lost")
	}
	for _, id := range surface.mounted {
		if id == "root.secret" || id == "root.debug" {
			t.Fatalf("hidden node mounted: %v", surface.mounted)
		}
	}
}

func TestReconcileVisibilityPredicate(t *testing.T) {
	raw := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kept":    map[string]any{"type": "string"},
			"dropped": map[string]any{"type": "string"},
		},
	}
	ctx, _ := newTestContext(t, raw, WithVisibility(func(_ schema.Node, identifier string) bool {
		return identifier != "root.dropped"
	}))

	if _, ok := ctx.Node("root.dropped"); ok {
		t.Fatalf("predicate veto ignored")
	}
	if _, ok := ctx.Node("root.kept"); !ok {
		t.Fatalf("kept node lost")
	}
}

func TestPresenterLongestSuffixWins(t *testing.T) {
	var calls []string
	shortPresenter := PresenterFunc("tls", func(*Context, schema.Node, string, store.Path) error {
		calls = append(calls, "tls")
		return nil
	})
	longPresenter := PresenterFunc("server.tls", func(*Context, schema.Node, string, store.Path) error {
		calls = append(calls, "server.tls")
		return nil
	})

	raw := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"server": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tls": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"cert": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}
	ctx, surface := newTestContext(t, raw, WithPresenters(shortPresenter, longPresenter))

	if len(calls) != 1 || calls[0] != "server.tls" {
		t.Fatalf("expected the more specific presenter, got %v", calls)
	}
	// The presenter owns the subtree: default mounting and recursion stop.
	for _, id := range surface.mounted {
		if id == "root.server.tls" || id == "root.server.tls.cert" {
			t.Fatalf("presenter-owned node mounted by default path: %v", surface.mounted)
		}
	}
	if _, ok := ctx.Node("root.server.tls"); !ok {
		t.Fatalf("presented node must still register")
	}
}

func TestHeadlessBranchNeverOwnsDataPath(t *testing.T) {
	ctx, _ := newTestContext(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"payment": map[string]any{
				"oneOf": []any{
					map[string]any{
						"title": "Credit Card",
						"properties": map[string]any{
							"cc_number": map[string]any{"type": "string", "default": "1234"},
						},
					},
					map[string]any{
						"title": "Cash",
						"properties": map[string]any{
							"receipt": map[string]any{"type": "boolean", "default": true},
						},
					},
				},
			},
		},
	})

	path, ok := ctx.PathFor("root.payment")
	if !ok {
		t.Fatalf("payment owner not registered")
	}
	// The branch wrapper shares the owner's data path; the registry entry
	// must always resolve to the owner, never the headless wrapper.
	id, ok := ctx.IdentifierFor(path)
	if !ok || id != "root.payment" {
		t.Fatalf("data path resolves to %q, want root.payment", id)
	}
	if _, ok := ctx.Node("root.payment.__opt_credit_card"); !ok {
		t.Fatalf("branch wrapper should be in the node registry")
	}
	if _, ok := ctx.PathFor("root.payment.__opt_credit_card.cc_number"); !ok {
		t.Fatalf("branch leaf should carry a data path")
	}
	leafPath, _ := ctx.PathFor("root.payment.__opt_credit_card.cc_number")
	if leafPath.String() != "payment.cc_number" {
		t.Fatalf("branch leaf path mismatch: %q", leafPath.String())
	}
}
