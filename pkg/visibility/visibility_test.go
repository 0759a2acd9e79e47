package visibility

import (
	"testing"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
)

func TestFormOptionHidesRuledElements(t *testing.T) {
	raw := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mode": map[string]any{"type": "string"},
			"advanced": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"debug": map[string]any{"type": "boolean"},
				},
			},
		},
	}
	root := schema.NewTransformer().Transform(raw)
	st := store.New(schema.Default(root))

	rules := map[string]string{
		"root.advanced": "mode == 'expert'",
	}
	ctx, err := form.NewContext(st, root, FormOption(nil, st, rules, nil))
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	if err := ctx.Reconcile(); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if _, ok := ctx.Node("root.advanced"); ok {
		t.Fatalf("advanced should be hidden while mode is empty")
	}
	if _, ok := ctx.Node("root.mode"); !ok {
		t.Fatalf("mode should stay visible")
	}

	st.SetPath(store.Path{store.Key("mode")}, "expert")
	if err := ctx.Reconcile(); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if _, ok := ctx.Node("root.advanced"); !ok {
		t.Fatalf("advanced should appear once the rule holds")
	}
	if _, ok := ctx.Node("root.advanced.debug"); !ok {
		t.Fatalf("advanced children should mount with their parent")
	}
}

func TestFormOptionFailsOpen(t *testing.T) {
	raw := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
	}
	root := schema.NewTransformer().Transform(raw)
	st := store.New(schema.Default(root))

	rules := map[string]string{"root.name": "name =="}
	ctx, err := form.NewContext(st, root, FormOption(nil, st, rules, nil))
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	if err := ctx.Reconcile(); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if _, ok := ctx.Node("root.name"); !ok {
		t.Fatalf("malformed rules must not hide elements")
	}
}
