package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
)

// scriptDriver replays canned answers in call order and records every prompt
// message so tests can assert the walk sequence.
type scriptDriver struct {
	t        *testing.T
	inputs   []string
	confirms []bool
	selects  []int
	messages []string
}

func (d *scriptDriver) record(message string) {
	d.messages = append(d.messages, message)
}

func (d *scriptDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.record(cfg.Message)
	if len(d.inputs) == 0 {
		d.t.Fatalf("unexpected input prompt %q", cfg.Message)
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(out); err != nil {
			d.t.Fatalf("scripted answer %q rejected: %v", out, err)
		}
	}
	return out, nil
}

func (d *scriptDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.record(cfg.Message)
	if len(d.confirms) == 0 {
		d.t.Fatalf("unexpected confirm prompt %q", cfg.Message)
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.record(cfg.Message)
	if len(d.selects) == 0 {
		d.t.Fatalf("unexpected select prompt %q", cfg.Message)
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *scriptDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	d.record(cfg.Message)
	return nil, nil
}

func (d *scriptDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	return d.Input(context.Background(), InputConfig{Message: cfg.Message, Default: cfg.Default})
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.record(msg)
	return nil
}

func newTestForm(t *testing.T, raw map[string]any) *form.Context {
	t.Helper()
	root := schema.NewTransformer().Transform(raw)
	st := store.New(schema.Default(root))
	ctx, err := form.NewContext(st, root)
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	if err := ctx.Reconcile(); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	return ctx
}

func TestRendererWalksScalars(t *testing.T) {
	f := newTestForm(t, map[string]any{
		"type":     "object",
		"title":    "Settings",
		"required": []any{"host"},
		"properties": map[string]any{
			"host": map[string]any{"type": "string"},
			"mode": map[string]any{"type": "string", "enum": []any{"fast", "safe"}},
			"port": map[string]any{"type": "integer", "default": float64(8080)},
			"tls":  map[string]any{"type": "boolean"},
		},
	})

	driver := &scriptDriver{
		t:        t,
		inputs:   []string{"example.com", "9090"},
		selects:  []int{1},
		confirms: []bool{true},
	}
	renderer, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), render.View{Form: f}, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{
		"host": "example.com",
		"mode": "safe",
		"port": float64(9090),
		"tls":  true,
	}
	if diff := cmp.Diff(want, f.Store().Get()); diff != "" {
		t.Fatalf("store snapshot (-want +got):\n%s", diff)
	}
	if !strings.Contains(string(out), `"host": "example.com"`) {
		t.Fatalf("json output missing host:\n%s", out)
	}
	if driver.messages[0] != "Settings" {
		t.Fatalf("expected section banner first, got %q", driver.messages[0])
	}
}

func TestRendererWalksContainers(t *testing.T) {
	f := newTestForm(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"payment": map[string]any{
				"oneOf": []any{
					map[string]any{
						"title":      "Credit Card",
						"type":       "object",
						"properties": map[string]any{"cc_number": map[string]any{"type": "string"}},
					},
					map[string]any{
						"title":      "Invoice",
						"type":       "object",
						"properties": map[string]any{"receipt": map[string]any{"type": "boolean"}},
					},
				},
			},
			"routes": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	})

	driver := &scriptDriver{
		t: t,
		// receipt, add route, stop routes, add tag, stop tags
		confirms: []bool{true, true, false, true, false},
		// route key, route value, tag value
		inputs:  []string{"primary", "https://upstream", "alpha"},
		selects: []int{1},
	}
	renderer, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	if _, err := renderer.Render(context.Background(), render.View{Form: f}, render.Options{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{
		"payment": map[string]any{"receipt": true},
		"routes":  map[string]any{"primary": "https://upstream"},
		"tags":    []any{"alpha"},
	}
	if diff := cmp.Diff(want, f.Store().Get()); diff != "" {
		t.Fatalf("store snapshot (-want +got):\n%s", diff)
	}
	if selected, _ := f.SelectedVariant("root.payment"); selected != 1 {
		t.Fatalf("variant not switched, selected = %d", selected)
	}
}

func TestRendererOutputFormats(t *testing.T) {
	raw := map[string]any{
		"type":       "object",
		"properties": map[string]any{"name": map[string]any{"type": "string"}},
	}

	t.Run("form encoded", func(t *testing.T) {
		f := newTestForm(t, raw)
		driver := &scriptDriver{t: t, inputs: []string{"demo"}}
		renderer, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
		if err != nil {
			t.Fatalf("new renderer: %v", err)
		}
		out, err := renderer.Render(context.Background(), render.View{Form: f}, render.Options{})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if string(out) != "name=demo" {
			t.Fatalf("encoded output = %q", out)
		}
		if got := renderer.ContentType(); got != "application/x-www-form-urlencoded" {
			t.Fatalf("content type = %q", got)
		}
	})

	t.Run("pretty text", func(t *testing.T) {
		f := newTestForm(t, raw)
		driver := &scriptDriver{t: t, inputs: []string{"demo"}}
		renderer, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
		if err != nil {
			t.Fatalf("new renderer: %v", err)
		}
		out, err := renderer.Render(context.Background(), render.View{Form: f}, render.Options{})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if string(out) != "name: demo\n" {
			t.Fatalf("pretty output = %q", out)
		}
	})

	t.Run("submit transformer", func(t *testing.T) {
		f := newTestForm(t, raw)
		driver := &scriptDriver{t: t, inputs: []string{"demo"}}
		renderer, err := New(
			WithPromptDriver(driver),
			WithSubmitTransformer(func(snapshot any) (any, error) {
				record := snapshot.(map[string]any)
				record["extra"] = true
				return record, nil
			}),
		)
		if err != nil {
			t.Fatalf("new renderer: %v", err)
		}
		out, err := renderer.Render(context.Background(), render.View{Form: f}, render.Options{})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if !strings.Contains(string(out), `"extra": true`) {
			t.Fatalf("transformer output missing extra:\n%s", out)
		}
	})
}
