package form

import (
	"testing"

	"github.com/goliatone/go-schemaform/pkg/i18n"
	"github.com/goliatone/go-schemaform/pkg/validation"
)

func staticErrors(errors ...validation.Error) validation.Func {
	return func(any) []validation.Error { return errors }
}

func TestCorrelateDirectLookup(t *testing.T) {
	ctx, surface := newTestContext(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"host": map[string]any{"type": "string", "minLength": 3},
		},
	}, WithValidator(staticErrors(validation.Error{
		InstancePath: "/host",
		Keyword:      "minLength",
		Message:      "must NOT have fewer than 3 characters",
	})))

	issues := ctx.Correlate()
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Identifier != "root.host" {
		t.Fatalf("identifier mismatch: %q", issues[0].Identifier)
	}
	if surface.invalid["root.host"] == "" {
		t.Fatalf("element never marked invalid: %v", surface.invalid)
	}
}

func TestCorrelateRedirectsRequiredToField(t *testing.T) {
	ctx, surface := newTestContext(t, map[string]any{
		"type":     "object",
		"required": []any{"host"},
		"properties": map[string]any{
			"host": map[string]any{"type": "string"},
		},
	}, WithValidator(staticErrors(validation.Error{
		InstancePath: "",
		Keyword:      validation.KeywordRequired,
		Message:      "must have required property 'host'",
		Params:       map[string]any{"missingProperty": "host"},
	})))

	issues := ctx.Correlate()
	if len(issues) != 1 || issues[0].Identifier != "root.host" {
		t.Fatalf("required error should paint the field itself, got %+v", issues)
	}
	if issues[0].Pointer != "/host" {
		t.Fatalf("target pointer mismatch: %q", issues[0].Pointer)
	}
	if _, ok := surface.invalid["root.host"]; !ok {
		t.Fatalf("field never marked: %v", surface.invalid)
	}
}

func TestCorrelateFuzzyMatchesMapKeys(t *testing.T) {
	ctx, surface := newTestContext(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"routes": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type":     "object",
					"required": []any{"url"},
					"properties": map[string]any{
						"url": map[string]any{"type": "string"},
					},
				},
			},
		},
	}, WithValidator(staticErrors(validation.Error{
		InstancePath: "/routes/my-route/url",
		Keyword:      "format",
		Message:      "must be a valid uri",
	})))

	// Seed a user-keyed row, then rebuild registrations over it.
	rowID, err := ctx.AddMapRow("root.routes", "my-route")
	if err != nil {
		t.Fatalf("AddMapRow: %v", err)
	}

	issues := ctx.Correlate()
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	want := rowID + ".url"
	if issues[0].Identifier != want {
		t.Fatalf("fuzzy match resolved %q, want %q", issues[0].Identifier, want)
	}
	if _, ok := surface.invalid[want]; !ok {
		t.Fatalf("row field never marked: %v", surface.invalid)
	}
}

func TestCorrelateFuzzyMatchesNumericMapKeys(t *testing.T) {
	ctx, surface := newTestContext(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"routes": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"url": map[string]any{"type": "string"},
					},
				},
			},
		},
	}, WithValidator(staticErrors(validation.Error{
		InstancePath: "/routes/8080/url",
		Keyword:      "format",
		Message:      "must be a valid uri",
	})))

	// A numeric key parses out of the pointer as an index segment; the row
	// must still resolve by its displayed key.
	rowID, err := ctx.AddMapRow("root.routes", "8080")
	if err != nil {
		t.Fatalf("AddMapRow: %v", err)
	}

	issues := ctx.Correlate()
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	want := rowID + ".url"
	if issues[0].Identifier != want {
		t.Fatalf("numeric key resolved %q, want %q", issues[0].Identifier, want)
	}
	if _, ok := surface.invalid[want]; !ok {
		t.Fatalf("row field never marked: %v", surface.invalid)
	}
}

func TestCorrelateFuzzyRejectsStaleKeys(t *testing.T) {
	ctx, _ := newTestContext(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"routes": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
		},
	}, WithValidator(staticErrors(validation.Error{
		InstancePath: "/routes/renamed-away",
		Keyword:      "type",
		Message:      "must be string",
	})))

	if _, err := ctx.AddMapRow("root.routes", "original"); err != nil {
		t.Fatalf("AddMapRow: %v", err)
	}

	issues := ctx.Correlate()
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	// The displayed key does not match the pointer segment, so the error
	// surfaces at the form level instead of on the wrong row.
	if issues[0].Identifier != "" {
		t.Fatalf("stale key must not match, resolved to %q", issues[0].Identifier)
	}
}

func TestCorrelateSummarizesOneOfNoise(t *testing.T) {
	ctx, surface := newTestContext(t, paymentSchema(), WithValidator(staticErrors(
		validation.Error{
			InstancePath: "/payment",
			Keyword:      validation.KeywordOneOf,
			Message:      "must match exactly one schema in oneOf",
		},
		validation.Error{
			InstancePath: "/payment",
			Keyword:      validation.KeywordRequired,
			Message:      "must have required property 'cc_number'",
			Params:       map[string]any{"missingProperty": "cc_number"},
		},
		validation.Error{
			InstancePath: "/payment",
			Keyword:      validation.KeywordRequired,
			Message:      "must have required property 'receipt'",
			Params:       map[string]any{"missingProperty": "receipt"},
		},
		validation.Error{
			InstancePath: "/payment",
			Keyword:      "type",
			Message:      "must be boolean",
		},
	)))

	issues := ctx.Correlate()
	if len(issues) != 2 {
		t.Fatalf("expected summarized selection + visible required, got %+v", issues)
	}
	if issues[0].Keyword != validation.KeywordOneOf {
		t.Fatalf("first issue should be the selection summary, got %q", issues[0].Keyword)
	}
	if issues[0].Message != selectionMessageFallback {
		t.Fatalf("selection message not rewritten: %q", issues[0].Message)
	}
	if issues[0].Identifier != "root.payment" {
		t.Fatalf("selection summary target mismatch: %q", issues[0].Identifier)
	}
	// cc_number belongs to the selected branch and is visible; receipt is
	// hidden inside the unselected branch and must not get a phantom mark.
	if issues[1].Identifier != "root.payment.__opt_credit_card.cc_number" {
		t.Fatalf("visible required target mismatch: %q", issues[1].Identifier)
	}
	if _, ok := surface.invalid["root.payment.__opt_cash.receipt"]; ok {
		t.Fatalf("unselected branch field was marked: %v", surface.invalid)
	}
}

func TestCorrelateTranslatesSelectionMessage(t *testing.T) {
	ctx, _ := newTestContext(t, paymentSchema(),
		WithTranslator(i18n.Map(map[string]string{selectionMessageKey: "choisissez une option"})),
		WithValidator(staticErrors(validation.Error{
			InstancePath: "/payment",
			Keyword:      validation.KeywordOneOf,
			Message:      "must match exactly one schema in oneOf",
		})),
	)

	issues := ctx.Correlate()
	if len(issues) != 1 || issues[0].Message != "choisissez une option" {
		t.Fatalf("translator not applied: %+v", issues)
	}
}

func TestCorrelateUnmatchedGoesToFormLevel(t *testing.T) {
	ctx, surface := newTestContext(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"host": map[string]any{"type": "string"},
		},
	}, WithValidator(staticErrors(validation.Error{
		InstancePath: "/nope/deep",
		Keyword:      "type",
		Message:      "dangling error",
	})))

	issues := ctx.Correlate()
	if len(issues) != 1 || issues[0].Identifier != "" {
		t.Fatalf("expected unmatched issue, got %+v", issues)
	}
	if len(surface.formLevel) != 1 || surface.formLevel[0] != "dangling error" {
		t.Fatalf("form-level surfacing mismatch: %v", surface.formLevel)
	}
}

func TestCorrelateValidSnapshotClearsState(t *testing.T) {
	calls := 0
	ctx, surface := newTestContext(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"host": map[string]any{"type": "string"},
		},
	}, WithValidator(validation.Func(func(any) []validation.Error {
		calls++
		if calls == 1 {
			return []validation.Error{{InstancePath: "/host", Keyword: "type", Message: "bad"}}
		}
		return nil
	})))

	ctx.Correlate()
	if len(surface.invalid) == 0 {
		t.Fatalf("first pass should mark")
	}
	issues := ctx.Correlate()
	if issues != nil {
		t.Fatalf("valid snapshot should yield no issues, got %+v", issues)
	}
	if len(surface.invalid) != 0 || len(surface.formLevel) != 0 {
		t.Fatalf("stale error state survived: %v %v", surface.invalid, surface.formLevel)
	}
}

func TestGeneratedDefaultsSatisfyRequiredFields(t *testing.T) {
	raw := map[string]any{
		"type":     "object",
		"required": []any{"host", "server"},
		"properties": map[string]any{
			"host": map[string]any{"type": "string"},
			"server": map[string]any{
				"type":     "object",
				"required": []any{"port"},
				"properties": map[string]any{
					"port": map[string]any{"type": "integer"},
				},
			},
		},
	}

	validator := validation.Func(func(data any) []validation.Error {
		var out []validation.Error
		root, _ := data.(map[string]any)
		for _, key := range []string{"host", "server"} {
			if _, ok := root[key]; !ok {
				out = append(out, validation.Error{
					Keyword: validation.KeywordRequired,
					Message: "missing " + key,
					Params:  map[string]any{"missingProperty": key},
				})
			}
		}
		if server, ok := root["server"].(map[string]any); ok {
			if _, ok := server["port"]; !ok {
				out = append(out, validation.Error{
					InstancePath: "/server",
					Keyword:      validation.KeywordRequired,
					Message:      "missing port",
					Params:       map[string]any{"missingProperty": "port"},
				})
			}
		}
		return out
	})

	ctx, _ := newTestContext(t, raw, WithValidator(validator))
	if issues := ctx.Correlate(); issues != nil {
		t.Fatalf("generated defaults must satisfy required fields, got %+v", issues)
	}
}
