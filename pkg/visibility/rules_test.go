package visibility

import "testing"

func TestEvaluatorRules(t *testing.T) {
	ctx := Context{
		Values: map[string]any{
			"mode": "advanced",
			"tls":  map[string]any{"enabled": true},
			"port": float64(8080),
			"name": "",
		},
		Extras: map[string]any{"role": "admin"},
	}

	cases := []struct {
		rule string
		want bool
	}{
		{"", true},
		{"tls.enabled", true},
		{"name", false},
		{"!name", true},
		{"mode == 'advanced'", true},
		{`mode == "basic"`, false},
		{"mode != 'basic'", true},
		{"port == 8080", true},
		{"port != 8080", false},
		{"tls.enabled == true", true},
		{"missing == null", true},
		{"missing", false},
		{"extras.role == 'admin'", true},
		{"mode == 'advanced' && tls.enabled", true},
		{"mode == 'basic' || port == 8080", true},
		{"mode == 'basic' && port == 8080 || tls.enabled", true},
		{"!(mode == 'advanced')", false},
		{"(mode == 'basic' || tls.enabled) && port == 8080", true},
	}

	evaluator := NewEvaluator()
	for _, tc := range cases {
		t.Run(tc.rule, func(t *testing.T) {
			got, err := evaluator.Eval(tc.rule, ctx)
			if err != nil {
				t.Fatalf("eval %q: %v", tc.rule, err)
			}
			if got != tc.want {
				t.Fatalf("eval %q = %v, want %v", tc.rule, got, tc.want)
			}
		})
	}
}

func TestEvaluatorRejectsMalformedRules(t *testing.T) {
	evaluator := NewEvaluator()
	for _, rule := range []string{
		"mode ==",
		"(mode == 'a'",
		"mode == 'unterminated",
		"mode @ 'a'",
		"mode == 'a' extra",
	} {
		if _, err := evaluator.Eval(rule, Context{}); err == nil {
			t.Fatalf("expected error for %q", rule)
		}
	}
}
