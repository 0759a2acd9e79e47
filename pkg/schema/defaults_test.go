package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultExplicitValueWins(t *testing.T) {
	node := Node{Type: TypeString, Default: "preset"}
	if got := Default(node); got != "preset" {
		t.Fatalf("explicit default lost: got %v", got)
	}
}

func TestDefaultObjectSkipsOptionalScalars(t *testing.T) {
	node := Node{
		Type: TypeObject,
		Properties: map[string]Node{
			"host":    {Key: "host", Keyed: true, Type: TypeString, Required: true},
			"comment": {Key: "comment", Keyed: true, Type: TypeString},
			"port":    {Key: "port", Keyed: true, Type: TypeInteger, Default: 8080},
			"tls":     {Key: "tls", Keyed: true, Type: TypeObject},
			"tags":    {Key: "tags", Keyed: true, Type: TypeArray},
		},
	}

	want := map[string]any{
		"host": "",
		"port": 8080,
		"tls":  map[string]any{},
		"tags": []any{},
	}
	if diff := cmp.Diff(want, Default(node)); diff != "" {
		t.Fatalf("object default mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultScalars(t *testing.T) {
	cases := []struct {
		name string
		node Node
		want any
	}{
		{"string", Node{Type: TypeString}, ""},
		{"number", Node{Type: TypeNumber}, float64(0)},
		{"integer", Node{Type: TypeInteger}, 0},
		{"boolean", Node{Type: TypeBoolean}, false},
		{"null", Node{Type: TypeNull}, nil},
		{"enum first", Node{Type: TypeString, Enum: []any{"dev", "prod"}}, "dev"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Default(tc.node); got != tc.want {
				t.Fatalf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestDefaultTupleArray(t *testing.T) {
	node := Node{
		Type: TypeArray,
		PrefixItems: []Node{
			{Type: TypeString},
			{Type: TypeInteger, Default: 443},
		},
	}

	want := []any{"", 443}
	if diff := cmp.Diff(want, Default(node)); diff != "" {
		t.Fatalf("tuple default mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultOneOfMergesBranchRecord(t *testing.T) {
	node := Node{
		Type: TypeObject,
		Properties: map[string]Node{
			"label": {Key: "label", Keyed: true, Type: TypeString, Required: true},
		},
		OneOf: []Node{
			{
				Title: "Credit Card",
				Type:  TypeObject,
				Properties: map[string]Node{
					"cc_number": {Key: "cc_number", Keyed: true, Type: TypeString, Default: "1234"},
				},
			},
			{
				Title: "Cash",
				Type:  TypeObject,
				Properties: map[string]Node{
					"receipt": {Key: "receipt", Keyed: true, Type: TypeBoolean, Default: true},
				},
			},
		},
	}

	want := map[string]any{"label": "", "cc_number": "1234"}
	if diff := cmp.Diff(want, Default(node)); diff != "" {
		t.Fatalf("oneOf default mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultBranchSelection(t *testing.T) {
	nullTyped := Node{OneOf: []Node{
		{Title: "Card", Type: TypeObject},
		{Type: TypeNull},
	}}
	if got := DefaultBranch(nullTyped); got != 1 {
		t.Fatalf("null-typed branch should win, got %d", got)
	}

	nullTitled := Node{OneOf: []Node{
		{Title: "Card", Type: TypeObject},
		{Title: "None", Type: TypeObject},
	}}
	if got := DefaultBranch(nullTitled); got != 1 {
		t.Fatalf("null-titled branch should win, got %d", got)
	}

	plain := Node{OneOf: []Node{
		{Title: "A", Type: TypeObject},
		{Title: "B", Type: TypeObject},
	}}
	if got := DefaultBranch(plain); got != 0 {
		t.Fatalf("first branch is the fallback, got %d", got)
	}
}
