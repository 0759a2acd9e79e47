package schema

import "sort"

// NodeType enumerates the schema types the transformer emits.
type NodeType string

const (
	TypeString  NodeType = "string"
	TypeNumber  NodeType = "number"
	TypeInteger NodeType = "integer"
	TypeBoolean NodeType = "boolean"
	TypeObject  NodeType = "object"
	TypeArray   NodeType = "array"
	TypeNull    NodeType = "null"
)

// Node is the normalized, renderer-agnostic representation of one schema
// unit. Nodes are immutable value objects: callers that need a runtime
// default attached use WithDefault, which returns a copy, so concurrent
// walks over the same tree stay independent.
type Node struct {
	// Key is the property name inside the parent object. Keyed reports
	// whether the node has a schema-native identity at all: roots, oneOf
	// variants and array items are unkeyed and receive synthetic identifier
	// segments during reconciliation.
	Key   string
	Keyed bool

	Type        NodeType
	Title       string
	Description string
	Default     any
	Required    bool
	ReadOnly    bool

	Format    string
	Pattern   string
	MinLength *int
	MaxLength *int
	Minimum   *float64
	Maximum   *float64
	Enum      []any

	Properties  map[string]Node
	Items       *Node
	PrefixItems []Node
	Additional  *Additional
	OneOf       []Node
}

// Additional describes the additionalProperties keyword. Schema set means the
// object carries a dynamically-keyed map region; otherwise Allowed is a plain
// permit/deny toggle.
type Additional struct {
	Allowed bool
	Schema  *Node
}

// IsMap reports whether the node owns a dynamically-keyed map region.
func (n Node) IsMap() bool {
	return n.Additional != nil && n.Additional.Schema != nil
}

// HasVariants reports whether the node carries a oneOf/anyOf selector.
func (n Node) HasVariants() bool {
	return len(n.OneOf) > 0
}

// PropertyKeys returns the property names in deterministic (sorted) order.
// Go maps do not preserve schema declaration order, so walks and default
// generation iterate sorted keys.
func (n Node) PropertyKeys() []string {
	if len(n.Properties) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.Properties))
	for key := range n.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WithDefault hydrates the node with a runtime default, returning a copy.
func (n Node) WithDefault(value any) Node {
	out := n
	out.Default = value
	return out
}
