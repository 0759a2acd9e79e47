package schema

import (
	"strings"

	"github.com/goliatone/go-schemaform/pkg/i18n"
)

// DefaultMaxDepth bounds schema recursion. Past it the transformer degrades
// to a placeholder node instead of overflowing on pathological or cyclic
// looking schemas.
const DefaultMaxDepth = 16

const maxDepthTitle = "Maximum nesting depth reached"

// Options configures a Transformer.
type Options struct {
	// Translator overrides resolved titles; keyed on the resolved title so
	// dictionaries can be written against the human-readable labels.
	Translator i18n.Translator
	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int
	// TitleCandidates is the ordered property-name list consulted when
	// inferring a title for an untitled oneOf branch.
	TitleCandidates []string
}

// Option mutates Options prior to construction.
type Option func(*Options)

// WithTranslator injects a title translator.
func WithTranslator(translator i18n.Translator) Option {
	return func(opts *Options) {
		if translator != nil {
			opts.Translator = translator
		}
	}
}

// WithMaxDepth overrides the recursion guard.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		if depth > 0 {
			opts.MaxDepth = depth
		}
	}
}

// WithTitleCandidates overrides the discriminator property names used for
// branch title inference.
func WithTitleCandidates(keys ...string) Option {
	return func(opts *Options) {
		if len(keys) > 0 {
			opts.TitleCandidates = append([]string(nil), keys...)
		}
	}
}

// DefaultTitleCandidates lists the property names, in priority order, whose
// literal values label a tagged-union branch when the schema carries no
// explicit title.
func DefaultTitleCandidates() []string {
	return []string{"type", "name", "kind", "id", "title", "label"}
}

// Transformer converts dereferenced JSON Schema payloads into Node trees.
type Transformer struct {
	opts Options
}

// NewTransformer constructs a Transformer applying any provided options.
func NewTransformer(options ...Option) *Transformer {
	opts := Options{
		Translator:      i18n.Noop(),
		MaxDepth:        DefaultMaxDepth,
		TitleCandidates: DefaultTitleCandidates(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}
	if opts.Translator == nil {
		opts.Translator = i18n.Noop()
	}
	return &Transformer{opts: opts}
}

// Transform converts a $ref-free schema payload into a Node tree. Malformed
// fragments degrade to permissive defaults; Transform never panics on
// shape errors.
func (t *Transformer) Transform(raw map[string]any) Node {
	return t.node(raw, "", false, 0, false)
}

func (t *Transformer) node(raw map[string]any, key string, keyed bool, depth int, required bool) Node {
	if raw == nil {
		raw = map[string]any{}
	}
	if depth > t.opts.MaxDepth {
		return Node{
			Key:      key,
			Keyed:    keyed,
			Type:     TypeString,
			Title:    maxDepthTitle,
			ReadOnly: true,
			Required: required,
		}
	}

	raw = mergeAllOf(raw)

	node := Node{
		Key:         key,
		Keyed:       keyed,
		Type:        inferType(raw),
		Required:    required,
		Description: sanitizeText(readString(raw, "description")),
		Format:      strings.TrimSpace(readString(raw, "format")),
		Default:     raw["default"],
		ReadOnly:    readBool(raw, "readOnly"),
	}
	node.Title = t.resolveTitle(raw, key)

	if pattern, ok := raw["pattern"].(string); ok {
		node.Pattern = pattern
	}
	if value, ok := toInt(raw["minLength"]); ok {
		node.MinLength = &value
	}
	if value, ok := toInt(raw["maxLength"]); ok {
		node.MaxLength = &value
	}
	if value, ok := toFloat(raw["minimum"]); ok {
		node.Minimum = &value
	}
	if value, ok := toFloat(raw["maximum"]); ok {
		node.Maximum = &value
	}
	if list, ok := raw["enum"].([]any); ok && len(list) > 0 {
		node.Enum = append([]any(nil), list...)
	}

	switch node.Type {
	case TypeObject:
		t.objectChildren(&node, raw, depth)
	case TypeArray:
		t.arrayChildren(&node, raw, depth)
	}

	return node
}

func (t *Transformer) objectChildren(node *Node, raw map[string]any, depth int) {
	requiredSet := requiredKeys(raw)

	if props := readMap(raw, "properties"); len(props) > 0 {
		node.Properties = make(map[string]Node, len(props))
		for _, propKey := range sortedKeys(props) {
			propRaw, _ := props[propKey].(map[string]any)
			_, isRequired := requiredSet[propKey]
			child := t.node(propRaw, propKey, true, depth+1, isRequired)
			// A property titled like its parent and holding a complex value
			// reads as "Foo > Foo" nesting; drop the inner title.
			if strings.EqualFold(propKey, node.Title) && (child.Type == TypeObject || child.Type == TypeArray) {
				child.Title = ""
			}
			node.Properties[propKey] = child
		}
	}

	switch additional := raw["additionalProperties"].(type) {
	case bool:
		node.Additional = &Additional{Allowed: additional}
	case map[string]any:
		child := t.node(additional, "", false, depth+1, false)
		node.Additional = &Additional{Allowed: true, Schema: &child}
	}

	branches, ok := raw["oneOf"].([]any)
	if !ok {
		branches, _ = raw["anyOf"].([]any)
	}
	if len(branches) > 0 {
		node.OneOf = make([]Node, 0, len(branches))
		for index, entry := range branches {
			branchRaw, _ := entry.(map[string]any)
			branch := t.node(branchRaw, "", false, depth+1, false)
			if branch.Title == "" {
				branch.Title = t.inferTitle(branchRaw, index)
			}
			node.OneOf = append(node.OneOf, branch)
		}
	}
}

func (t *Transformer) arrayChildren(node *Node, raw map[string]any, depth int) {
	if items, ok := raw["items"].(map[string]any); ok {
		child := t.node(items, "", false, depth+1, false)
		node.Items = &child
	}
	if prefix, ok := raw["prefixItems"].([]any); ok && len(prefix) > 0 {
		node.PrefixItems = make([]Node, 0, len(prefix))
		for _, entry := range prefix {
			slotRaw, _ := entry.(map[string]any)
			node.PrefixItems = append(node.PrefixItems, t.node(slotRaw, "", false, depth+1, false))
		}
	}
}

func (t *Transformer) resolveTitle(raw map[string]any, key string) string {
	title := sanitizeText(readString(raw, "title"))
	if title == "" {
		title = formatLabel(key)
	}
	if title == "" {
		return ""
	}
	return t.opts.Translator.Text(title, title)
}

// inferType resolves the effective type when the keyword is absent: object
// container keywords imply object, everything else defaults to string.
// Type arrays collapse to their first entry.
func inferType(raw map[string]any) NodeType {
	switch typed := raw["type"].(type) {
	case string:
		if nodeType, ok := knownType(typed); ok {
			return nodeType
		}
	case []any:
		for _, entry := range typed {
			if str, ok := entry.(string); ok {
				if nodeType, ok := knownType(str); ok {
					return nodeType
				}
			}
			break
		}
	}

	for _, keyword := range []string{"properties", "additionalProperties", "oneOf", "anyOf"} {
		if _, ok := raw[keyword]; ok {
			return TypeObject
		}
	}
	return TypeString
}

func knownType(value string) (NodeType, bool) {
	switch NodeType(strings.TrimSpace(value)) {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeObject, TypeArray, TypeNull:
		return NodeType(strings.TrimSpace(value)), true
	default:
		return "", false
	}
}

func requiredKeys(raw map[string]any) map[string]struct{} {
	list, ok := raw["required"].([]any)
	if !ok {
		return nil
	}
	set := make(map[string]struct{}, len(list))
	for _, entry := range list {
		if name, ok := entry.(string); ok && name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}
