package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetToggle   = "toggle"
	WidgetSelect   = "select"
	WidgetTextArea = "textarea"
	WidgetPassword = "password"
	WidgetKeyValue = "key-value"
	WidgetList     = "list"
	WidgetGroup    = "group"
	WidgetVariant  = "variant"
	WidgetInput    = "input"
)

// Matcher decides whether a widget should handle the supplied node.
type Matcher func(node schema.Node, identifier string) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for nodes based on registered matchers. Higher
// priority wins; ties fall back to registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry constructs a registry without built-ins for callers that
// want full control over widget resolution.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence over the built-ins, which register at
// priority 0.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if name == "" || matcher == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{
		name:     name,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
	sort.SliceStable(r.rules, func(i, j int) bool {
		if r.rules[i].priority != r.rules[j].priority {
			return r.rules[i].priority > r.rules[j].priority
		}
		return r.rules[i].order < r.rules[j].order
	})
}

// Resolve returns the widget name for a node, or false when no matcher
// claims it.
func (r *Registry) Resolve(node schema.Node, identifier string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, candidate := range r.rules {
		if candidate.match(node, identifier) {
			return candidate.name, true
		}
	}
	return "", false
}

// Names returns the distinct registered widget names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, candidate := range r.rules {
		seen[candidate.name] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetVariant, 0, func(node schema.Node, _ string) bool {
		return node.HasVariants()
	})
	r.Register(WidgetKeyValue, 0, func(node schema.Node, _ string) bool {
		return node.IsMap()
	})
	r.Register(WidgetGroup, 0, func(node schema.Node, _ string) bool {
		return node.Type == schema.TypeObject
	})
	r.Register(WidgetList, 0, func(node schema.Node, _ string) bool {
		return node.Type == schema.TypeArray
	})
	r.Register(WidgetSelect, 0, func(node schema.Node, _ string) bool {
		return len(node.Enum) > 0
	})
	r.Register(WidgetToggle, 0, func(node schema.Node, _ string) bool {
		return node.Type == schema.TypeBoolean
	})
	r.Register(WidgetPassword, 0, func(node schema.Node, identifier string) bool {
		return node.Format == "password" || strings.HasSuffix(identifier, ".password")
	})
	r.Register(WidgetTextArea, 0, func(node schema.Node, _ string) bool {
		return node.Format == "textarea" || node.Format == "multiline"
	})
}
