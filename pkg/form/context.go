package form

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/i18n"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
	"github.com/goliatone/go-schemaform/pkg/validation"
)

// Config is the immutable per-form configuration. It is fixed at context
// construction; "resetting" configuration means constructing a new context,
// which keeps independent form instances from leaking state into each other.
type Config struct {
	// Translator resolves user-facing correlation messages.
	Translator i18n.Translator
	// HiddenPaths lists canonical data paths excluded from rendering and
	// registration.
	HiddenPaths []string
	// HiddenKeys lists property keys excluded wherever they appear.
	HiddenKeys []string
	// Visible, when set, vetoes individual nodes by node + identifier.
	Visible func(node schema.Node, identifier string) bool
}

// ContextOption configures a Context during construction.
type ContextOption func(*Context)

// WithSurface attaches the visual collaborator. Defaults to NopSurface.
func WithSurface(surface Surface) ContextOption {
	return func(c *Context) {
		if surface != nil {
			c.surface = surface
		}
	}
}

// WithValidator attaches the external validation function used by Correlate.
func WithValidator(validator validation.Validator) ContextOption {
	return func(c *Context) {
		c.validator = validator
	}
}

// WithTranslator overrides the message translator.
func WithTranslator(translator i18n.Translator) ContextOption {
	return func(c *Context) {
		if translator != nil {
			c.cfg.Translator = translator
		}
	}
}

// WithHiddenPaths hides nodes whose canonical data path matches exactly.
func WithHiddenPaths(paths ...string) ContextOption {
	return func(c *Context) {
		c.cfg.HiddenPaths = append(c.cfg.HiddenPaths, paths...)
	}
}

// WithHiddenKeys hides properties by key, anywhere in the tree.
func WithHiddenKeys(keys ...string) ContextOption {
	return func(c *Context) {
		c.cfg.HiddenKeys = append(c.cfg.HiddenKeys, keys...)
	}
}

// WithVisibility installs a visibility predicate consulted for every node.
func WithVisibility(predicate func(node schema.Node, identifier string) bool) ContextOption {
	return func(c *Context) {
		c.cfg.Visible = predicate
	}
}

// WithPresenters registers presentation overrides matched by identifier
// suffix.
func WithPresenters(presenters ...Presenter) ContextOption {
	return func(c *Context) {
		c.presenterList = append(c.presenterList, presenters...)
	}
}

// Context glues one form instance together: the store, the node registry
// (identifier → node), the data-path registry (canonical data path →
// identifier) and the identifier → data-path index. A context is owned
// exclusively by a single form instance; sharing one across forms corrupts
// every registry invariant.
type Context struct {
	root      schema.Node
	store     *store.Store
	surface   Surface
	validator validation.Validator
	cfg       Config

	presenterList []Presenter
	presenters    *presenterSet

	nodes     map[string]schema.Node
	dataPaths map[string]string
	idPaths   map[string]store.Path

	// variants tracks the selected branch index per oneOf owner.
	variants map[string]int
	// rowKeys tracks the current key input value per map-row identifier.
	rowKeys map[string]string
	// rowSeq hands out placeholder ordinals per map container.
	rowSeq map[string]int
}

// NewContext builds the render context for one form instance.
func NewContext(st *store.Store, root schema.Node, options ...ContextOption) (*Context, error) {
	if st == nil {
		return nil, errors.New("form: store is required")
	}
	ctx := &Context{
		root:      root,
		store:     st,
		surface:   NopSurface{},
		cfg:       Config{Translator: i18n.Noop()},
		nodes:     make(map[string]schema.Node),
		dataPaths: make(map[string]string),
		idPaths:   make(map[string]store.Path),
		variants:  make(map[string]int),
		rowKeys:   make(map[string]string),
		rowSeq:    make(map[string]int),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(ctx)
	}
	ctx.presenters = newPresenterSet(ctx.presenterList)
	return ctx, nil
}

// Root returns the transformed schema tree the context renders.
func (c *Context) Root() schema.Node { return c.root }

// Store returns the data store owned by this form instance.
func (c *Context) Store() *store.Store { return c.store }

// Node looks up the registered node for an identifier.
func (c *Context) Node(identifier string) (schema.Node, bool) {
	node, ok := c.nodes[identifier]
	return node, ok
}

// IdentifierFor resolves a data path to the identifier that owns its
// validation-visible element.
func (c *Context) IdentifierFor(path store.Path) (string, bool) {
	identifier, ok := c.dataPaths[path.String()]
	return identifier, ok
}

// PathFor returns the data path recorded for an identifier.
func (c *Context) PathFor(identifier string) (store.Path, bool) {
	path, ok := c.idPaths[identifier]
	return path, ok
}

// RowKey returns the current user-facing key of a map row.
func (c *Context) RowKey(identifier string) (string, bool) {
	key, ok := c.rowKeys[identifier]
	return key, ok
}

// Children returns the direct child identifiers of a registered element.
// Array rows come back in numeric order; everything else sorts
// lexicographically, matching reconciliation's walk order for objects.
func (c *Context) Children(identifier string) []string {
	prefix := identifier + "."
	var out []string
	for id := range c.nodes {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if strings.Contains(id[len(prefix):], ".") {
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		left, right := out[i][len(prefix):], out[j][len(prefix):]
		li, lerr := strconv.Atoi(left)
		ri, rerr := strconv.Atoi(right)
		if lerr == nil && rerr == nil {
			return li < ri
		}
		// Map rows order by placeholder ordinal, which is creation order.
		if isMapRowSegment(left) && isMapRowSegment(right) {
			return rowOrdinal(out[i]) < rowOrdinal(out[j])
		}
		return left < right
	})
	return out
}

// ResolvedPathFor returns the identifier's data path with map-row
// placeholder segments replaced by each row's current key. Returns false
// when the identifier is unknown or a traversed row has no key yet.
func (c *Context) ResolvedPathFor(identifier string) (store.Path, bool) {
	path, ok := c.idPaths[identifier]
	if !ok {
		return nil, false
	}

	out := make(store.Path, 0, len(path))
	for _, segment := range path {
		if segment.IsIndex || !isMapRowSegment(segment.Key) {
			out = append(out, segment)
			continue
		}
		rowID, ok := rowIdentifierIn(identifier, segment.Key)
		if !ok {
			return nil, false
		}
		key, ok := c.rowKeys[rowID]
		if !ok || key == "" {
			return nil, false
		}
		out = append(out, store.Key(key))
	}
	return out, true
}

func (c *Context) register(node schema.Node, identifier string, path store.Path, headless bool) {
	c.nodes[identifier] = node
	c.idPaths[identifier] = append(store.Path(nil), path...)
	if !headless {
		c.dataPaths[path.String()] = identifier
	}
}

// unregisterSubtree drops every registry entry at or beneath an identifier.
func (c *Context) unregisterSubtree(identifier string) {
	prefix := identifier + "."
	for id := range c.nodes {
		if id == identifier || len(id) > len(prefix) && id[:len(prefix)] == prefix {
			delete(c.nodes, id)
		}
	}
	for id := range c.idPaths {
		if id == identifier || len(id) > len(prefix) && id[:len(prefix)] == prefix {
			delete(c.idPaths, id)
		}
	}
	for canonical, id := range c.dataPaths {
		if id == identifier || len(id) > len(prefix) && id[:len(prefix)] == prefix {
			delete(c.dataPaths, canonical)
		}
	}
	for id := range c.rowKeys {
		if id == identifier || len(id) > len(prefix) && id[:len(prefix)] == prefix {
			delete(c.rowKeys, id)
		}
	}
	// Variant selections are keyed by identifier too. Leaving them behind
	// would hand a renumbered row the removed row's branch choice.
	for id := range c.variants {
		if id == identifier || len(id) > len(prefix) && id[:len(prefix)] == prefix {
			delete(c.variants, id)
		}
	}
}

// carryVariants copies the branch selections recorded at or beneath oldID
// into carried, rewritten to live under newID. Renumbering operations use it
// so a surviving row keeps its choices at the identifier it moves to.
func (c *Context) carryVariants(oldID, newID string, carried map[string]int) {
	prefix := oldID + "."
	for id, branch := range c.variants {
		if id == oldID {
			carried[newID] = branch
		} else if strings.HasPrefix(id, prefix) {
			carried[newID+id[len(oldID):]] = branch
		}
	}
}

func (c *Context) hidden(node schema.Node, identifier string, path store.Path) bool {
	if c.cfg.Visible != nil && !c.cfg.Visible(node, identifier) {
		return true
	}
	canonical := path.String()
	for _, hiddenPath := range c.cfg.HiddenPaths {
		if canonical == hiddenPath {
			return true
		}
	}
	if node.Keyed {
		for _, key := range c.cfg.HiddenKeys {
			if node.Key == key {
				return true
			}
		}
	}
	return false
}
