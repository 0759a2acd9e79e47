package form

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
)

// Reconcile walks the whole tree, assigning identifiers, filling the
// registries and mounting elements on the surface. Call it once after
// construction; the polymorphic operations keep everything consistent
// incrementally afterwards.
func (c *Context) Reconcile() error {
	return c.visit(c.root, c.rootIdentifier(), nil, false)
}

func (c *Context) rootIdentifier() string {
	if c.root.Keyed {
		return sanitizeSegment(c.root.Key)
	}
	if segment := sanitizeSegment(c.root.Title); segment != "" {
		return segment
	}
	return "root"
}

// visit registers one node and recurses into its children. Headless nodes
// (oneOf branch content) share the parent's data path and stay out of the
// data-path registry so they cannot shadow the owning wrapper's entry.
func (c *Context) visit(node schema.Node, identifier string, path store.Path, headless bool) error {
	if c.hidden(node, identifier, path) {
		return nil
	}

	c.register(node, identifier, path, headless)

	if presenter := c.presenters.match(identifier); presenter != nil {
		return presenter.Present(c, node, identifier, path)
	}

	if err := c.surface.Mount(node, identifier, path); err != nil {
		return fmt.Errorf("form: mount %s: %w", identifier, err)
	}

	switch node.Type {
	case schema.TypeObject:
		return c.visitObject(node, identifier, path)
	case schema.TypeArray:
		return c.visitArray(node, identifier, path)
	default:
		return nil
	}
}

func (c *Context) visitObject(node schema.Node, identifier string, path store.Path) error {
	for _, key := range node.PropertyKeys() {
		child := node.Properties[key]
		childID := joinIdentifier(identifier, sanitizeSegment(key))
		if err := c.visit(child, childID, path.Child(store.Key(key)), false); err != nil {
			return err
		}
	}

	if node.HasVariants() {
		branch := c.selectedBranch(identifier, node)
		if err := c.visitBranch(node.OneOf[branch], branch, identifier, path); err != nil {
			return err
		}
	}

	if node.IsMap() {
		return c.visitMapRows(node, identifier, path)
	}
	return nil
}

// visitBranch renders a oneOf branch as headless content: its children nest
// under the branch's synthetic identifier segment but write into the owning
// object's data path.
func (c *Context) visitBranch(branch schema.Node, index int, ownerID string, ownerPath store.Path) error {
	branchID := joinIdentifier(ownerID, variantSegment(branch, index))
	return c.visit(branch, branchID, ownerPath, true)
}

func variantSegment(branch schema.Node, index int) string {
	segment := sanitizeSegment(branch.Title)
	if segment == "" {
		segment = fmt.Sprintf("option_%d", index+1)
	}
	return variantPrefix + segment
}

func (c *Context) selectedBranch(identifier string, node schema.Node) int {
	if branch, ok := c.variants[identifier]; ok && branch >= 0 && branch < len(node.OneOf) {
		return branch
	}
	branch := schema.DefaultBranch(node)
	c.variants[identifier] = branch
	return branch
}

func (c *Context) visitArray(node schema.Node, identifier string, path store.Path) error {
	// Tuple slots render once upfront and are not addable or removable.
	for index, slot := range node.PrefixItems {
		slotID := joinIdentifier(identifier, indexSegment(index))
		if err := c.visit(slot, slotID, path.Child(store.Index(index)), false); err != nil {
			return err
		}
	}

	if node.Items == nil {
		return nil
	}
	length := c.listLength(path)
	for index := len(node.PrefixItems); index < length; index++ {
		rowID := joinIdentifier(identifier, indexSegment(index))
		if err := c.visit(*node.Items, rowID, path.Child(store.Index(index)), false); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) listLength(path store.Path) int {
	value, ok := c.store.GetPath(path)
	if !ok {
		return 0
	}
	list, ok := value.([]any)
	if !ok {
		return 0
	}
	return len(list)
}

// visitMapRows materializes one row per existing data key, in sorted order,
// assigning each a fresh placeholder index.
func (c *Context) visitMapRows(node schema.Node, identifier string, path store.Path) error {
	value, ok := c.store.GetPath(path)
	if !ok {
		return nil
	}
	object, ok := value.(map[string]any)
	if !ok {
		return nil
	}

	static := make(map[string]struct{}, len(node.Properties))
	for key := range node.Properties {
		static[key] = struct{}{}
	}

	for _, key := range sortedStrings(object) {
		if _, owned := static[key]; owned {
			continue
		}
		if _, err := c.mountMapRow(node, identifier, path, key); err != nil {
			return err
		}
	}
	return nil
}

// mountMapRow creates a single map row bound to the given key (possibly
// empty) and renders the value schema beneath its placeholder path.
func (c *Context) mountMapRow(node schema.Node, identifier string, path store.Path, key string) (string, error) {
	ordinal := c.rowSeq[identifier]
	c.rowSeq[identifier] = ordinal + 1

	placeholder := fmt.Sprintf("%s%d", mapRowPrefix, ordinal)
	rowID := joinIdentifier(identifier, placeholder)
	c.rowKeys[rowID] = key

	// The registered path carries the placeholder segment, not the real
	// key: the key is user-mutable while the row identity is not.
	rowPath := path.Child(store.Key(placeholder))
	return rowID, c.visit(*node.Additional.Schema, rowID, rowPath, false)
}

func sortedStrings(object map[string]any) []string {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
