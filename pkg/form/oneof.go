package form

import (
	"fmt"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// SwitchVariant selects a oneOf branch for the owning identifier. Only the
// variant's content container is rebuilt; the owner keeps its identifier so
// leaf identifiers inside a re-selected branch never churn. Selecting the
// branch that is already active is a no-op on both store and registries.
//
// Store effect: a fresh object holding the owner's sibling properties
// (declared outside the oneOf, preserved from current data) merged with the
// new branch's generated default. Keys belonging to the previous branch are
// dropped on purpose: switching type does not promise to preserve
// incompatible shapes.
func (c *Context) SwitchVariant(identifier string, branch int) error {
	node, ok := c.nodes[identifier]
	if !ok {
		return fmt.Errorf("form: identifier %q is not registered", identifier)
	}
	if !node.HasVariants() {
		return fmt.Errorf("form: %q carries no variants", identifier)
	}
	if branch < 0 || branch >= len(node.OneOf) {
		return fmt.Errorf("form: variant %d out of range for %q", branch, identifier)
	}
	path, ok := c.idPaths[identifier]
	if !ok {
		return fmt.Errorf("form: identifier %q has no data path", identifier)
	}

	current, selected := c.variants[identifier]
	if selected && current == branch {
		return nil
	}

	if selected && current >= 0 && current < len(node.OneOf) {
		oldID := joinIdentifier(identifier, variantSegment(node.OneOf[current], current))
		c.unregisterSubtree(oldID)
		c.surface.Remove(oldID)
	}

	// Registration paths keep map-row placeholders; store writes must go
	// through the row's current key. A keyless row holds no data to swap.
	target := node.OneOf[branch]
	if dataPath, resolvable := c.ResolvedPathFor(identifier); resolvable {
		next := make(map[string]any)
		if value, ok := c.store.GetPath(dataPath); ok {
			if object, ok := value.(map[string]any); ok {
				for key := range node.Properties {
					if sibling, ok := object[key]; ok {
						next[key] = sibling
					}
				}
			}
		}

		generated := schema.Default(target)
		if record, ok := generated.(map[string]any); ok {
			for key, value := range record {
				next[key] = value
			}
			c.store.SetPath(dataPath, next)
		} else if len(node.Properties) == 0 {
			c.store.SetPath(dataPath, generated)
		} else {
			c.store.SetPath(dataPath, next)
		}
	}

	c.variants[identifier] = branch
	return c.visitBranch(target, branch, identifier, path)
}

// SelectedVariant reports the active branch index for a oneOf owner.
func (c *Context) SelectedVariant(identifier string) (int, bool) {
	branch, ok := c.variants[identifier]
	return branch, ok
}
