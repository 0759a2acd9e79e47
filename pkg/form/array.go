package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
)

// AppendItem adds one row at the end of a dynamically sized array and seeds
// its slot with the item schema's generated default. Returns the identifier
// of the new row.
func (c *Context) AppendItem(identifier string) (string, error) {
	node, ok := c.nodes[identifier]
	if !ok {
		return "", fmt.Errorf("form: identifier %q is not registered", identifier)
	}
	if node.Type != schema.TypeArray || node.Items == nil {
		return "", fmt.Errorf("form: %q is not a growable array", identifier)
	}
	path, ok := c.idPaths[identifier]
	if !ok {
		return "", fmt.Errorf("form: identifier %q has no data path", identifier)
	}

	index := c.listLength(path)
	if index < len(node.PrefixItems) {
		index = len(node.PrefixItems)
	}
	slot := path.Child(store.Index(index))
	c.store.SetPath(slot, schema.Default(*node.Items))

	rowID := joinIdentifier(identifier, indexSegment(index))
	return rowID, c.visit(*node.Items, rowID, slot, false)
}

// RemoveItem deletes an array row addressed by its identifier. The row's
// position is read from the identifier's final segment, which is accurate
// because identifiers are renumbered after every removal so they always run
// contiguously from zero. Rows after the removed one shift down and are
// re-rendered under their new identifiers.
func (c *Context) RemoveItem(identifier string) error {
	path, ok := c.idPaths[identifier]
	if !ok {
		return fmt.Errorf("form: identifier %q is not registered", identifier)
	}
	parentPath, last, ok := path.Parent()
	if !ok || !last.IsIndex {
		return fmt.Errorf("form: identifier %q is not an array row", identifier)
	}

	cut := strings.LastIndex(identifier, ".")
	if cut < 0 {
		return fmt.Errorf("form: identifier %q is not an array row", identifier)
	}
	parentID := identifier[:cut]
	parent, ok := c.nodes[parentID]
	if !ok || parent.Type != schema.TypeArray || parent.Items == nil {
		return fmt.Errorf("form: %q does not belong to a growable array", identifier)
	}
	index := last.Index
	if index < len(parent.PrefixItems) {
		return fmt.Errorf("form: tuple slot %d of %q cannot be removed", index, parentID)
	}

	c.store.RemovePath(path)
	length := c.listLength(parentPath)

	// Rows past the removed one shift down a slot; their branch selections
	// must follow them to the renumbered identifiers.
	carried := make(map[string]int)
	for position := index + 1; position <= length; position++ {
		oldRowID := joinIdentifier(parentID, indexSegment(position))
		newRowID := joinIdentifier(parentID, indexSegment(position-1))
		c.carryVariants(oldRowID, newRowID, carried)
	}

	// Registrations from the removed index onward are stale: the rows they
	// described either moved down a slot or no longer exist.
	for position := index; position <= length; position++ {
		rowID := joinIdentifier(parentID, indexSegment(position))
		c.unregisterSubtree(rowID)
		c.surface.Remove(rowID)
	}
	for id, branch := range carried {
		c.variants[id] = branch
	}
	for position := index; position < length; position++ {
		rowID := joinIdentifier(parentID, indexSegment(position))
		if err := c.visit(*parent.Items, rowID, parentPath.Child(store.Index(position)), false); err != nil {
			return err
		}
	}
	return nil
}
