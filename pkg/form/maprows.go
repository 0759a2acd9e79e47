package form

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
)

// AddMapRow creates a new row in a map region. When defaultKey is non-empty
// the row is seeded in the store under that key; with an empty key the row
// exists visually but contributes no data until the user names it. Returns
// the new row's identifier.
func (c *Context) AddMapRow(identifier, defaultKey string) (string, error) {
	node, ok := c.nodes[identifier]
	if !ok {
		return "", fmt.Errorf("form: identifier %q is not registered", identifier)
	}
	if !node.IsMap() {
		return "", fmt.Errorf("form: %q does not accept additional properties", identifier)
	}
	path, ok := c.idPaths[identifier]
	if !ok {
		return "", fmt.Errorf("form: identifier %q has no data path", identifier)
	}

	if defaultKey != "" {
		c.store.SetPath(path.Child(store.Key(defaultKey)), schema.Default(*node.Additional.Schema))
	}
	return c.mountMapRow(node, identifier, path, defaultKey)
}

// RenameMapKey moves a map row's value from its current key to newKey. The
// row keeps its identifier and placeholder; only the data key moves. Renaming
// onto an existing sibling key is refused as a silent no-op so a half-typed
// key can never clobber another row's data. Renaming a previously keyless
// row synthesizes the value schema's default under the new key.
func (c *Context) RenameMapKey(identifier, newKey string) error {
	oldKey, ok := c.rowKeys[identifier]
	if !ok {
		return fmt.Errorf("form: identifier %q is not a map row", identifier)
	}
	if newKey == oldKey {
		return nil
	}
	rowPath, ok := c.idPaths[identifier]
	if !ok {
		return fmt.Errorf("form: identifier %q has no data path", identifier)
	}
	parentPath, _, _ := rowPath.Parent()

	_, node, err := c.mapContainerOf(identifier)
	if err != nil {
		return err
	}

	if newKey != "" {
		if _, exists := c.store.GetPath(parentPath.Child(store.Key(newKey))); exists {
			return nil
		}
	}

	var value any
	moved := false
	if oldKey != "" {
		oldSlot := parentPath.Child(store.Key(oldKey))
		if current, ok := c.store.GetPath(oldSlot); ok {
			value = current
			moved = true
		}
		c.store.RemovePath(oldSlot)
	}
	if !moved {
		value = schema.Default(*node.Additional.Schema)
	}
	if newKey != "" {
		c.store.SetPath(parentPath.Child(store.Key(newKey)), value)
	}
	c.rowKeys[identifier] = newKey
	return nil
}

// RemoveMapRow deletes a map row and the data under its current key, then
// renumbers the container's surviving rows so placeholder ordinals stay
// dense.
func (c *Context) RemoveMapRow(identifier string) error {
	key, ok := c.rowKeys[identifier]
	if !ok {
		return fmt.Errorf("form: identifier %q is not a map row", identifier)
	}
	rowPath, ok := c.idPaths[identifier]
	if !ok {
		return fmt.Errorf("form: identifier %q has no data path", identifier)
	}
	parentPath, _, _ := rowPath.Parent()

	containerID, node, err := c.mapContainerOf(identifier)
	if err != nil {
		return err
	}

	if key != "" {
		c.store.RemovePath(parentPath.Child(store.Key(key)))
	}

	// Surviving rows remount under fresh ordinals assigned in the same
	// order, so each row's branch selections can be re-seated up front.
	rows := c.containerRows(containerID)
	surviving := make([]string, 0, len(rows))
	carried := make(map[string]int)
	for _, rowID := range rows {
		if rowID == identifier {
			continue
		}
		newRowID := joinIdentifier(containerID, fmt.Sprintf("%s%d", mapRowPrefix, len(surviving)))
		c.carryVariants(rowID, newRowID, carried)
		surviving = append(surviving, c.rowKeys[rowID])
	}
	for _, rowID := range rows {
		c.unregisterSubtree(rowID)
		c.surface.Remove(rowID)
	}
	for id, branch := range carried {
		c.variants[id] = branch
	}

	c.rowSeq[containerID] = 0
	for _, rowKey := range surviving {
		if _, err := c.mountMapRow(node, containerID, parentPath, rowKey); err != nil {
			return err
		}
	}
	return nil
}

// mapContainerOf resolves the map container owning a row identifier.
func (c *Context) mapContainerOf(identifier string) (string, schema.Node, error) {
	cut := strings.LastIndex(identifier, ".")
	if cut < 0 {
		return "", schema.Node{}, fmt.Errorf("form: identifier %q is not a map row", identifier)
	}
	containerID := identifier[:cut]
	node, ok := c.nodes[containerID]
	if !ok || !node.IsMap() {
		return "", schema.Node{}, fmt.Errorf("form: %q does not belong to a map region", identifier)
	}
	return containerID, node, nil
}

// containerRows lists a container's row identifiers in placeholder order.
func (c *Context) containerRows(containerID string) []string {
	prefix := containerID + "." + mapRowPrefix
	rows := make([]string, 0, 4)
	for rowID := range c.rowKeys {
		if strings.HasPrefix(rowID, prefix) && !strings.Contains(rowID[len(prefix):], ".") {
			rows = append(rows, rowID)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rowOrdinal(rows[i]) < rowOrdinal(rows[j])
	})
	return rows
}

func rowOrdinal(identifier string) int {
	cut := strings.LastIndex(identifier, mapRowPrefix)
	if cut < 0 {
		return 0
	}
	ordinal, err := strconv.Atoi(identifier[cut+len(mapRowPrefix):])
	if err != nil {
		return 0
	}
	return ordinal
}
