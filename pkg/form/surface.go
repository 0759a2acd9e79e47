package form

import (
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
)

// Surface is the visual collaborator that owns concrete elements. The core
// never inspects what a surface builds; it only threads identifiers through
// and paints validation state onto them.
type Surface interface {
	// Mount materializes the element for a node. Called once per visited
	// node during reconciliation, parents before children.
	Mount(node schema.Node, identifier string, dataPath store.Path) error
	// Remove tears down an element and everything mounted beneath it.
	Remove(identifier string)
	// MarkInvalid paints a validation message at the element's placeholder.
	MarkInvalid(identifier, message string)
	// ClearInvalid erases all painted validation state.
	ClearInvalid()
	// SetFormErrors surfaces messages that resolve to no element at a
	// form-level location. Nil clears it.
	SetFormErrors(messages []string)
}

// NopSurface discards everything. Useful for headless reconciliation (tests,
// data-only pipelines).
type NopSurface struct{}

func (NopSurface) Mount(schema.Node, string, store.Path) error { return nil }
func (NopSurface) Remove(string)                               {}
func (NopSurface) MarkInvalid(string, string)                  {}
func (NopSurface) ClearInvalid()                               {}
func (NopSurface) SetFormErrors([]string)                      {}
