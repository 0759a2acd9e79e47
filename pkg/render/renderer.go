// Package render defines the renderer contract shared by the concrete
// output targets and the registry used to discover them.
package render

import (
	"context"

	"github.com/goliatone/go-schemaform/pkg/form"
)

// View is the render-ready snapshot of one form instance: a reconciled
// context whose registries already describe every visual element.
type View struct {
	// Title heads the rendered form. Falls back to the root node's title.
	Title string
	// Form carries the node tree, the registries and the data store.
	Form *form.Context
}

// Renderer converts a reconciled form into a byte representation (HTML, a
// terminal session transcript, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options Options) ([]byte, error)
}
