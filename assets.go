package schemaform

import (
	"io/fs"

	html "github.com/goliatone/go-schemaform/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// EmbeddedAssets exposes the built-in stylesheet bundle for callers that
// serve the HTML renderer's assets themselves.
func EmbeddedAssets() fs.FS {
	return html.AssetsFS()
}
