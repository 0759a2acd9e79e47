package render

import theme "github.com/goliatone/go-theme"

// Options describe per-request presentation data renderers may use without
// touching the form pipeline.
type Options struct {
	// Action is the submission target for renderers that produce documents.
	Action string
	// Method overrides the submission verb. Renderers translate verbs their
	// medium cannot express natively.
	Method string
	// Theme carries the resolved go-theme configuration, nil for unthemed
	// output.
	Theme *theme.RendererConfig
}
