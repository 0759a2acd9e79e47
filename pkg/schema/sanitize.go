package schema

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips every tag from schema-supplied display strings. Schemas
// are frequently third-party input; titles and descriptions end up in
// rendered markup verbatim.
var textPolicy = bluemonday.StrictPolicy()

func sanitizeText(value string) string {
	if value == "" {
		return ""
	}
	return strings.TrimSpace(textPolicy.Sanitize(value))
}
