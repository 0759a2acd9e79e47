package html

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/store"
)

// InputName converts a data path to the bracketed form-field notation most
// HTTP form decoders expect: the first segment stays bare and every nested
// segment is bracketed, so {server, ports, 0} becomes "server[ports][0]".
func InputName(path store.Path) string {
	if len(path) == 0 {
		return ""
	}

	var b strings.Builder
	for i, segment := range path {
		if i == 0 && !segment.IsIndex {
			b.WriteString(segment.Key)
			continue
		}
		b.WriteByte('[')
		if segment.IsIndex {
			b.WriteString(strconv.Itoa(segment.Index))
		} else {
			b.WriteString(segment.Key)
		}
		b.WriteByte(']')
	}
	return b.String()
}

// ControlID derives a DOM id from a placeholder identifier. Dots are not
// valid in CSS selectors without escaping, so they become hyphens.
func ControlID(identifier string) string {
	return strings.ReplaceAll(identifier, ".", "-")
}
