package form

import (
	"strconv"
	"strings"
)

const (
	// variantPrefix marks identifier segments synthesized for keyless oneOf
	// branches so path-resolution logic can recognize and skip them.
	variantPrefix = "__opt_"
	// mapRowPrefix marks the synthetic row index assigned to dynamically
	// keyed map rows. The placeholder stays stable for the row's lifetime
	// while the user-chosen key may change at any point.
	mapRowPrefix = "__ap_"
)

func joinIdentifier(parent, segment string) string {
	if parent == "" {
		return segment
	}
	if segment == "" {
		return parent
	}
	return parent + "." + segment
}

// sanitizeSegment folds an arbitrary title or key into a dot-free identifier
// segment.
func sanitizeSegment(value string) string {
	var out strings.Builder
	out.Grow(len(value))
	for _, r := range strings.TrimSpace(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			out.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			out.WriteRune(r + ('a' - 'A'))
		default:
			out.WriteByte('_')
		}
	}
	return out.String()
}

func indexSegment(index int) string {
	return strconv.Itoa(index)
}

func isMapRowSegment(segment string) bool {
	return strings.HasPrefix(segment, mapRowPrefix)
}

// rowIdentifierIn returns the identifier prefix of the map row owning the
// given placeholder segment, scanning the identifier's own segments.
func rowIdentifierIn(identifier, placeholder string) (string, bool) {
	segments := strings.Split(identifier, ".")
	for index, segment := range segments {
		if segment == placeholder {
			return strings.Join(segments[:index+1], "."), true
		}
	}
	return "", false
}
