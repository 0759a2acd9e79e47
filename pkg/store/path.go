package store

import (
	"strconv"
	"strings"
)

// Segment is one step of a data path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key builds an object-key segment.
func Key(name string) Segment {
	return Segment{Key: name}
}

// Index builds an array-index segment.
func Index(position int) Segment {
	return Segment{Index: position, IsIndex: true}
}

// String renders the segment as it appears in canonical dotted paths.
func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path addresses a value inside the store's nested tree. The root segment is
// included by convention so renderers can decide whether to drop it when
// generating input names.
type Path []Segment

// Child returns a new path extended by one segment. The receiver is never
// mutated; reconciliation relies on parent paths staying stable while
// children are derived.
func (p Path) Child(segment Segment) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, segment)
}

// Parent splits the path into its prefix and final segment.
func (p Path) Parent() (Path, Segment, bool) {
	if len(p) == 0 {
		return nil, Segment{}, false
	}
	return p[:len(p)-1], p[len(p)-1], true
}

// String returns the canonical dotted form used as data-path registry keys.
func (p Path) String() string {
	parts := make([]string, 0, len(p))
	for _, segment := range p {
		parts = append(parts, segment.String())
	}
	return strings.Join(parts, ".")
}

// Pointer renders the path as a JSON pointer.
func (p Path) Pointer() string {
	var out strings.Builder
	for _, segment := range p {
		out.WriteByte('/')
		out.WriteString(escapePointerSegment(segment.String()))
	}
	return out.String()
}

// ParsePointer converts a JSON pointer into a Path. Numeric segments become
// index segments; store lookups fall back to the stringified key when the
// addressed container turns out to be an object.
func ParsePointer(pointer string) Path {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return nil
	}

	parts := strings.Split(trimmed, "/")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		segment := strings.ReplaceAll(part, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if index, err := strconv.Atoi(segment); err == nil && segment != "" && segment[0] != '+' {
			out = append(out, Index(index))
			continue
		}
		out = append(out, Key(segment))
	}
	return out
}

func escapePointerSegment(value string) string {
	value = strings.ReplaceAll(value, "~", "~0")
	return strings.ReplaceAll(value, "/", "~1")
}
