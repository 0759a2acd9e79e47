package schema

import (
	"fmt"
	"regexp"
	"strings"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

const maxInferredTitleLength = 50

// formatLabel converts a property key into a human-friendly title. It splits
// on underscores/dashes and camelCase boundaries.
func formatLabel(name string) string {
	if name == "" {
		return ""
	}

	words := splitWordsPattern.Split(name, -1)
	var segments []string
	for _, word := range words {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(splitCamel(word)))
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	words := strings.Fields(word)
	for i, w := range words {
		lower := strings.ToLower(w)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

// inferTitle labels a oneOf/anyOf branch that carries no explicit title.
// Order matters: explicit title, a const or single-value enum on the branch
// itself (allOf already merged by the caller), a lone property's name, the
// first configured candidate property holding a literal, any property
// holding a short literal, and finally the generic "Option N" fallback.
func (t *Transformer) inferTitle(raw map[string]any, index int) string {
	merged := mergeAllOf(raw)

	if title := sanitizeText(readString(merged, "title")); title != "" {
		return title
	}
	if value, ok := literalValue(merged); ok {
		return value
	}

	props := readMap(merged, "properties")
	if len(props) == 1 {
		for key := range props {
			return formatLabel(key)
		}
	}

	for _, candidate := range t.opts.TitleCandidates {
		prop, ok := props[candidate].(map[string]any)
		if !ok {
			continue
		}
		if value, ok := literalValue(mergeAllOf(prop)); ok {
			return value
		}
	}

	for _, key := range sortedKeys(props) {
		prop, ok := props[key].(map[string]any)
		if !ok {
			continue
		}
		if value, ok := literalValue(prop); ok && len(value) < maxInferredTitleLength {
			return value
		}
	}

	return fmt.Sprintf("Option %d", index+1)
}

// literalValue extracts a display string from a const, a single-value enum,
// or a default.
func literalValue(raw map[string]any) (string, bool) {
	if value, ok := displayString(raw["const"]); ok {
		return value, true
	}
	if list, ok := raw["enum"].([]any); ok && len(list) == 1 {
		if value, ok := displayString(list[0]); ok {
			return value, true
		}
	}
	if value, ok := displayString(raw["default"]); ok {
		return value, true
	}
	return "", false
}

func displayString(value any) (string, bool) {
	str, ok := value.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return "", false
	}
	return sanitizeText(str), true
}
