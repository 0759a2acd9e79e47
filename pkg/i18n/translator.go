package i18n

import "strings"

// Translator resolves display text for a key, falling back to the supplied
// default when no translation exists. Implementations must be safe for
// concurrent reads; the library only ever calls Text.
type Translator interface {
	Text(key, fallback string) string
}

// Noop returns a Translator that always answers with the fallback.
func Noop() Translator {
	return noopTranslator{}
}

type noopTranslator struct{}

func (noopTranslator) Text(_, fallback string) string { return fallback }

// Map wraps a plain dictionary as a Translator. Lookups are exact-match on
// the key; empty translations fall back like missing ones.
func Map(entries map[string]string) Translator {
	if len(entries) == 0 {
		return noopTranslator{}
	}
	cloned := make(map[string]string, len(entries))
	for key, value := range entries {
		cloned[key] = value
	}
	return mapTranslator{entries: cloned}
}

type mapTranslator struct {
	entries map[string]string
}

func (t mapTranslator) Text(key, fallback string) string {
	if value, ok := t.entries[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
