package schema

// mergeAllOf flattens nested allOf lists into a single synthetic schema
// before typing. Merge policy: first-wins for title and type, key union with
// later override for properties, union for required, last-wins overwrite for
// scalar facets and for additionalProperties/oneOf/anyOf. The ordering is a
// policy choice; JSON Schema leaves allOf conflict resolution undefined.
func mergeAllOf(raw map[string]any) map[string]any {
	if raw == nil {
		return map[string]any{}
	}
	list, ok := raw["allOf"].([]any)
	if !ok || len(list) == 0 {
		return raw
	}

	entries := make([]map[string]any, 0, len(list)+1)
	base := make(map[string]any, len(raw))
	for key, value := range raw {
		if key != "allOf" {
			base[key] = value
		}
	}
	entries = append(entries, base)
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entries = append(entries, mergeAllOf(entry))
	}

	out := make(map[string]any)
	for _, entry := range entries {
		for _, key := range sortedKeys(entry) {
			value := entry[key]
			switch key {
			case "title", "type":
				if _, exists := out[key]; !exists {
					out[key] = value
				}
			case "properties":
				out[key] = mergeProperties(readMap(out, "properties"), value)
			case "required":
				out[key] = unionRequired(out["required"], value)
			default:
				out[key] = value
			}
		}
	}
	return out
}

func mergeProperties(existing map[string]any, incoming any) map[string]any {
	update, ok := incoming.(map[string]any)
	if !ok {
		return existing
	}
	out := make(map[string]any, len(existing)+len(update))
	for key, value := range existing {
		out[key] = value
	}
	for key, value := range update {
		out[key] = value
	}
	return out
}

func unionRequired(existing, incoming any) []any {
	var out []any
	seen := make(map[string]struct{})
	appendAll := func(value any) {
		list, ok := value.([]any)
		if !ok {
			return
		}
		for _, entry := range list {
			name, ok := entry.(string)
			if !ok {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	appendAll(existing)
	appendAll(incoming)
	return out
}
