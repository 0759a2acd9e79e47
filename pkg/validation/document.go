package validation

import (
	"fmt"
	"sort"
	"strings"
)

// knownTypes lists the type keyword values the transformer understands.
var knownTypes = map[string]struct{}{
	"string": {}, "number": {}, "integer": {}, "boolean": {},
	"object": {}, "array": {}, "null": {},
}

// CheckDocument lints a decoded schema payload for structural problems the
// transformer would otherwise paper over: unknown type names, malformed
// properties or items, non-local references and required entries that are not
// strings. The result uses the same Error shape validators produce, with
// InstancePath pointing into the schema document.
func CheckDocument(payload map[string]any) []Error {
	var out []Error
	checkFragment(payload, "", &out)
	return out
}

func checkFragment(fragment map[string]any, pointer string, out *[]Error) {
	if ref, ok := fragment["$ref"]; ok {
		if text, isString := ref.(string); !isString || !strings.HasPrefix(text, "#") {
			*out = append(*out, Error{
				InstancePath: pointer + "/$ref",
				Keyword:      "$ref",
				Message:      "reference must be a local pointer starting with #",
			})
		}
	}

	if raw, ok := fragment["type"]; ok {
		checkType(raw, pointer, out)
	}

	if raw, ok := fragment["required"]; ok {
		entries, isList := raw.([]any)
		if !isList {
			*out = append(*out, Error{
				InstancePath: pointer + "/required",
				Keyword:      "required",
				Message:      "required must be an array of property names",
			})
		} else {
			for i, entry := range entries {
				if _, isString := entry.(string); !isString {
					*out = append(*out, Error{
						InstancePath: fmt.Sprintf("%s/required/%d", pointer, i),
						Keyword:      "required",
						Message:      "required entries must be strings",
					})
				}
			}
		}
	}

	if raw, ok := fragment["enum"]; ok {
		if _, isList := raw.([]any); !isList {
			*out = append(*out, Error{
				InstancePath: pointer + "/enum",
				Keyword:      "enum",
				Message:      "enum must be an array",
			})
		}
	}

	if raw, ok := fragment["properties"]; ok {
		record, isRecord := raw.(map[string]any)
		if !isRecord {
			*out = append(*out, Error{
				InstancePath: pointer + "/properties",
				Keyword:      "properties",
				Message:      "properties must be an object",
			})
		} else {
			for _, key := range sortedKeys(record) {
				child, isChild := record[key].(map[string]any)
				childPointer := pointer + "/properties/" + escapePointer(key)
				if !isChild {
					*out = append(*out, Error{
						InstancePath: childPointer,
						Keyword:      "properties",
						Message:      "property schema must be an object",
					})
					continue
				}
				checkFragment(child, childPointer, out)
			}
		}
	}

	if raw, ok := fragment["items"]; ok {
		if child, isChild := raw.(map[string]any); isChild {
			checkFragment(child, pointer+"/items", out)
		} else {
			*out = append(*out, Error{
				InstancePath: pointer + "/items",
				Keyword:      "items",
				Message:      "items must be a schema object",
			})
		}
	}

	if raw, ok := fragment["additionalProperties"]; ok {
		switch child := raw.(type) {
		case bool:
		case map[string]any:
			checkFragment(child, pointer+"/additionalProperties", out)
		default:
			*out = append(*out, Error{
				InstancePath: pointer + "/additionalProperties",
				Keyword:      "additionalProperties",
				Message:      "additionalProperties must be a boolean or schema object",
			})
		}
	}

	for _, keyword := range []string{"oneOf", "anyOf", "allOf"} {
		raw, ok := fragment[keyword]
		if !ok {
			continue
		}
		branches, isList := raw.([]any)
		if !isList {
			*out = append(*out, Error{
				InstancePath: pointer + "/" + keyword,
				Keyword:      keyword,
				Message:      keyword + " must be an array of schemas",
			})
			continue
		}
		for i, branch := range branches {
			child, isChild := branch.(map[string]any)
			childPointer := fmt.Sprintf("%s/%s/%d", pointer, keyword, i)
			if !isChild {
				*out = append(*out, Error{
					InstancePath: childPointer,
					Keyword:      keyword,
					Message:      "branch must be a schema object",
				})
				continue
			}
			checkFragment(child, childPointer, out)
		}
	}
}

func checkType(raw any, pointer string, out *[]Error) {
	report := func(name string) {
		*out = append(*out, Error{
			InstancePath: pointer + "/type",
			Keyword:      "type",
			Message:      fmt.Sprintf("unknown type %q", name),
		})
	}

	switch value := raw.(type) {
	case string:
		if _, ok := knownTypes[value]; !ok {
			report(value)
		}
	case []any:
		for _, entry := range value {
			name, isString := entry.(string)
			if !isString {
				*out = append(*out, Error{
					InstancePath: pointer + "/type",
					Keyword:      "type",
					Message:      "type entries must be strings",
				})
				continue
			}
			if _, ok := knownTypes[name]; !ok {
				report(name)
			}
		}
	default:
		*out = append(*out, Error{
			InstancePath: pointer + "/type",
			Keyword:      "type",
			Message:      "type must be a string or array of strings",
		})
	}
}

func sortedKeys(record map[string]any) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func escapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}
