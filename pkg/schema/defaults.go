package schema

import "strings"

// Default synthesizes the minimal data value consistent with the node's
// schema. Optional scalar properties are deliberately left out of generated
// objects so empty data does not accumulate; nested containers are always
// materialized so later path writes have somewhere to land.
func Default(node Node) any {
	if node.Default != nil {
		return node.Default
	}

	switch node.Type {
	case TypeObject:
		out := make(map[string]any)
		for _, key := range node.PropertyKeys() {
			prop := node.Properties[key]
			if prop.Required || prop.Default != nil || prop.Type == TypeObject || prop.Type == TypeArray {
				out[key] = Default(prop)
			}
		}
		if node.HasVariants() {
			branch := node.OneOf[DefaultBranch(node)]
			if record, ok := Default(branch).(map[string]any); ok {
				// Shallow merge keeps sibling properties seeded above.
				for key, value := range record {
					out[key] = value
				}
			}
		}
		return out
	case TypeArray:
		if len(node.PrefixItems) > 0 {
			out := make([]any, 0, len(node.PrefixItems))
			for _, slot := range node.PrefixItems {
				out = append(out, Default(slot))
			}
			return out
		}
		return []any{}
	case TypeBoolean:
		if len(node.Enum) > 0 {
			return node.Enum[0]
		}
		return false
	case TypeNumber:
		if len(node.Enum) > 0 {
			return node.Enum[0]
		}
		return float64(0)
	case TypeInteger:
		if len(node.Enum) > 0 {
			return node.Enum[0]
		}
		return 0
	case TypeNull:
		return nil
	default:
		if len(node.Enum) > 0 {
			return node.Enum[0]
		}
		return ""
	}
}

// DefaultBranch picks the variant seeded before any user selection: a
// null-typed branch, else a branch titled "null"/"none", else the first.
func DefaultBranch(node Node) int {
	for index, branch := range node.OneOf {
		if branch.Type == TypeNull {
			return index
		}
	}
	for index, branch := range node.OneOf {
		switch strings.ToLower(strings.TrimSpace(branch.Title)) {
		case "null", "none":
			return index
		}
	}
	return 0
}
