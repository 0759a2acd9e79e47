package jsonschema

import (
	"errors"
	"fmt"
	"strings"
)

const defaultMaxRefDepth = 64

// ResolveOptions configures $ref expansion.
type ResolveOptions struct {
	// MaxRefDepth caps the depth of $ref resolution chains.
	MaxRefDepth int
}

// Resolver expands local $ref pointers ("#/...") so downstream consumers see
// a self-contained schema. External document refs are out of scope here and
// reported as errors rather than silently dropped.
type Resolver struct {
	opts ResolveOptions
}

// NewResolver constructs a resolver with guardrails applied.
func NewResolver(opts ResolveOptions) *Resolver {
	if opts.MaxRefDepth <= 0 {
		opts.MaxRefDepth = defaultMaxRefDepth
	}
	return &Resolver{opts: opts}
}

type resolveState struct {
	root    map[string]any
	depth   int
	max     int
	inStack map[string]struct{}
}

// Resolve returns a deep copy of payload with every local $ref expanded.
func (r *Resolver) Resolve(payload map[string]any) (map[string]any, error) {
	if payload == nil {
		return nil, errors.New("jsonschema: payload is nil")
	}

	state := &resolveState{
		root:    payload,
		max:     r.opts.MaxRefDepth,
		inStack: make(map[string]struct{}),
	}
	resolved, err := resolveValue(payload, state)
	if err != nil {
		return nil, err
	}
	output, ok := resolved.(map[string]any)
	if !ok {
		return nil, errors.New("jsonschema: resolved root is not an object")
	}
	return output, nil
}

func resolveValue(value any, state *resolveState) (any, error) {
	if state.depth > state.max {
		return nil, fmt.Errorf("jsonschema: ref depth exceeds %d", state.max)
	}

	switch typed := value.(type) {
	case map[string]any:
		if ref, ok := typed["$ref"].(string); ok {
			return resolveRef(ref, typed, state)
		}
		out := make(map[string]any, len(typed))
		for key, entry := range typed {
			state.depth++
			resolved, err := resolveValue(entry, state)
			state.depth--
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(typed))
		for _, entry := range typed {
			state.depth++
			resolved, err := resolveValue(entry, state)
			state.depth--
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
		}
		return out, nil
	default:
		return value, nil
	}
}

func resolveRef(ref string, site map[string]any, state *resolveState) (any, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, fmt.Errorf("jsonschema: non-local ref %q is not supported", ref)
	}
	if _, active := state.inStack[ref]; active {
		return nil, fmt.Errorf("jsonschema: cyclic ref %q", ref)
	}

	target, err := lookupPointer(state.root, strings.TrimPrefix(ref, "#"))
	if err != nil {
		return nil, err
	}

	state.inStack[ref] = struct{}{}
	state.depth++
	resolved, err := resolveValue(target, state)
	state.depth--
	delete(state.inStack, ref)
	if err != nil {
		return nil, err
	}

	// Sibling keywords at the ref site overlay the referenced schema.
	object, ok := resolved.(map[string]any)
	if !ok || len(site) == 1 {
		return resolved, nil
	}
	merged := make(map[string]any, len(object)+len(site))
	for key, entry := range object {
		merged[key] = entry
	}
	for key, entry := range site {
		if key == "$ref" {
			continue
		}
		state.depth++
		value, err := resolveValue(entry, state)
		state.depth--
		if err != nil {
			return nil, err
		}
		merged[key] = value
	}
	return merged, nil
}

func lookupPointer(root map[string]any, pointer string) (any, error) {
	if pointer == "" || pointer == "/" {
		return root, nil
	}

	var current any = root
	for _, segment := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")

		object, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("jsonschema: pointer #%s traverses a non-object", pointer)
		}
		current, ok = object[segment]
		if !ok {
			return nil, fmt.Errorf("jsonschema: pointer #%s has no segment %q", pointer, segment)
		}
	}
	return current, nil
}
