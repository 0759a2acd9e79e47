package form

import (
	"sort"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/store"
	"github.com/goliatone/go-schemaform/pkg/validation"
)

// Translator key and fallback for the summarized oneOf/anyOf message. The
// branch-by-branch noise validators emit for every untried alternative is
// useless to a person filling a form; one sentence on the selector is enough.
const (
	selectionMessageKey      = "error.one_of"
	selectionMessageFallback = "A valid selection is required"
)

// Issue is one correlated validation problem. Identifier is empty when the
// error could not be matched to any registered element and was surfaced at
// the form level instead.
type Issue struct {
	Identifier string
	Pointer    string
	Message    string
	Keyword    string
	Params     map[string]any
}

// Correlate validates the current store snapshot and paints the results onto
// the surface. Field-level marks from the previous run are always cleared
// first. Errors whose pointer traverses a user-chosen map key resolve through
// segment-wise fuzzy matching against the registry's placeholder paths.
func (c *Context) Correlate() []Issue {
	c.surface.ClearInvalid()
	if c.validator == nil {
		c.surface.SetFormErrors(nil)
		return nil
	}

	raw := c.validator.Validate(c.store.Get())
	if len(raw) == 0 {
		c.surface.SetFormErrors(nil)
		return nil
	}

	issues := make([]Issue, 0, len(raw))
	var unmatched []string
	for _, failure := range c.summarize(raw) {
		target := targetPath(failure)
		identifier, found := c.resolveTarget(target)
		issues = append(issues, Issue{
			Identifier: identifier,
			Pointer:    target.Pointer(),
			Message:    failure.Message,
			Keyword:    failure.Keyword,
			Params:     failure.Params,
		})
		if found {
			c.surface.MarkInvalid(identifier, failure.Message)
		} else {
			unmatched = append(unmatched, failure.Message)
		}
	}
	c.surface.SetFormErrors(unmatched)
	return issues
}

// summarize collapses each pointer group containing a oneOf/anyOf failure
// into a single user-facing selection error, keeping only sibling required
// errors whose missing property has a visible element. Fields hidden inside
// an unselected branch must not receive phantom marks.
func (c *Context) summarize(raw []validation.Error) []validation.Error {
	groups := make(map[string][]validation.Error)
	order := make([]string, 0, len(raw))
	for _, failure := range raw {
		if _, seen := groups[failure.InstancePath]; !seen {
			order = append(order, failure.InstancePath)
		}
		groups[failure.InstancePath] = append(groups[failure.InstancePath], failure)
	}

	out := make([]validation.Error, 0, len(raw))
	for _, pointer := range order {
		group := groups[pointer]
		selection := -1
		for index, failure := range group {
			if failure.Keyword == validation.KeywordOneOf || failure.Keyword == validation.KeywordAnyOf {
				selection = index
				break
			}
		}
		if selection < 0 {
			out = append(out, group...)
			continue
		}

		summarized := group[selection]
		summarized.Message = c.cfg.Translator.Text(selectionMessageKey, selectionMessageFallback)
		out = append(out, summarized)
		for _, failure := range group {
			if failure.Keyword != validation.KeywordRequired {
				continue
			}
			if _, visible := c.resolveTarget(targetPath(failure)); visible {
				out = append(out, failure)
			}
		}
	}
	return out
}

// targetPath converts an error's instance pointer into the data path the
// mark should land on. Required errors are redirected to the missing
// property itself so the empty field is painted, not its container.
func targetPath(failure validation.Error) store.Path {
	path := store.ParsePointer(failure.InstancePath)
	if failure.Keyword == validation.KeywordRequired {
		if name := failure.MissingProperty(); name != "" {
			path = path.Child(store.Key(name))
		}
	}
	return path
}

// resolveTarget maps a data path to a registered identifier: exact registry
// lookup first, then fuzzy matching for paths through dynamic map keys.
func (c *Context) resolveTarget(path store.Path) (string, bool) {
	if identifier, ok := c.dataPaths[path.String()]; ok {
		return identifier, true
	}
	return c.fuzzyResolve(path)
}

// fuzzyResolve walks registry keys of equal segment length, treating a map
// row placeholder segment as a wildcard confirmed against the row's
// currently displayed key. Candidates are tried in sorted order so ties
// resolve deterministically.
func (c *Context) fuzzyResolve(path store.Path) (string, bool) {
	if len(path) == 0 {
		return "", false
	}

	keys := make([]string, 0, len(c.dataPaths))
	for key := range c.dataPaths {
		if key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		segments := strings.Split(key, ".")
		if len(segments) != len(path) {
			continue
		}
		identifier := c.dataPaths[key]
		matched := true
		for position, segment := range segments {
			literal := path[position].String()
			if segment == literal {
				continue
			}
			// Pointer parsing renders numeric map keys as index segments,
			// so a placeholder wildcards on the literal text either way.
			if !isMapRowSegment(segment) {
				matched = false
				break
			}
			rowID, ok := rowIdentifierIn(identifier, segment)
			if !ok {
				matched = false
				break
			}
			if current, known := c.rowKeys[rowID]; !known || current != literal {
				matched = false
				break
			}
		}
		if matched {
			return identifier, true
		}
	}
	return "", false
}
