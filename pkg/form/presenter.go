package form

import (
	"sort"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
)

// Presenter overrides presentation for every identifier ending in its
// declared suffix. A presenter registered for "tls" handles any identifier
// ending in ".tls"; a longer declared suffix always wins over a shorter one.
type Presenter interface {
	Suffix() string
	Present(ctx *Context, node schema.Node, identifier string, dataPath store.Path) error
}

// PresenterFunc builds a Presenter from a suffix and a function.
func PresenterFunc(suffix string, fn func(ctx *Context, node schema.Node, identifier string, dataPath store.Path) error) Presenter {
	return presenterFunc{suffix: suffix, fn: fn}
}

type presenterFunc struct {
	suffix string
	fn     func(ctx *Context, node schema.Node, identifier string, dataPath store.Path) error
}

func (p presenterFunc) Suffix() string { return p.suffix }

func (p presenterFunc) Present(ctx *Context, node schema.Node, identifier string, dataPath store.Path) error {
	if p.fn == nil {
		return nil
	}
	return p.fn(ctx, node, identifier, dataPath)
}

// presenterSet keeps presenters sorted by declared-suffix specificity so the
// longest match resolves without comparing every candidate's length per
// lookup.
type presenterSet struct {
	entries []Presenter
}

func newPresenterSet(presenters []Presenter) *presenterSet {
	entries := make([]Presenter, 0, len(presenters))
	for _, presenter := range presenters {
		if presenter == nil || strings.TrimSpace(presenter.Suffix()) == "" {
			continue
		}
		entries = append(entries, presenter)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		left, right := entries[i].Suffix(), entries[j].Suffix()
		if count := strings.Count(left, "."); count != strings.Count(right, ".") {
			return count > strings.Count(right, ".")
		}
		return len(left) > len(right)
	})
	return &presenterSet{entries: entries}
}

// match returns the most specific presenter whose suffix terminates the
// identifier on a segment boundary.
func (s *presenterSet) match(identifier string) Presenter {
	if s == nil {
		return nil
	}
	for _, presenter := range s.entries {
		suffix := presenter.Suffix()
		if identifier == suffix || strings.HasSuffix(identifier, "."+suffix) {
			return presenter
		}
	}
	return nil
}
