package html

import (
	"strings"
	"sync"

	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
)

// Field is one mounted element in document order.
type Field struct {
	Identifier string
	Node       schema.Node
	Path       store.Path
	Error      string
}

// Surface collects mounted fields so the renderer can lay them out in the
// order reconciliation produced them. It is safe for concurrent use with the
// form engine on one goroutine and renders on another.
type Surface struct {
	mu         sync.Mutex
	order      []string
	fields     map[string]*Field
	formErrors []string
}

// NewSurface returns an empty surface ready to hand to the form engine.
func NewSurface() *Surface {
	return &Surface{fields: map[string]*Field{}}
}

// Mount records the element. Remounting an identifier updates it in place so
// the original document position is preserved.
func (s *Surface) Mount(node schema.Node, identifier string, dataPath store.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.fields[identifier]; ok {
		existing.Node = node
		existing.Path = dataPath
		return nil
	}
	s.order = append(s.order, identifier)
	s.fields[identifier] = &Field{Identifier: identifier, Node: node, Path: dataPath}
	return nil
}

// Remove drops the element and everything mounted beneath it.
func (s *Surface) Remove(identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := identifier + "."
	kept := s.order[:0]
	for _, id := range s.order {
		if id == identifier || strings.HasPrefix(id, prefix) {
			delete(s.fields, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

func (s *Surface) MarkInvalid(identifier, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if field, ok := s.fields[identifier]; ok {
		field.Error = message
	}
}

func (s *Surface) ClearInvalid() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, field := range s.fields {
		field.Error = ""
	}
}

func (s *Surface) SetFormErrors(messages []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(messages) == 0 {
		s.formErrors = nil
		return
	}
	s.formErrors = append([]string(nil), messages...)
}

// Fields returns a snapshot of the mounted elements in document order.
func (s *Surface) Fields() []Field {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Field, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.fields[id])
	}
	return out
}

// FormErrors returns a snapshot of form-level messages.
func (s *Surface) FormErrors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.formErrors...)
}
