package store

import (
	"strconv"
	"sync"
)

// Listener observes state replacements. Listeners run synchronously, in
// subscription order, after the new root value is swapped in. A listener
// must not mutate the same store from inside its notification; re-entrant
// writes would interleave registry rebuilds in undefined order.
type Listener func(value any)

// Store is a path-addressable container for one form instance's data. Every
// mutation produces a fresh root value (copy-on-write over the whole tree),
// so holders of a previous snapshot can rely on reference equality to detect
// change and are never affected by later writes.
type Store struct {
	mu        sync.RWMutex
	value     any
	listeners []listenerEntry
	nextID    int
}

type listenerEntry struct {
	id int
	fn Listener
}

// New constructs a store seeded with the supplied value.
func New(initial any) *Store {
	return &Store{value: initial}
}

// Get returns the current root value.
func (s *Store) Get() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// GetPath resolves a value. Missing intermediate segments report a miss
// rather than an error; callers treat absence as nothing to do.
func (s *Store) GetPath(path Path) (any, bool) {
	s.mu.RLock()
	current := s.value
	s.mu.RUnlock()

	for _, segment := range path {
		switch container := current.(type) {
		case map[string]any:
			key := segment.Key
			if segment.IsIndex {
				key = strconv.Itoa(segment.Index)
			}
			value, ok := container[key]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			if !segment.IsIndex || segment.Index < 0 || segment.Index >= len(container) {
				return nil, false
			}
			current = container[segment.Index]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set replaces the whole state and notifies subscribers.
func (s *Store) Set(value any) {
	s.swap(value)
}

// Reset replaces the whole state, conventionally with freshly generated
// default data on form load.
func (s *Store) Reset(value any) {
	s.swap(value)
}

// SetPath writes a value at the path, cloning the tree and creating
// intermediate containers as needed. Whether a missing container becomes an
// object or an array follows the next segment's kind. An empty path replaces
// the whole state.
func (s *Store) SetPath(path Path, value any) {
	if len(path) == 0 {
		s.swap(value)
		return
	}
	s.mu.Lock()
	next := setIn(cloneValue(s.value), path, value)
	s.mu.Unlock()
	s.swap(next)
}

// RemovePath deletes the value at the path: a splice when the parent is a
// sequence and the final segment is an index, a key delete otherwise. Paths
// that do not resolve are a no-op and notify nobody.
func (s *Store) RemovePath(path Path) {
	if len(path) == 0 {
		return
	}
	s.mu.Lock()
	next, removed := removeIn(cloneValue(s.value), path)
	s.mu.Unlock()
	if !removed {
		return
	}
	s.swap(next)
}

// Subscribe registers a listener and returns its removal function.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for index, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:index], s.listeners[index+1:]...)
				return
			}
		}
	}
}

func (s *Store) swap(value any) {
	s.mu.Lock()
	s.value = value
	notify := make([]listenerEntry, len(s.listeners))
	copy(notify, s.listeners)
	s.mu.Unlock()

	for _, entry := range notify {
		entry.fn(value)
	}
}

func setIn(current any, path Path, value any) any {
	if len(path) == 0 {
		return value
	}
	segment := path[0]

	if segment.IsIndex {
		list, ok := current.([]any)
		if !ok {
			list = []any{}
		}
		for len(list) <= segment.Index {
			list = append(list, nil)
		}
		list[segment.Index] = setIn(list[segment.Index], path[1:], value)
		return list
	}

	object, ok := current.(map[string]any)
	if !ok {
		object = map[string]any{}
	}
	object[segment.Key] = setIn(object[segment.Key], path[1:], value)
	return object
}

func removeIn(current any, path Path) (any, bool) {
	segment := path[0]

	if len(path) == 1 {
		switch container := current.(type) {
		case []any:
			if segment.IsIndex && segment.Index >= 0 && segment.Index < len(container) {
				return append(container[:segment.Index], container[segment.Index+1:]...), true
			}
			return current, false
		case map[string]any:
			key := segment.Key
			if segment.IsIndex {
				key = strconv.Itoa(segment.Index)
			}
			if _, ok := container[key]; ok {
				delete(container, key)
				return container, true
			}
			return current, false
		default:
			return current, false
		}
	}

	switch container := current.(type) {
	case []any:
		if !segment.IsIndex || segment.Index < 0 || segment.Index >= len(container) {
			return current, false
		}
		child, removed := removeIn(container[segment.Index], path[1:])
		if !removed {
			return current, false
		}
		container[segment.Index] = child
		return container, true
	case map[string]any:
		key := segment.Key
		if segment.IsIndex {
			key = strconv.Itoa(segment.Index)
		}
		value, ok := container[key]
		if !ok {
			return current, false
		}
		child, removed := removeIn(value, path[1:])
		if !removed {
			return current, false
		}
		container[key] = child
		return container, true
	default:
		return current, false
	}
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, entry := range typed {
			out[key] = cloneValue(entry)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for index, entry := range typed {
			out[index] = cloneValue(entry)
		}
		return out
	default:
		return typed
	}
}
