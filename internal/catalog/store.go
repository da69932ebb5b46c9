package catalog

import "iter"

// Store is a name-keyed map that remembers insertion order.
type Store[V any] struct {
	order []string
	items map[string]V
}

// NewStore creates an empty Store.
func NewStore[V any]() *Store[V] {
	return &Store[V]{items: make(map[string]V)}
}

// Add stores v under name unless name is already present. It reports whether
// v was stored.
func (s *Store[V]) Add(name string, v V) bool {
	if _, ok := s.items[name]; ok {
		return false
	}
	s.Set(name, v)
	return true
}

// Set stores v under name, replacing any previous value in place.
func (s *Store[V]) Set(name string, v V) {
	if _, ok := s.items[name]; !ok {
		s.order = append(s.order, name)
	}
	s.items[name] = v
}

// Get returns the value stored under name.
func (s *Store[V]) Get(name string) (V, bool) {
	v, ok := s.items[name]
	return v, ok
}

// Has reports whether name is present.
func (s *Store[V]) Has(name string) bool {
	_, ok := s.items[name]
	return ok
}

// Len returns the number of entries.
func (s *Store[V]) Len() int { return len(s.order) }

// All yields the entries in insertion order.
func (s *Store[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, name := range s.order {
			if !yield(name, s.items[name]) {
				return
			}
		}
	}
}

// Values returns the values in insertion order.
func (s *Store[V]) Values() []V {
	out := make([]V, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.items[name])
	}
	return out
}
