package manifest

import (
	"iter"
	"slices"
)

// Set is an insertion-ordered set of dependency names.
// The zero value is an empty set ready to use.
type Set struct {
	names []string
	index map[string]struct{}
}

// NewSet returns a set containing names, in order, without duplicates.
func NewSet(names ...string) *Set {
	s := &Set{}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name and reports whether it was new.
func (s *Set) Add(name string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

// Has reports whether name is in the set.
func (s *Set) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Len returns the number of names. A nil set is empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns a copy of the names in insertion order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.names)
}

// All iterates over the names in insertion order.
func (s *Set) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		if s == nil {
			return
		}
		for _, n := range s.names {
			if !yield(n) {
				return
			}
		}
	}
}
