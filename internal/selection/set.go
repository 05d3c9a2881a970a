package selection

// Set is a membership set that remembers insertion order.
//
// Membership is what matters to the rest of the application; the order is
// only used to produce stable output when the set is flattened.
type Set[K comparable] struct {
	order []K
	index map[K]struct{}
}

// NewSet returns a set holding items. Duplicates are ignored.
func NewSet[K comparable](items ...K) Set[K] {
	var s Set[K]
	s.Replace(items)
	return s
}

// Has reports whether k is a member.
func (s *Set[K]) Has(k K) bool {
	_, ok := s.index[k]
	return ok
}

// Add inserts k and reports whether it was not yet a member.
func (s *Set[K]) Add(k K) bool {
	if s.index == nil {
		s.index = make(map[K]struct{})
	}
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = struct{}{}
	s.order = append(s.order, k)
	return true
}

// Remove deletes k and reports whether it was a member.
func (s *Set[K]) Remove(k K) bool {
	if _, ok := s.index[k]; !ok {
		return false
	}
	delete(s.index, k)
	for i, item := range s.order {
		if item == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Replace makes items the new content of the set.
func (s *Set[K]) Replace(items []K) {
	s.order = make([]K, 0, len(items))
	s.index = make(map[K]struct{}, len(items))
	for _, k := range items {
		s.Add(k)
	}
}

// Len returns the number of members.
func (s *Set[K]) Len() int {
	return len(s.order)
}

// Items returns the members in insertion order.
func (s *Set[K]) Items() []K {
	out := make([]K, len(s.order))
	copy(out, s.order)
	return out
}

// Clone returns an independent copy of the set.
func (s *Set[K]) Clone() Set[K] {
	return NewSet(s.order...)
}
