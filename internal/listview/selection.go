package listview

// Selection tracks the checked state of the items on the visible page.
// The zero value is an empty selection.
//
// After Reconcile the tracked ids are exactly the ids passed in. Values of ids
// that stay visible survive re-sorts and page changes.
type Selection[K comparable] struct {
	checked map[K]bool
	order   []K
}

// NewSelection returns an empty selection.
func NewSelection[K comparable]() *Selection[K] {
	return &Selection[K]{checked: make(map[K]bool)}
}

// Reconcile adds visible ids that are not tracked yet (unchecked) and drops
// tracked ids that are no longer visible. Calling it twice with the same ids
// changes nothing.
func (s *Selection[K]) Reconcile(visible []K) {
	if s.checked == nil {
		s.checked = make(map[K]bool, len(visible))
	}
	seen := make(map[K]struct{}, len(visible))
	order := make([]K, 0, len(visible))
	for _, id := range visible {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		order = append(order, id)
		if _, ok := s.checked[id]; !ok {
			s.checked[id] = false
		}
	}
	for id := range s.checked {
		if _, ok := seen[id]; !ok {
			delete(s.checked, id)
		}
	}
	s.order = order
}

// Toggle flips the state of a tracked id. It returns false when id is not on
// the visible page.
func (s *Selection[K]) Toggle(id K) bool {
	v, ok := s.checked[id]
	if !ok {
		return false
	}
	s.checked[id] = !v
	return true
}

// Set changes the state of a tracked id.
func (s *Selection[K]) Set(id K, value bool) bool {
	if _, ok := s.checked[id]; !ok {
		return false
	}
	s.checked[id] = value
	return true
}

// SetAll sets every tracked id to value.
func (s *Selection[K]) SetAll(value bool) {
	for id := range s.checked {
		s.checked[id] = value
	}
}

// Any reports whether at least one tracked id is checked.
func (s *Selection[K]) Any() bool {
	for _, v := range s.checked {
		if v {
			return true
		}
	}
	return false
}

// IsChecked reports the state of id; untracked ids are unchecked.
func (s *Selection[K]) IsChecked(id K) bool {
	return s.checked[id]
}

// Tracked reports whether id is on the visible page.
func (s *Selection[K]) Tracked(id K) bool {
	_, ok := s.checked[id]
	return ok
}

// Len returns the number of tracked ids.
func (s *Selection[K]) Len() int {
	return len(s.checked)
}

// Selected returns the checked ids in visible order.
func (s *Selection[K]) Selected() []K {
	var out []K
	for _, id := range s.order {
		if s.checked[id] {
			out = append(out, id)
		}
	}
	return out
}

// Snapshot copies the tracked state.
func (s *Selection[K]) Snapshot() map[K]bool {
	out := make(map[K]bool, len(s.checked))
	for id, v := range s.checked {
		out[id] = v
	}
	return out
}
