package listview

import "sync"

// SortStore remembers the sort choice of each list kind for a session, so
// every view of the same list opens with the user's last choice.
// It is safe for concurrent use.
type SortStore struct {
	mu    sync.RWMutex
	specs map[string]SortSpec
}

// NewSortStore returns an empty store.
func NewSortStore() *SortStore {
	return &SortStore{specs: make(map[string]SortSpec)}
}

// Get returns the stored spec for kind, or an ascending sort on
// defaultColumn when nothing was stored.
func (s *SortStore) Get(kind, defaultColumn string) SortSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if spec, ok := s.specs[kind]; ok {
		return spec
	}
	return SortSpec{Column: defaultColumn}
}

// Set stores spec for kind.
func (s *SortStore) Set(kind string, spec SortSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specs[kind] = spec
}

// Reset forgets every stored spec.
func (s *SortStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specs = make(map[string]SortSpec)
}
