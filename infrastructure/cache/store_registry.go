package cache

import (
	"sync"

	"cwsdash/infrastructure/store"
)

// StoreRegistry owns the collection store of every live session.
type StoreRegistry struct {
	mu     sync.Mutex
	stores map[string]*store.Store
}

func NewStoreRegistry() *StoreRegistry {
	return &StoreRegistry{stores: make(map[string]*store.Store)}
}

// GetOrCreate returns the session's store, building and starting one with
// create when none exists. created reports whether create was called.
func (r *StoreRegistry) GetOrCreate(sessionID string, create func() *store.Store) (s *store.Store, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[sessionID]; ok {
		return s, false
	}
	s = create()
	r.stores[sessionID] = s
	return s, true
}

func (r *StoreRegistry) Get(sessionID string) (*store.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[sessionID]
	return s, ok
}

// Drop closes and forgets the session's store.
func (r *StoreRegistry) Drop(sessionID string) {
	r.mu.Lock()
	s, ok := r.stores[sessionID]
	delete(r.stores, sessionID)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}

func (r *StoreRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// CloseAll closes every store; used on shutdown.
func (r *StoreRegistry) CloseAll() {
	r.mu.Lock()
	stores := r.stores
	r.stores = make(map[string]*store.Store)
	r.mu.Unlock()
	for _, s := range stores {
		s.Close()
	}
}
