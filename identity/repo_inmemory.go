package identity

import (
	"fmt"
	"sync"
)

// InMemoryStore is a thread-safe in-memory implementation of Store.
// Records live for the process lifetime only.
type InMemoryStore struct {
	mu         sync.RWMutex
	identities map[string]Identity
}

// NewInMemoryStore creates a new in-memory identity store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		identities: make(map[string]Identity),
	}
}

// Upsert creates or replaces the record for the identity's composite key.
// Re-authentication always overwrites the whole record, never merges.
func (s *InMemoryStore) Upsert(id Identity) error {
	key := id.Key()
	if id.Provider == "" || id.ProviderUserID == "" {
		return fmt.Errorf("identity key is incomplete: %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.identities[key] = id
	return nil
}

// Get retrieves the identity for a composite key.
func (s *InMemoryStore) Get(key string) (Identity, error) {
	if key == "" {
		return Identity{}, fmt.Errorf("key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.identities[key]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return id, nil
}

// Delete removes the identity for a composite key. Deleting an unknown key
// is a no-op.
func (s *InMemoryStore) Delete(key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.identities, key)
	return nil
}

// Len returns the number of stored identities.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.identities)
}
