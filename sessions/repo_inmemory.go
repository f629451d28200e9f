package sessions

import (
	"fmt"
	"sync"
)

// InMemoryRepo is a thread-safe in-memory implementation of Repo.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]string // token -> identity key
}

// NewInMemoryRepo creates a new in-memory session repository.
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]string),
	}
}

// Put binds a session token to an identity key.
func (r *InMemoryRepo) Put(token, identityKey string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if identityKey == "" {
		return fmt.Errorf("identityKey is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[token] = identityKey
	return nil
}

// Get resolves a session token to its identity key.
func (r *InMemoryRepo) Get(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.sessions[token]
	if !ok {
		return "", ErrNotFound
	}
	return key, nil
}

// Delete removes a session binding. Deleting an unknown token is a no-op.
func (r *InMemoryRepo) Delete(token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}
