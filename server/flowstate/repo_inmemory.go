package flowstate

import (
	"errors"
	"sync"
	"time"
)

const defaultTTL = 10 * time.Minute

// InMemoryRepo is a thread-safe in-memory implementation of Repo. Entries
// expire after a TTL so abandoned redirects do not accumulate.
type InMemoryRepo struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	states map[string]State
}

// NewInMemoryRepo creates a new in-memory pending-login repository.
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		ttl:    defaultTTL,
		now:    time.Now,
		states: make(map[string]State),
	}
}

// Put stores a pending-login state. Expired entries are pruned
// opportunistically.
func (r *InMemoryRepo) Put(nonce string, state State) error {
	if nonce == "" {
		return errors.New("nonce cannot be empty")
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = r.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune()
	r.states[nonce] = state
	return nil
}

// Consume returns and deletes the state for a nonce. It reports false for
// unknown, already-consumed, or expired nonces.
func (r *InMemoryRepo) Consume(nonce string) (State, bool) {
	if nonce == "" {
		return State{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[nonce]
	if !ok {
		return State{}, false
	}
	delete(r.states, nonce)

	if r.now().Sub(state.CreatedAt) > r.ttl {
		return State{}, false
	}
	return state, true
}

func (r *InMemoryRepo) prune() {
	cutoff := r.now().Add(-r.ttl)
	for nonce, state := range r.states {
		if state.CreatedAt.Before(cutoff) {
			delete(r.states, nonce)
		}
	}
}
