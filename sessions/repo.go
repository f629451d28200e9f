package sessions

import "errors"

// ErrNotFound is returned when no session exists for a token.
var ErrNotFound = errors.New("session not found")

// Repo maps opaque session tokens to identity store keys. Implementations
// must be safe for concurrent use.
type Repo interface {
	Put(token, identityKey string) error
	Get(token string) (string, error)
	Delete(token string) error
}
