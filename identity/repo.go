package identity

import "errors"

// ErrNotFound is returned when no identity exists for a key.
var ErrNotFound = errors.New("identity not found")

// Store owns Session Identity records for the process lifetime. Entries are
// keyed by Identity.Key(). Implementations must be safe for concurrent use;
// Upsert overwrites any prior entry for the same key.
type Store interface {
	Upsert(id Identity) error
	Get(key string) (Identity, error)
	Delete(key string) error
	Len() int
}
