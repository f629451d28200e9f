// Package flowstate tracks pending login redirects. Each authorization
// redirect mints a random state nonce; the callback must echo it before the
// exchange proceeds.
package flowstate

import "time"

// State marks one pending login awaiting its callback.
type State struct {
	ReturnURL string
	CreatedAt time.Time
}

// Repo stores pending-login states keyed by the state nonce. Consume is
// single-use: a nonce resolves at most once.
type Repo interface {
	Put(nonce string, state State) error
	Consume(nonce string) (State, bool)
}
