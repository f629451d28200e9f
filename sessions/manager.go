// Package sessions binds authenticated identities to client-visible session
// cookies. Tokens are opaque; the identity is always resolved server-side.
package sessions

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-login-server/identity"
)

const (
	// CookieName is the session cookie issued after a completed login.
	CookieName = "login_session"

	// rememberMaxAge keeps logins across browser restarts.
	rememberMaxAge = 30 * 24 * 60 * 60 // 30 days, in seconds
)

// Manager exposes attach/current/detach over a session repo and the
// identity store. Absence of a session is the unauthenticated state, not
// an error.
type Manager struct {
	repo  Repo
	store identity.Store
}

// NewManager creates a session manager.
func NewManager(repo Repo, store identity.Store) *Manager {
	return &Manager{repo: repo, store: store}
}

// Attach issues a fresh session token for the identity and sets the
// remembered session cookie. The identity must already be committed to the
// store; a reader resolving the new token never misses its identity.
func (m *Manager) Attach(w http.ResponseWriter, r *http.Request, id identity.Identity) (string, error) {
	token := uuid.New().String()
	if err := m.repo.Put(token, id.Key()); err != nil {
		return "", err
	}

	m.setCookie(w, r, token, rememberMaxAge)
	log.Info().Object("identity", id).Msg("session attached")
	return token, nil
}

// Current resolves the request's session cookie to an identity. A nil
// result means unauthenticated.
func (m *Manager) Current(r *http.Request) *identity.Identity {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	key, err := m.repo.Get(cookie.Value)
	if err != nil {
		return nil
	}

	id, err := m.store.Get(key)
	if err != nil {
		return nil
	}
	return &id
}

// Detach removes the identity store entry and the session binding for the
// request's session, then clears the cookie. Detaching an absent or unknown
// session is a no-op.
func (m *Manager) Detach(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(CookieName)
	if err == nil && cookie.Value != "" {
		if key, err := m.repo.Get(cookie.Value); err == nil {
			if err := m.store.Delete(key); err != nil {
				log.Err(err).Msg("detach: failed to delete identity")
			}
		}
		if err := m.repo.Delete(cookie.Value); err != nil {
			log.Err(err).Msg("detach: failed to delete session")
		}
	}

	m.setCookie(w, r, "", -1)
}

func (m *Manager) setCookie(w http.ResponseWriter, r *http.Request, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
