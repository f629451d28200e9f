package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-login-server/authflow"
	"github.com/jrsteele09/go-login-server/identity"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyIdentity stores the authenticated identity for the request.
const ContextKeyIdentity ContextKey = "identity"

// RequireSessionAuth fails closed: requests without a resolvable session
// are redirected to the login entry point, never shown protected content.
func (s *Server) RequireSessionAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := s.sessions.Current(r)
		if current == nil {
			notice := authflow.New(authflow.KindUnauthenticated, "").Notice()
			redirectWithError(w, r, RouteIndex, notice)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyIdentity, current)
		next(w, r.WithContext(ctx))
	}
}

// identityFromContext returns the identity placed by RequireSessionAuth.
func identityFromContext(ctx context.Context) *identity.Identity {
	id, _ := ctx.Value(ContextKeyIdentity).(*identity.Identity)
	return id
}
