package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// LogoutHandler detaches the current session (GET /auth/logout). Detach is
// idempotent, so repeated logouts are harmless.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := identityFromContext(r.Context()); id != nil {
			log.Info().Object("identity", *id).Msg("logout")
		}

		s.sessions.Detach(w, r)
		redirectWithNotice(w, r, RouteIndex, "Logged out successfully")
	}
}
