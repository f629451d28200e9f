package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-login-server/authflow"
	"github.com/jrsteele09/go-login-server/server/flowstate"
)

// LoginHandler begins the authorization flow (GET /auth/github/login).
// It mints the anti-forgery state nonce, records the pending login, and
// redirects to the provider. Misconfiguration redirects home with a notice
// instead of starting the flow.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := generateRandomString(32)

		authURL, err := s.provider.AuthCodeURL(state)
		if err != nil {
			flowErr := authflow.Classify(err)
			log.Error().Str("kind", string(flowErr.Kind)).Msg("login: cannot begin authorization")
			redirectWithError(w, r, RouteIndex, flowErr.Notice())
			return
		}

		if err := s.flowStates.Put(state, flowstate.State{CreatedAt: time.Now()}); err != nil {
			log.Err(err).Msg("login: failed to record pending login")
			redirectWithError(w, r, RouteIndex, "Authentication failed. Please try again.")
			return
		}

		log.Debug().Str("redirect_host", r.Host).Msg("login: redirecting to provider")
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}
