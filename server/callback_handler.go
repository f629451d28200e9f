package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-login-server/authflow"
	"github.com/jrsteele09/go-login-server/identity"
)

// CallbackHandler completes the authorization flow
// (GET /auth/github/callback). Validation, the token/profile exchange, and
// the store commit run in strict order; the session attach happens only
// after the identity is committed. Every classified failure becomes a
// redirect home with a non-sensitive notice.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := s.completeAuthorization(r.Context(), r.URL.Query())
		if err != nil {
			flowErr := authflow.Classify(err)
			log.Error().
				Str("kind", string(flowErr.Kind)).
				Int("status", flowErr.Status).
				Err(err).
				Msg("callback: authorization failed")
			redirectWithError(w, r, RouteIndex, flowErr.Notice())
			return
		}

		// Commit before attach: a session never references an identity the
		// store does not hold.
		if err := s.identities.Upsert(*id); err != nil {
			log.Err(err).Msg("callback: identity commit failed")
			redirectWithError(w, r, RouteIndex, "Authentication failed. Please try again.")
			return
		}

		if _, err := s.sessions.Attach(w, r, *id); err != nil {
			log.Err(err).Msg("callback: session attach failed")
			redirectWithError(w, r, RouteIndex, "Authentication failed. Please try again.")
			return
		}

		redirectWithNotice(w, r, RouteDashboard, fmt.Sprintf("Welcome %s!", id.DisplayName))
	}
}

// completeAuthorization runs the callback checks and the provider exchange,
// short-circuiting on the first failure.
func (s *Server) completeAuthorization(ctx context.Context, query url.Values) (*identity.Identity, error) {
	if errParam := query.Get("error"); errParam != "" {
		message := errParam
		if desc := query.Get("error_description"); desc != "" {
			message = desc
		}
		return nil, authflow.New(authflow.KindProviderDenied, message)
	}

	code := query.Get("code")
	if code == "" {
		return nil, authflow.New(authflow.KindMissingCode, "callback carries neither code nor error")
	}

	// The callback must prove it answers a redirect this server issued.
	if _, ok := s.flowStates.Consume(query.Get("state")); !ok {
		return nil, authflow.New(authflow.KindStateMismatch, "unknown or reused state")
	}

	return s.provider.Exchange(ctx, code)
}
