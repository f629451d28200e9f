package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-login-server/authflow"
	"github.com/jrsteele09/go-login-server/github"
)

const (
	testClientID     = "test-client-id"
	testClientSecret = "test-client-secret"
	testRedirectURL  = "http://localhost:8080/auth/github/callback"
	testState        = "random-state-value"
	testAccessToken  = "gho_testtoken123"
)

// providerFixture runs httptest doubles for the GitHub endpoints and counts
// the calls each one receives.
type providerFixture struct {
	provider *github.Provider

	tokenCalls  int
	userCalls   int
	emailsCalls int

	tokenHandler  http.HandlerFunc
	userHandler   http.HandlerFunc
	emailsHandler http.HandlerFunc
}

func newProviderFixture(t *testing.T) *providerFixture {
	t.Helper()

	f := &providerFixture{}

	// Default happy-path handlers; tests override as needed.
	f.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"access_token": testAccessToken, "token_type": "bearer"})
	}
	f.userHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"id":         12345,
			"login":      "octocat",
			"name":       "Octo Cat",
			"avatar_url": "https://avatars.example.com/u/12345",
		})
	}
	f.emailsHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"email": "octocat@example.com", "primary": true, "verified": true},
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		f.tokenHandler(w, r)
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		f.userCalls++
		f.userHandler(w, r)
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		f.emailsCalls++
		f.emailsHandler(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	f.provider = github.New(testClientID, testClientSecret, testRedirectURL,
		github.WithEndpoints(
			server.URL+"/login/oauth/authorize",
			server.URL+"/login/oauth/access_token",
			server.URL+"/user",
			server.URL+"/user/emails",
		),
	)
	return f
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func requireFlowError(t *testing.T, err error, kind authflow.Kind) *authflow.FlowError {
	t.Helper()
	require.Error(t, err)
	flowErr := authflow.Classify(err)
	require.Equal(t, kind, flowErr.Kind)
	return flowErr
}

func TestAuthCodeURL(t *testing.T) {
	f := newProviderFixture(t)

	authURL, err := f.provider.AuthCodeURL(testState)
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)

	query := parsed.Query()
	require.Equal(t, testClientID, query.Get("client_id"))
	require.Equal(t, testRedirectURL, query.Get("redirect_uri"))
	require.Equal(t, "user:email", query.Get("scope"))
	require.Equal(t, "true", query.Get("allow_signup"))
	require.Equal(t, testState, query.Get("state"))
}

func TestAuthCodeURL_MissingClientID(t *testing.T) {
	for _, clientID := range []string{"", "   "} {
		provider := github.New(clientID, testClientSecret, testRedirectURL)

		authURL, err := provider.AuthCodeURL(testState)
		requireFlowError(t, err, authflow.KindConfiguration)
		require.Empty(t, authURL)
	}
}

func TestExchange_Success(t *testing.T) {
	f := newProviderFixture(t)

	var tokenBody map[string]string
	f.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&tokenBody))
		writeJSON(t, w, map[string]any{"access_token": testAccessToken})
	}
	f.userHandler = func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer "+testAccessToken, r.Header.Get("Authorization"))
		writeJSON(t, w, map[string]any{
			"id": 12345, "login": "octocat", "name": "Octo Cat",
			"avatar_url": "https://avatars.example.com/u/12345",
		})
	}

	id, err := f.provider.Exchange(context.Background(), "good-code")
	require.NoError(t, err)

	require.Equal(t, testClientID, tokenBody["client_id"])
	require.Equal(t, testClientSecret, tokenBody["client_secret"])
	require.Equal(t, "good-code", tokenBody["code"])
	require.Equal(t, testRedirectURL, tokenBody["redirect_uri"])

	require.Equal(t, "github", id.Provider)
	require.Equal(t, "12345", id.ProviderUserID)
	require.Equal(t, "github_12345", id.Key())
	require.Equal(t, "Octo Cat", id.DisplayName)
	require.Equal(t, "octocat@example.com", id.Email)
	require.Equal(t, "https://avatars.example.com/u/12345", id.AvatarURL)
	require.Equal(t, testAccessToken, id.AccessToken)

	require.Equal(t, 1, f.tokenCalls)
	require.Equal(t, 1, f.userCalls)
	require.Equal(t, 1, f.emailsCalls)
}

func TestExchange_DisplayNameFallsBackToLogin(t *testing.T) {
	f := newProviderFixture(t)
	f.userHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"id": 1, "login": "octocat"})
	}

	id, err := f.provider.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	require.Equal(t, "octocat", id.DisplayName)
}

func TestExchange_EmailPrefersPrimaryVerified(t *testing.T) {
	f := newProviderFixture(t)
	f.emailsHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"email": "a@example.com", "primary": false, "verified": true},
			{"email": "b@example.com", "primary": true, "verified": true},
		})
	}

	id, err := f.provider.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	require.Equal(t, "b@example.com", id.Email)
}

func TestExchange_EmailFallsBackToProfile(t *testing.T) {
	f := newProviderFixture(t)
	f.userHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"id": 1, "login": "octocat", "email": "c@example.com"})
	}
	f.emailsHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{})
	}

	id, err := f.provider.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	require.Equal(t, "c@example.com", id.Email)
}

func TestExchange_EmailPlaceholderWhenAbsent(t *testing.T) {
	f := newProviderFixture(t)
	f.userHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"id": 1, "login": "octocat"})
	}
	f.emailsHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{})
	}

	id, err := f.provider.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	require.Equal(t, "octocat@github.placeholder", id.Email)
}

func TestExchange_EmailsFailureDoesNotAbort(t *testing.T) {
	f := newProviderFixture(t)
	f.userHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"id": 1, "login": "octocat", "email": "c@example.com"})
	}
	f.emailsHandler = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}

	id, err := f.provider.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	require.Equal(t, "c@example.com", id.Email)
}

func TestExchange_TokenEndpointNon2xx(t *testing.T) {
	f := newProviderFixture(t)
	f.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}

	id, err := f.provider.Exchange(context.Background(), "good-code")
	require.Nil(t, id)

	flowErr := requireFlowError(t, err, authflow.KindTokenExchange)
	require.Equal(t, http.StatusBadGateway, flowErr.Status)
	require.Equal(t, 0, f.userCalls)
}

func TestExchange_ProviderErrorPayloadWithHTTP200(t *testing.T) {
	f := newProviderFixture(t)
	f.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"error": "bad_verification_code"})
	}

	id, err := f.provider.Exchange(context.Background(), "stale-code")
	require.Nil(t, id)

	flowErr := requireFlowError(t, err, authflow.KindProviderError)
	require.Equal(t, "bad_verification_code", flowErr.Message)
	require.Equal(t, 0, f.userCalls)
}

func TestExchange_ProviderErrorPrefersDescription(t *testing.T) {
	f := newProviderFixture(t)
	f.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"error":             "bad_verification_code",
			"error_description": "The code passed is incorrect or expired.",
		})
	}

	_, err := f.provider.Exchange(context.Background(), "stale-code")
	flowErr := requireFlowError(t, err, authflow.KindProviderError)
	require.Equal(t, "The code passed is incorrect or expired.", flowErr.Message)
}

func TestExchange_NoAccessToken(t *testing.T) {
	f := newProviderFixture(t)
	f.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"token_type": "bearer"})
	}

	_, err := f.provider.Exchange(context.Background(), "good-code")
	requireFlowError(t, err, authflow.KindNoAccessToken)
	require.Equal(t, 0, f.userCalls)
}

func TestExchange_ProfileFetchNon2xx(t *testing.T) {
	f := newProviderFixture(t)
	f.userHandler = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}

	id, err := f.provider.Exchange(context.Background(), "good-code")
	require.Nil(t, id)

	flowErr := requireFlowError(t, err, authflow.KindProfileFetch)
	require.Equal(t, http.StatusUnauthorized, flowErr.Status)
	require.Equal(t, 0, f.emailsCalls)
}

func TestExchange_MissingCredentials(t *testing.T) {
	f := newProviderFixture(t)
	provider := github.New("", "", testRedirectURL)

	_, err := provider.Exchange(context.Background(), "good-code")
	requireFlowError(t, err, authflow.KindConfiguration)
	require.Equal(t, 0, f.tokenCalls)
}

func TestExchange_NetworkError(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	provider := github.New(testClientID, testClientSecret, testRedirectURL,
		github.WithEndpoints("", server.URL+"/token", server.URL+"/user", server.URL+"/emails"))

	_, err := provider.Exchange(context.Background(), "good-code")
	requireFlowError(t, err, authflow.KindNetwork)
}
