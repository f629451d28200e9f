// Package github drives the OAuth2 authorization-code exchange against
// GitHub: redirect URL construction, code-for-token exchange, profile
// retrieval, and identity normalization.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	oauth2github "golang.org/x/oauth2/github"

	"github.com/jrsteele09/go-login-server/authflow"
	"github.com/jrsteele09/go-login-server/identity"
)

const (
	// ProviderName tags identities issued through this provider.
	ProviderName = "github"

	defaultUserURL   = "https://api.github.com/user"
	defaultEmailsURL = "https://api.github.com/user/emails"

	// requestTimeout bounds each outbound call independently.
	requestTimeout = 10 * time.Second
)

// Provider performs the two-to-three upstream calls of the login flow and
// returns a normalized identity. Endpoint URLs are injectable for tests.
type Provider struct {
	oauthConfig *oauth2.Config
	httpClient  *http.Client
	userURL     string
	emailsURL   string
}

// Option customises a Provider.
type Option func(*Provider)

// WithHTTPClient overrides the outbound HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// WithEndpoints overrides the provider endpoint URLs. Empty values keep the
// defaults.
func WithEndpoints(authURL, tokenURL, userURL, emailsURL string) Option {
	return func(p *Provider) {
		if authURL != "" {
			p.oauthConfig.Endpoint.AuthURL = authURL
		}
		if tokenURL != "" {
			p.oauthConfig.Endpoint.TokenURL = tokenURL
		}
		if userURL != "" {
			p.userURL = userURL
		}
		if emailsURL != "" {
			p.emailsURL = emailsURL
		}
	}
}

// New creates a GitHub provider. redirectURL must be the exact callback URL
// registered with the provider; it is sent unchanged during both the
// redirect and the token exchange.
func New(clientID, clientSecret, redirectURL string, opts ...Option) *Provider {
	p := &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oauth2github.Endpoint,
			Scopes:       []string{"user:email"},
		},
		httpClient: &http.Client{Timeout: requestTimeout},
		userURL:    defaultUserURL,
		emailsURL:  defaultEmailsURL,
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return ProviderName
}

// AuthCodeURL builds the provider authorization URL for the given
// anti-forgery state. It fails without side effects when the client ID is
// missing, so the caller can surface a notice instead of redirecting.
func (p *Provider) AuthCodeURL(state string) (string, error) {
	if strings.TrimSpace(p.oauthConfig.ClientID) == "" {
		return "", authflow.New(authflow.KindConfiguration, "client id is not set")
	}

	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("allow_signup", "true"),
	), nil
}

// Exchange runs the callback side of the flow for an authorization code:
// token exchange, profile fetch, best-effort email resolution. Every
// failure is returned as a classified *authflow.FlowError; the email step
// alone never aborts the flow.
func (p *Provider) Exchange(ctx context.Context, code string) (*identity.Identity, error) {
	if strings.TrimSpace(p.oauthConfig.ClientID) == "" ||
		strings.TrimSpace(p.oauthConfig.ClientSecret) == "" {
		return nil, authflow.New(authflow.KindConfiguration, "client credentials are not set")
	}

	accessToken, err := p.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := p.fetchProfile(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	email := p.resolveEmail(ctx, accessToken, profile)

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	id := &identity.Identity{
		Provider:       ProviderName,
		ProviderUserID: strconv.FormatInt(profile.ID, 10),
		DisplayName:    name,
		Email:          email,
		AvatarURL:      profile.AvatarURL,
		AccessToken:    accessToken,
	}

	log.Debug().Object("identity", id).Msg("github exchange completed")
	return id, nil
}

// exchangeCode posts the authorization code to the token endpoint and
// extracts the access token.
func (p *Provider) exchangeCode(ctx context.Context, code string) (string, error) {
	payload := tokenRequest{
		ClientID:     p.oauthConfig.ClientID,
		ClientSecret: p.oauthConfig.ClientSecret,
		Code:         code,
		RedirectURI:  p.oauthConfig.RedirectURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", authflow.Wrap(authflow.KindInternal, err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.oauthConfig.Endpoint.TokenURL, bytes.NewReader(body))
	if err != nil {
		return "", authflow.Wrap(authflow.KindInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", authflow.Wrap(authflow.KindNetwork, fmt.Errorf("token exchange: %w", err))
	}
	defer resp.Body.Close()

	log.Debug().Int("status", resp.StatusCode).Msg("github token exchange response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", authflow.WithStatus(authflow.KindTokenExchange, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", authflow.Wrap(authflow.KindNoAccessToken, fmt.Errorf("decode token response: %w", err))
	}

	// GitHub reports exchange failures as an error payload with HTTP 200.
	if token.Error != "" {
		message := token.Error
		if token.ErrorDescription != "" {
			message = token.ErrorDescription
		}
		return "", authflow.New(authflow.KindProviderError, message)
	}

	if token.AccessToken == "" {
		return "", authflow.New(authflow.KindNoAccessToken, "token response has no access_token")
	}

	return token.AccessToken, nil
}

// fetchProfile retrieves the authenticated user's profile.
func (p *Provider) fetchProfile(ctx context.Context, accessToken string) (*userProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return nil, authflow.Wrap(authflow.KindInternal, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, authflow.Wrap(authflow.KindNetwork, fmt.Errorf("profile fetch: %w", err))
	}
	defer resp.Body.Close()

	log.Debug().Int("status", resp.StatusCode).Msg("github profile response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, authflow.WithStatus(authflow.KindProfileFetch, resp.StatusCode)
	}

	var profile userProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, authflow.Wrap(authflow.KindProfileFetch, fmt.Errorf("decode profile: %w", err))
	}

	return &profile, nil
}

// resolveEmail picks the user's primary verified email. The emails call is
// best effort: on any failure the profile email is used, and when that is
// absent too a placeholder is synthesized from the login handle.
func (p *Provider) resolveEmail(ctx context.Context, accessToken string, profile *userProfile) string {
	if email := p.fetchPrimaryEmail(ctx, accessToken); email != "" {
		return email
	}
	if profile.Email != "" {
		return profile.Email
	}
	return fmt.Sprintf("%s@%s.placeholder", profile.Login, ProviderName)
}

func (p *Provider) fetchPrimaryEmail(ctx context.Context, accessToken string) string {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.emailsURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("github emails fetch failed, falling back to profile email")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().Int("status", resp.StatusCode).Msg("github emails fetch rejected, falling back to profile email")
		return ""
	}

	var emails []userEmail
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return ""
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	return ""
}
