package identity

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Identity is the normalized result of a completed provider login.
// It contains identity facts only, no session or auth decisions.
type Identity struct {
	Provider       string // provider identifier, e.g. "github"
	ProviderUserID string // provider-assigned stable user identifier
	DisplayName    string // profile name, falling back to the login handle
	Email          string // resolved primary verified email, or a placeholder
	AvatarURL      string // optional, display only
	AccessToken    string // provider credential; never logged, never sent to the client
}

// Key returns the composite store key for this identity.
func (i Identity) Key() string {
	return fmt.Sprintf("%s_%s", i.Provider, i.ProviderUserID)
}

// MarshalZerologObject logs identity facts with the access token redacted.
func (i Identity) MarshalZerologObject(e *zerolog.Event) {
	e.Str("provider", i.Provider).
		Str("provider_user_id", i.ProviderUserID).
		Str("display_name", i.DisplayName).
		Str("email", i.Email).
		Bool("access_token_present", i.AccessToken != "")
}
