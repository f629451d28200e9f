package config

import (
	"errors"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

// oauthValues holds the raw provider credentials. They are never logged.
type oauthValues struct {
	ClientID     string `env:"GITHUB_CLIENT_ID"`
	ClientSecret string `env:"GITHUB_CLIENT_SECRET"`
}

type OAuth struct {
	v oauthValues
}

var _ OAuthConfig = OAuth{}

func newOAuth() OAuth {
	var v oauthValues
	if err := env.Parse(&v); err != nil {
		log.Err(err).Msg("failed to parse oauth environment")
	}
	return OAuth{v: v}
}

func (o OAuth) GetClientID() string {
	return o.v.ClientID
}

func (o OAuth) GetClientSecret() string {
	return o.v.ClientSecret
}

// Validate reports blank or whitespace-only credentials. The error names
// the variables, not their values.
func (o OAuth) Validate() error {
	var missing []string
	if strings.TrimSpace(o.v.ClientID) == "" {
		missing = append(missing, "GITHUB_CLIENT_ID")
	}
	if strings.TrimSpace(o.v.ClientSecret) == "" {
		missing = append(missing, "GITHUB_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("missing oauth configuration: " + strings.Join(missing, ", "))
	}
	return nil
}
