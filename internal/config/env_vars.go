package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

// envValues holds the raw environment values for the server itself.
type envValues struct {
	Port    string `env:"PORT" envDefault:"8080"`
	AppName string `env:"APP_NAME" envDefault:"Go Login Server"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	Env     string `env:"ENV" envDefault:"DEV"`
	Debug   bool   `env:"DEBUG" envDefault:"false"`
}

type EnvVars struct {
	v envValues
}

var _ EnvConfig = EnvVars{}

func newEnvVars() EnvVars {
	var v envValues
	if err := env.Parse(&v); err != nil {
		log.Err(err).Msg("failed to parse server environment, using defaults")
	}
	return EnvVars{v: v}
}

func (e EnvVars) GetPort() string {
	port := e.v.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.v.AppName
}

// GetBaseURL returns the public base URL used to build the provider
// redirect URI. Trailing slashes are stripped so path joins stay exact.
func (e EnvVars) GetBaseURL() string {
	return strings.TrimRight(e.v.BaseURL, "/")
}

func (e EnvVars) GetEnv() string {
	if e.v.Env == "" {
		return "DEV"
	}
	return e.v.Env
}

func (e EnvVars) DebugEnabled() bool {
	return e.v.Debug
}
