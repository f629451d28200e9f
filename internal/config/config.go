package config

// Config aggregates the environment-driven settings for the login server.
// Values are read once at construction and treated as immutable afterwards.
type Config interface {
	EnvConfig
	OAuthConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
	DebugEnabled() bool
}

// OAuthConfig supplies the provider credentials. Validate reports missing
// credentials as an error; it never terminates the process.
type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	Validate() error
}

type mainConfig struct {
	EnvVars
	OAuth
}

func New() Config {
	return mainConfig{
		EnvVars: newEnvVars(),
		OAuth:   newOAuth(),
	}
}
