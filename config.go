package auth

import (
	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// EnvConfig satisfies Config from environment variables. The signing key is
// required: a process without one must not start, so LoadConfig fails rather
// than degrading to per-request errors.
type EnvConfig struct {
	SigningKey      string   `env:"JWT_SECRET,required"`
	TokenExpiration int      `env:"AUTH_TOKEN_EXPIRATION" envDefault:"2"`
	Issuer          string   `env:"AUTH_TOKEN_ISSUER"`
	Audience        []string `env:"AUTH_TOKEN_AUDIENCE" envSeparator:","`
	ContextKey      string   `env:"AUTH_CONTEXT_KEY" envDefault:"user"`
	AuthScheme      string   `env:"AUTH_SCHEME" envDefault:"Bearer"`
}

// LoadConfig parses auth configuration from the environment
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid auth configuration")
	}
	return cfg, nil
}

func (c EnvConfig) GetSigningKey() string { return c.SigningKey }

func (c EnvConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.TokenExpiration
}

func (c EnvConfig) GetIssuer() string     { return c.Issuer }
func (c EnvConfig) GetAudience() []string { return c.Audience }

func (c EnvConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c EnvConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

var _ Config = EnvConfig{}
