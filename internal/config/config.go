// Package config loads typed application configuration from the environment.
package config

import (
	"errors"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Addr        string        `env:"ADDR" env-default:":8080"`
	DatabaseURL string        `env:"DATABASE_URL"`
	WebDir      string        `env:"WEB_DIR" env-default:"web"`
	SessionTTL  time.Duration `env:"SESSION_TTL" env-default:"24h"`

	OIDC OIDCConfig
}

// OIDCConfig configures the optional SSO login flow. SSO is disabled unless
// Enabled is set.
type OIDCConfig struct {
	Enabled      bool   `env:"OIDC_ENABLED" env-default:"false"`
	Issuer       string `env:"OIDC_ISSUER"`
	ClientID     string `env:"OIDC_CLIENT_ID"`
	ClientSecret string `env:"OIDC_CLIENT_SECRET"`
	RedirectURL  string `env:"OIDC_REDIRECT_URL"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.OIDC.Enabled {
		if c.OIDC.Issuer == "" || c.OIDC.ClientID == "" || c.OIDC.RedirectURL == "" {
			return errors.New("OIDC_ISSUER, OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required when OIDC_ENABLED is set")
		}
	}
	return nil
}
