package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// EnvAuthSecret overrides the token signing secret.
	EnvAuthSecret = "DOCVERIFY_AUTH_SECRET"

	// EnvAuthTokenTTL overrides the access token lifetime.
	EnvAuthTokenTTL = "DOCVERIFY_AUTH_TOKEN_TTL"

	// EnvAuthIssuer overrides the token issuer claim.
	EnvAuthIssuer = "DOCVERIFY_AUTH_ISSUER"
)

// AuthConfig contains token issuance and validation configuration.
// TokenTTL doubles as the inactivity window: tokens are refreshed on use
// and sessions lapse when no request arrives within the TTL.
type AuthConfig struct {
	Secret   string `toml:"secret"`
	Issuer   string `toml:"issuer"`
	TokenTTL string `toml:"token_ttl"`
}

// TokenTTLDuration parses and returns the token lifetime as a time.Duration.
func (c *AuthConfig) TokenTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenTTL)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the auth configuration.
func (c *AuthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.TokenTTL != "" {
		c.TokenTTL = overlay.TokenTTL
	}
}

func (c *AuthConfig) loadDefaults() {
	if c.Issuer == "" {
		c.Issuer = "docverify"
	}
	if c.TokenTTL == "" {
		c.TokenTTL = "30m"
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthSecret); v != "" {
		c.Secret = v
	}
	if v := os.Getenv(EnvAuthIssuer); v != "" {
		c.Issuer = v
	}
	if v := os.Getenv(EnvAuthTokenTTL); v != "" {
		c.TokenTTL = v
	}
}

func (c *AuthConfig) validate() error {
	if len(c.Secret) < 32 {
		return fmt.Errorf("secret must be at least 32 bytes")
	}
	ttl, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return fmt.Errorf("invalid token_ttl: %w", err)
	}
	if ttl < time.Minute {
		return fmt.Errorf("token_ttl must be at least 1m")
	}
	return nil
}
