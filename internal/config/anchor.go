package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// EnvAnchorMode overrides the anchoring backend selection.
	EnvAnchorMode = "DOCVERIFY_ANCHOR_MODE"

	// EnvAnchorEndpoint overrides the anchor submission endpoint URL.
	EnvAnchorEndpoint = "DOCVERIFY_ANCHOR_ENDPOINT"

	// EnvAnchorToken overrides the anchor endpoint bearer credential.
	EnvAnchorToken = "DOCVERIFY_ANCHOR_TOKEN"

	// EnvAnchorTimeout overrides the anchor request timeout.
	EnvAnchorTimeout = "DOCVERIFY_ANCHOR_TIMEOUT"
)

// Anchor mode constants.
const (
	AnchorModeHTTP  = "http"
	AnchorModeLocal = "local"
)

// AnchorConfig contains blockchain anchoring configuration.
// Mode "http" submits roots to an external anchoring endpoint; "local"
// runs a deterministic in-process anchor for development.
type AnchorConfig struct {
	Mode     string `toml:"mode"`
	Endpoint string `toml:"endpoint"`
	Token    string `toml:"token"`
	Timeout  string `toml:"timeout"`
	// ConfirmAfter is the number of status polls before a local-mode
	// anchor reports confirmed.
	ConfirmAfter int `toml:"confirm_after"`
}

// TimeoutDuration parses and returns the request timeout as a time.Duration.
func (c *AnchorConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the anchor configuration.
func (c *AnchorConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *AnchorConfig) Merge(overlay *AnchorConfig) {
	if overlay.Mode != "" {
		c.Mode = overlay.Mode
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.ConfirmAfter != 0 {
		c.ConfirmAfter = overlay.ConfirmAfter
	}
}

func (c *AnchorConfig) loadDefaults() {
	if c.Mode == "" {
		c.Mode = AnchorModeLocal
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.ConfirmAfter == 0 {
		c.ConfirmAfter = 3
	}
}

func (c *AnchorConfig) loadEnv() {
	if v := os.Getenv(EnvAnchorMode); v != "" {
		c.Mode = v
	}
	if v := os.Getenv(EnvAnchorEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvAnchorToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvAnchorTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *AnchorConfig) validate() error {
	switch c.Mode {
	case AnchorModeHTTP:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint required for http mode")
		}
	case AnchorModeLocal:
	default:
		return fmt.Errorf("invalid mode: %s (must be %s or %s)", c.Mode, AnchorModeHTTP, AnchorModeLocal)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.ConfirmAfter < 1 {
		return fmt.Errorf("confirm_after must be positive, got %d", c.ConfirmAfter)
	}
	return nil
}
