package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// EnvExtractionWorkers overrides the extraction worker count.
	EnvExtractionWorkers = "DOCVERIFY_EXTRACTION_WORKERS"

	// EnvExtractionPollInterval overrides the queue poll interval.
	EnvExtractionPollInterval = "DOCVERIFY_EXTRACTION_POLL_INTERVAL"

	// EnvExtractionLease overrides the processing lease duration.
	EnvExtractionLease = "DOCVERIFY_EXTRACTION_LEASE"
)

// ExtractionConfig contains background extraction worker configuration.
type ExtractionConfig struct {
	Workers      int    `toml:"workers"`
	PollInterval string `toml:"poll_interval"`
	// Lease bounds how long a certificate may sit in processing before it
	// is considered abandoned and reset to pending.
	Lease string `toml:"lease"`
}

// PollIntervalDuration parses and returns the poll interval as a time.Duration.
func (c *ExtractionConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// LeaseDuration parses and returns the processing lease as a time.Duration.
func (c *ExtractionConfig) LeaseDuration() time.Duration {
	d, _ := time.ParseDuration(c.Lease)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the extraction configuration.
func (c *ExtractionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ExtractionConfig) Merge(overlay *ExtractionConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.Lease != "" {
		c.Lease = overlay.Lease
	}
}

func (c *ExtractionConfig) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 2
	}
	if c.PollInterval == "" {
		c.PollInterval = "5s"
	}
	if c.Lease == "" {
		c.Lease = "10m"
	}
}

func (c *ExtractionConfig) loadEnv() {
	if v := os.Getenv(EnvExtractionWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvExtractionPollInterval); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv(EnvExtractionLease); v != "" {
		c.Lease = v
	}
}

func (c *ExtractionConfig) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Lease); err != nil {
		return fmt.Errorf("invalid lease: %w", err)
	}
	return nil
}
