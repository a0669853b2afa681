// Package config provides application configuration management with support for
// TOML files, environment variable overrides, and configuration overlays.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/MavuriAlekhya2005/docverify/pkg/logging"
	"github.com/MavuriAlekhya2005/docverify/pkg/openapi"
	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
	"github.com/MavuriAlekhya2005/docverify/pkg/storage"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvServiceEnv specifies the environment name for configuration overlays.
	EnvServiceEnv = "DOCVERIFY_ENV"

	// EnvVersion overrides the reported service version.
	EnvVersion = "DOCVERIFY_VERSION"

	// EnvDomain overrides the public base URL of the service.
	EnvDomain = "DOCVERIFY_DOMAIN"
)

var loggingEnv = &logging.Env{
	Level:     "DOCVERIFY_LOG_LEVEL",
	Format:    "DOCVERIFY_LOG_FORMAT",
	AddSource: "DOCVERIFY_LOG_ADD_SOURCE",
}

var storageEnv = &storage.Env{
	BasePath:      "DOCVERIFY_STORAGE_BASE_PATH",
	MaxUploadSize: "DOCVERIFY_STORAGE_MAX_UPLOAD_SIZE",
}

var paginationEnv = &pagination.Env{
	DefaultPageSize: "DOCVERIFY_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "DOCVERIFY_PAGINATION_MAX_PAGE_SIZE",
}

var openAPIEnv = &openapi.Env{
	Title:       "DOCVERIFY_OPENAPI_TITLE",
	Description: "DOCVERIFY_OPENAPI_DESCRIPTION",
}

// Config represents the root service configuration.
type Config struct {
	Version    string            `toml:"version"`
	Domain     string            `toml:"domain"`
	Server     ServerConfig      `toml:"server"`
	Database   DatabaseConfig    `toml:"database"`
	Logging    logging.Config    `toml:"logging"`
	CORS       CORSConfig        `toml:"cors"`
	Storage    storage.Config    `toml:"storage"`
	Pagination pagination.Config `toml:"pagination"`
	OpenAPI    openapi.Config    `toml:"openapi"`
	Auth       AuthConfig        `toml:"auth"`
	Extraction ExtractionConfig  `toml:"extraction"`
	Anchor     AnchorConfig      `toml:"anchor"`
}

// Env returns the active environment name used for overlay selection.
func (c *Config) Env() string {
	return os.Getenv(EnvServiceEnv)
}

// Load reads and parses the base configuration file and applies any environment-specific overlay.
func Load() (*Config, error) {
	cfg, err := load(BaseConfigFile)
	if err != nil {
		return nil, err
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.CORS.Finalize(); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	if err := c.Auth.Finalize(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Extraction.Finalize(); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Anchor.Finalize(); err != nil {
		return fmt.Errorf("anchor: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.Domain != "" {
		c.Domain = overlay.Domain
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Logging.Merge(&overlay.Logging)
	c.CORS.Merge(&overlay.CORS)
	c.Storage.Merge(&overlay.Storage)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
	c.Auth.Merge(&overlay.Auth)
	c.Extraction.Merge(&overlay.Extraction)
	c.Anchor.Merge(&overlay.Anchor)
}

func (c *Config) loadDefaults() {
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.Domain == "" {
		c.Domain = "http://localhost:8080"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvDomain); v != "" {
		c.Domain = v
	}
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvServiceEnv); env != "" {
		overlayPath := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(overlayPath); err == nil {
			return overlayPath
		}
	}
	return ""
}
