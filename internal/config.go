package internal

import (
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Vault VaultConfig       `yaml:"vault"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.Vault.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	Transport string     `yaml:"transport"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.Transport == "" {
		c.Transport = TransportStdio
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Transport, validation.Required, validation.In(TransportStdio, TransportHTTP)),
	); err != nil {
		return err
	}
	if c.Transport != TransportHTTP {
		return nil
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig describes where the vault lives and how notes are presented.
//
// Path wins when set. Otherwise Candidates are tried in order and the first
// existing directory is used. When neither resolves the server still starts
// and every operation reports the vault as unavailable.
type VaultConfig struct {
	Path                   string   `yaml:"path"`
	Candidates             []string `yaml:"candidates"`
	IncludeYAMLFrontmatter bool     `yaml:"include_yaml_frontmatter"`
	MaxSearchResults       int      `yaml:"max_search_results"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxSearchResults, validation.Required, validation.Min(1)),
		validation.Field(&c.Candidates, validation.Each(validation.Required)),
	)
}

// ResolvePath returns the vault root to serve, or "" when none resolves.
func (c *VaultConfig) ResolvePath() string {
	if c.Path != "" {
		return c.Path
	}
	for _, candidate := range c.Candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			Transport: TransportStdio,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			IncludeYAMLFrontmatter: true,
			MaxSearchResults:       50,
		},
	}
}
