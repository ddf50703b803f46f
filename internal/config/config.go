// Package config loads bluebird's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/teemow/bluebird/internal/draft"
	"github.com/teemow/bluebird/internal/google"
	"github.com/teemow/bluebird/internal/service"
)

// Environment overrides, applied after the file is read.
const (
	EnvBaseURL = "BLUEBIRD_BASE_URL"
	EnvToken   = "BLUEBIRD_TOKEN"
	EnvTimeout = "BLUEBIRD_TIMEOUT"
)

// Config is the root of config.yaml.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Gmail    GmailConfig    `yaml:"gmail"`
}

// ServiceConfig locates the rewriting service.
type ServiceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Token   string        `yaml:"token"` // optional bearer token
}

// DefaultsConfig is the selection a new session starts with.
type DefaultsConfig struct {
	Tone   draft.Tone   `yaml:"tone"`
	Action draft.Action `yaml:"action"`
}

// GmailConfig configures the Gmail draft host.
type GmailConfig struct {
	Account      string `yaml:"account"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Credentials returns the OAuth client, falling back to GOOGLE_CLIENT_ID and
// GOOGLE_CLIENT_SECRET for fields left empty.
func (g GmailConfig) Credentials() google.ClientCredentials {
	creds := google.CredentialsFromEnv()
	if g.ClientID != "" {
		creds.ClientID = g.ClientID
	}
	if g.ClientSecret != "" {
		creds.ClientSecret = g.ClientSecret
	}
	return creds
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL: service.DefaultBaseURL,
			Timeout: service.DefaultTimeout,
		},
		Defaults: DefaultsConfig{
			Tone:   draft.ToneDefault,
			Action: draft.ActionRewrite,
		},
		Gmail: GmailConfig{
			Account: google.DefaultAccount,
		},
	}
}

// DefaultPath returns ~/.config/bluebird/config.yaml, honouring XDG_CONFIG_HOME.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "bluebird", "config.yaml")
}

// Load reads the configuration at path. A missing file yields the defaults.
// Environment overrides are applied before validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Service.Token = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTimeout, err)
		}
		c.Service.Timeout = d
	}
	return nil
}

// applyDefaults fills zero values left by a partial file.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaults.Service.BaseURL
	}
	if c.Service.Timeout == 0 {
		c.Service.Timeout = defaults.Service.Timeout
	}
	if c.Defaults.Tone == "" {
		c.Defaults.Tone = defaults.Defaults.Tone
	}
	if c.Defaults.Action == "" {
		c.Defaults.Action = defaults.Defaults.Action
	}
	if c.Gmail.Account == "" {
		c.Gmail.Account = defaults.Gmail.Account
	}
}

// Validate reports every invalid field at once as criterio.FieldErrors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("service.base_url", c.Service.BaseURL, validateBaseURL),
		criterio.Run("service.timeout", c.Service.Timeout, positiveDuration),
		criterio.Run("defaults.tone", c.Defaults.Tone, knownTone),
		criterio.Run("defaults.action", c.Defaults.Action, knownAction),
		criterio.Run("gmail.account", c.Gmail.Account, google.ValidateAccountName),
	)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host, got %q", raw)
	}
	return nil
}

func positiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", d)
	}
	return nil
}

func knownTone(t draft.Tone) error {
	if !t.Valid() {
		return fmt.Errorf("unknown tone %q", t)
	}
	return nil
}

func knownAction(a draft.Action) error {
	if !a.Valid() {
		return fmt.Errorf("unknown action %q", a)
	}
	return nil
}
