// Package config loads fundkeeper settings from defaults, an optional YAML
// file and FUNDKEEPER_* environment variables, in that order.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/fundkeeper/internal/gateway"
	"github.com/mmynk/fundkeeper/internal/view"
)

type ctxKey string

const configContextKey ctxKey = "fundkeeper.config"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "fundkeeper"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

// ErrNoSecret is returned when a command needs the token secret and none is set.
var ErrNoSecret = errors.New("tokenSecret is not configured")

type Config struct {
	// Server side
	DatabasePath  string `yaml:"databasePath"  split_words:"true"`
	ListenAddress string `yaml:"listenAddress" split_words:"true"`
	MetricsPath   string `yaml:"metricsPath"   split_words:"true"`

	// Shared by the server and the token command
	TokenSecret string        `yaml:"tokenSecret" split_words:"true"`
	TokenTTL    time.Duration `yaml:"tokenTTL"    envconfig:"TOKEN_TTL"`

	// Client side
	ServerURL     string        `yaml:"serverUrl"     envconfig:"SERVER_URL"`
	Token         string        `yaml:"token"`
	RemoteTimeout time.Duration `yaml:"remoteTimeout" split_words:"true"`
	EditPolicy    string        `yaml:"editPolicy"    split_words:"true"`
	Currency      string        `yaml:"currency"`
	Theme         string        `yaml:"theme"`

	LogLevel  string `yaml:"logLevel"  split_words:"true"`
	LogFormat string `yaml:"logFormat" split_words:"true"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DatabasePath:  "./data/fundkeeper.db",
		ListenAddress: ":8080",
		MetricsPath:   "/metrics",
		TokenTTL:      30 * 24 * time.Hour,
		ServerURL:     "http://localhost:8080",
		RemoteTimeout: gateway.DefaultTimeout,
		EditPolicy:    string(gateway.PolicyOpen),
		Currency:      gateway.DefaultCurrency,
		Theme:         string(view.ThemeLight),
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load builds the configuration. An empty configFile falls back to
// ~/.fundkeeper/fundkeeper.yaml when that file exists.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".fundkeeper", "fundkeeper.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated and duration settings.
func (c *Config) Validate() error {
	if !gateway.EditPolicy(c.EditPolicy).Valid() {
		return fmt.Errorf("invalid editPolicy: %q (must be 'open' or 'author')", c.EditPolicy)
	}
	if !view.Theme(c.Theme).Valid() {
		return fmt.Errorf("invalid theme: %q (must be 'light' or 'dark')", c.Theme)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logFormat: %q (must be 'text' or 'json')", c.LogFormat)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logLevel: %q", c.LogLevel)
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("invalid remoteTimeout: %s (must be positive)", c.RemoteTimeout)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid tokenTTL: %s (must be positive)", c.TokenTTL)
	}
	return nil
}

// RequireSecret reports ErrNoSecret when no token secret is configured.
func (c *Config) RequireSecret() error {
	if c.TokenSecret == "" {
		return ErrNoSecret
	}
	return nil
}
