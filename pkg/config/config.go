// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the weather MCP server configuration from defaults,
// an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/stacklok/weather-mcp/pkg/auth"
	"github.com/stacklok/weather-mcp/pkg/auth/oauth"
	"github.com/stacklok/weather-mcp/pkg/auth/session"
	"github.com/stacklok/weather-mcp/pkg/secrets"
	"github.com/stacklok/weather-mcp/pkg/weather"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. WEATHER_MCP_AUTH_STRATEGY for auth.strategy.
const EnvPrefix = "WEATHER_MCP"

// Config represents the configuration of the server.
type Config struct {
	GitHub  GitHub  `mapstructure:"github" yaml:"github"`
	Auth    Auth    `mapstructure:"auth" yaml:"auth"`
	Store   Store   `mapstructure:"store" yaml:"store"`
	Weather Weather `mapstructure:"weather" yaml:"weather"`
	Debug   bool    `mapstructure:"debug" yaml:"debug"`
}

// GitHub holds the OAuth App and API endpoints.
type GitHub struct {
	ClientID     string   `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string   `mapstructure:"client_secret" yaml:"client_secret"`
	Scopes       []string `mapstructure:"scopes" yaml:"scopes"`
	APIURL       string   `mapstructure:"api_url" yaml:"api_url"`
	AuthURL      string   `mapstructure:"auth_url" yaml:"auth_url"`
	TokenURL     string   `mapstructure:"token_url" yaml:"token_url"`
}

// Auth controls how the session is established.
type Auth struct {
	Strategy           string        `mapstructure:"strategy" yaml:"strategy"`
	CallbackPort       int           `mapstructure:"callback_port" yaml:"callback_port"`
	AcquisitionTimeout time.Duration `mapstructure:"acquisition_timeout" yaml:"acquisition_timeout"`
	OpenBrowser        bool          `mapstructure:"open_browser" yaml:"open_browser"`
	ShutdownDelay      time.Duration `mapstructure:"shutdown_delay" yaml:"shutdown_delay"`
}

// Store selects the credential cache backend.
type Store struct {
	Backend  string `mapstructure:"backend" yaml:"backend"`
	FilePath string `mapstructure:"file_path" yaml:"file_path"`
}

// Weather configures the NWS client.
type Weather struct {
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

// defaultPathGenerator generates the default config path using xdg
var defaultPathGenerator = func() string {
	return filepath.Join(xdg.ConfigHome, "weather-mcp", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.client_id", "")
	v.SetDefault("github.client_secret", "")
	v.SetDefault("github.scopes", []string{oauth.DefaultScope})
	v.SetDefault("github.api_url", auth.DefaultGitHubAPIURL)
	v.SetDefault("github.auth_url", oauth.DefaultAuthURL)
	v.SetDefault("github.token_url", oauth.DefaultTokenURL)

	v.SetDefault("auth.strategy", string(session.CachedInteractiveStrategy))
	v.SetDefault("auth.callback_port", oauth.DefaultCallbackPort)
	v.SetDefault("auth.acquisition_timeout", oauth.DefaultTimeout)
	v.SetDefault("auth.open_browser", true)
	v.SetDefault("auth.shutdown_delay", oauth.DefaultShutdownDelay)

	v.SetDefault("store.backend", string(secrets.AutoBackend))
	v.SetDefault("store.file_path", "")

	v.SetDefault("weather.base_url", weather.DefaultBaseURL)
	v.SetDefault("weather.user_agent", weather.DefaultUserAgent)

	v.SetDefault("debug", false)
}

// NewViper returns a viper instance with the server defaults and
// environment bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The OAuth App credentials are also accepted under their common names.
	_ = v.BindEnv("github.client_id", EnvPrefix+"_GITHUB_CLIENT_ID", "GITHUB_CLIENT_ID")
	_ = v.BindEnv("github.client_secret", EnvPrefix+"_GITHUB_CLIENT_SECRET", "GITHUB_CLIENT_SECRET")
	return v
}

// Load reads the configuration. An explicit path must exist; an empty path
// falls back to $XDG_CONFIG_HOME/weather-mcp/config.yaml when present.
func Load(path string) (*Config, error) {
	return LoadWithViper(NewViper(), path)
}

// LoadWithViper is Load over a caller-provided viper instance, which may
// carry bound command-line flags.
func LoadWithViper(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		if candidate := defaultPathGenerator(); fileExists(candidate) {
			path = candidate
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch session.StrategyType(c.Auth.Strategy) {
	case session.PromptOnlyStrategy, session.CachedInteractiveStrategy:
	default:
		errs = append(errs, fmt.Errorf("invalid auth.strategy %q (valid values: %s, %s)",
			c.Auth.Strategy, session.PromptOnlyStrategy, session.CachedInteractiveStrategy))
	}

	if !slices.Contains(secrets.ValidBackendTypes(), secrets.BackendType(c.Store.Backend)) {
		errs = append(errs, fmt.Errorf("invalid store.backend %q (valid values: %v)",
			c.Store.Backend, secrets.ValidBackendTypes()))
	}

	if c.Auth.CallbackPort < 1 || c.Auth.CallbackPort > 65535 {
		errs = append(errs, fmt.Errorf("auth.callback_port must be between 1 and 65535, got %d", c.Auth.CallbackPort))
	}
	if c.Auth.AcquisitionTimeout <= 0 {
		errs = append(errs, fmt.Errorf("auth.acquisition_timeout must be positive, got %s", c.Auth.AcquisitionTimeout))
	}

	return errors.Join(errs...)
}

// OAuth returns the settings for interactive credential acquisition.
func (c *Config) OAuth() oauth.Config {
	return oauth.Config{
		ClientID:      c.GitHub.ClientID,
		ClientSecret:  c.GitHub.ClientSecret,
		AuthURL:       c.GitHub.AuthURL,
		TokenURL:      c.GitHub.TokenURL,
		Scopes:        c.GitHub.Scopes,
		CallbackPort:  c.Auth.CallbackPort,
		OpenBrowser:   c.Auth.OpenBrowser,
		Timeout:       c.Auth.AcquisitionTimeout,
		ShutdownDelay: c.Auth.ShutdownDelay,
	}
}
