// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/weather-mcp/pkg/auth/oauth"
)

// writeConfig marshals content to a config.yaml in a fresh temp dir.
func writeConfig(t *testing.T, content map[string]any) string {
	t.Helper()
	data, err := yaml.Marshal(content)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

// withDefaultPath points the default config lookup at path for one test.
func withDefaultPath(t *testing.T, path string) {
	t.Helper()
	prev := defaultPathGenerator
	defaultPathGenerator = func() string { return path }
	t.Cleanup(func() { defaultPathGenerator = prev })
}

func TestLoad_Defaults(t *testing.T) { //nolint:paralleltest // swaps defaultPathGenerator
	withDefaultPath(t, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"read:user"}, cfg.GitHub.Scopes)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, oauth.DefaultAuthURL, cfg.GitHub.AuthURL)
	assert.Equal(t, oauth.DefaultTokenURL, cfg.GitHub.TokenURL)
	assert.Equal(t, "cached-interactive", cfg.Auth.Strategy)
	assert.Equal(t, 8080, cfg.Auth.CallbackPort)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AcquisitionTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Auth.ShutdownDelay)
	assert.True(t, cfg.Auth.OpenBrowser)
	assert.Equal(t, "auto", cfg.Store.Backend)
	assert.Equal(t, "https://api.weather.gov", cfg.Weather.BaseURL)
	assert.Equal(t, "weather-app/1.0", cfg.Weather.UserAgent)
	assert.False(t, cfg.Debug)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, map[string]any{
		"github": map[string]any{
			"client_id":     "Iv1.abc",
			"client_secret": "shh",
			"scopes":        []string{"read:user", "user:email"},
		},
		"auth": map[string]any{
			"strategy":            "prompt-only",
			"callback_port":       9876,
			"acquisition_timeout": "90s",
			"open_browser":        false,
		},
		"store": map[string]any{
			"backend":   "file",
			"file_path": "/tmp/weather-creds.json",
		},
		"weather": map[string]any{
			"base_url": "http://localhost:9999",
		},
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prompt-only", cfg.Auth.Strategy)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "/tmp/weather-creds.json", cfg.Store.FilePath)
	assert.Equal(t, "http://localhost:9999", cfg.Weather.BaseURL)
	assert.Equal(t, "weather-app/1.0", cfg.Weather.UserAgent, "unset keys keep their defaults")

	o := cfg.OAuth()
	assert.Equal(t, "Iv1.abc", o.ClientID)
	assert.Equal(t, "shh", o.ClientSecret)
	assert.True(t, o.HasClientCredentials())
	assert.Equal(t, []string{"read:user", "user:email"}, o.Scopes)
	assert.Equal(t, 9876, o.CallbackPort)
	assert.Equal(t, 90*time.Second, o.Timeout)
	assert.False(t, o.OpenBrowser)
}

func TestLoad_DefaultPathIsRead(t *testing.T) { //nolint:paralleltest // swaps defaultPathGenerator
	withDefaultPath(t, writeConfig(t, map[string]any{"store": map[string]any{"backend": "memory"}}))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoad_Environment(t *testing.T) { //nolint:paralleltest // uses t.Setenv
	withDefaultPath(t, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("GITHUB_CLIENT_ID", "from-common-env")
	t.Setenv("GITHUB_CLIENT_SECRET", "common-secret")
	t.Setenv("WEATHER_MCP_AUTH_STRATEGY", "prompt-only")
	t.Setenv("WEATHER_MCP_AUTH_CALLBACK_PORT", "8181")
	t.Setenv("WEATHER_MCP_GITHUB_SCOPES", "read:user,repo")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-common-env", cfg.GitHub.ClientID)
	assert.Equal(t, "common-secret", cfg.GitHub.ClientSecret)
	assert.Equal(t, "prompt-only", cfg.Auth.Strategy)
	assert.Equal(t, 8181, cfg.Auth.CallbackPort)
	assert.Equal(t, []string{"read:user", "repo"}, cfg.GitHub.Scopes)
}

func TestLoad_PrefixedClientIDWins(t *testing.T) { //nolint:paralleltest // uses t.Setenv
	withDefaultPath(t, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("GITHUB_CLIENT_ID", "common")
	t.Setenv("WEATHER_MCP_GITHUB_CLIENT_ID", "prefixed")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.GitHub.ClientID)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content map[string]any
		wantErr string
	}{
		{
			name:    "unknown strategy",
			content: map[string]any{"auth": map[string]any{"strategy": "always"}},
			wantErr: `invalid auth.strategy "always"`,
		},
		{
			name:    "unknown backend",
			content: map[string]any{"store": map[string]any{"backend": "vault"}},
			wantErr: `invalid store.backend "vault"`,
		},
		{
			name:    "port out of range",
			content: map[string]any{"auth": map[string]any{"callback_port": 70000}},
			wantErr: "auth.callback_port must be between 1 and 65535",
		},
		{
			name:    "zero timeout",
			content: map[string]any{"auth": map[string]any{"acquisition_timeout": "0s"}},
			wantErr: "auth.acquisition_timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	t.Parallel()

	cfg := &Config{Auth: Auth{Strategy: "bogus"}, Store: Store{Backend: "bogus"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.strategy")
	assert.Contains(t, err.Error(), "store.backend")
	assert.Contains(t, err.Error(), "auth.callback_port")
	assert.Contains(t, err.Error(), "auth.acquisition_timeout")
}
