// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package oauth obtains a GitHub access token through the browser-based
// authorization code flow with a short-lived local callback server.
package oauth

import (
	"errors"
	"time"
)

const (
	// DefaultAuthURL is GitHub's authorization endpoint
	DefaultAuthURL = "https://github.com/login/oauth/authorize"

	// DefaultTokenURL is GitHub's code exchange endpoint
	DefaultTokenURL = "https://github.com/login/oauth/access_token" // #nosec G101 - endpoint, not a credential

	// DefaultCallbackPort is the fixed port the callback server binds
	DefaultCallbackPort = 8080

	// DefaultTimeout bounds how long the flow waits for the browser
	DefaultTimeout = 5 * time.Minute

	// DefaultShutdownDelay lets the result page reach the browser before the listener closes
	DefaultShutdownDelay = 500 * time.Millisecond

	// DefaultScope is requested when no scope is configured
	DefaultScope = "read:user"
)

// ErrCallbackPortInUse is wrapped in the acquisition_failed error returned
// when the callback port cannot be bound, typically because another flow
// is already running.
var ErrCallbackPortInUse = errors.New("OAuth callback port is already in use")

// Config contains configuration for the GitHub OAuth flow
type Config struct {
	// ClientID is the OAuth App client ID
	ClientID string

	// ClientSecret is the OAuth App client secret
	ClientSecret string

	// AuthURL is the authorization endpoint URL
	AuthURL string

	// TokenURL is the token endpoint URL
	TokenURL string

	// Scopes are the OAuth scopes to request
	Scopes []string

	// CallbackPort is the local port for the callback server. 0 picks a free
	// port, which is only useful when the OAuth App allows any loopback port.
	CallbackPort int

	// OpenBrowser opens the authorization URL in the default browser
	OpenBrowser bool

	// Timeout bounds the wait for the callback. Zero means DefaultTimeout.
	Timeout time.Duration

	// ShutdownDelay is how long the listener stays up after the callback
	// has been answered. Zero means DefaultShutdownDelay.
	ShutdownDelay time.Duration
}

// HasClientCredentials reports whether both OAuth App credentials are set.
func (c *Config) HasClientCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.AuthURL == "" {
		out.AuthURL = DefaultAuthURL
	}
	if out.TokenURL == "" {
		out.TokenURL = DefaultTokenURL
	}
	if len(out.Scopes) == 0 {
		out.Scopes = []string{DefaultScope}
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.ShutdownDelay <= 0 {
		out.ShutdownDelay = DefaultShutdownDelay
	}
	return out
}
