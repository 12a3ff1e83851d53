// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package oauth

import (
	"context"
	"sync"

	weathererrors "github.com/stacklok/weather-mcp/pkg/errors"
	"github.com/stacklok/weather-mcp/pkg/logger"
	"github.com/stacklok/weather-mcp/pkg/networking"
)

// Acquirer obtains a fresh token interactively. Runs are serialized since
// every run needs the same callback port.
type Acquirer struct {
	config Config
	client networking.HTTPClient

	mu sync.Mutex

	// newFlow is replaced in tests
	newFlow func(*Config, networking.HTTPClient) (*Flow, error)
}

// NewAcquirer returns an Acquirer for config. client is used for the token
// exchange and may be nil.
func NewAcquirer(config Config, client networking.HTTPClient) *Acquirer {
	return &Acquirer{
		config:  config,
		client:  client,
		newFlow: NewFlow,
	}
}

// Acquire runs the browser flow and returns the access token. Without OAuth
// App credentials it fails immediately with a configuration_missing error.
func (a *Acquirer) Acquire(ctx context.Context) (string, error) {
	if !a.config.HasClientCredentials() {
		err := weathererrors.NewConfigurationMissingError(
			"GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET must be set for browser sign-in", nil)
		logger.Errorf("Interactive authentication unavailable: %v", err)
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	flow, err := a.newFlow(&a.config, a.client)
	if err != nil {
		return "", err
	}

	token, err := flow.Start(ctx)
	if err != nil {
		logger.Warnf("Interactive authentication failed: %v", err)
		return "", err
	}
	return token.AccessToken, nil
}
