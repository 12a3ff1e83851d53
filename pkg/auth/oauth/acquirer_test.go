// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package oauth

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	weathererrors "github.com/stacklok/weather-mcp/pkg/errors"
	"github.com/stacklok/weather-mcp/pkg/networking"
)

func TestAcquirer_MissingConfiguration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
	}{
		{"nothing set", Config{}},
		{"no secret", Config{ClientID: testClientID}},
		{"no client id", Config{ClientSecret: testClientSecret}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			acquirer := NewAcquirer(tt.config, nil)
			acquirer.newFlow = func(*Config, networking.HTTPClient) (*Flow, error) {
				t.Fatal("no flow may start without client credentials")
				return nil, nil
			}

			token, err := acquirer.Acquire(context.Background())
			assert.Empty(t, token)
			assert.True(t, weathererrors.IsConfigurationMissing(err))
		})
	}
}

func TestAcquirer_Acquire(t *testing.T) {
	t.Parallel()

	tokenServer := newTokenServer(t, http.StatusOK, `{"access_token":"gho_acquired"}`)
	acquirer := NewAcquirer(*testConfig(tokenServer.URL), tokenServer.Client())

	seen := make(chan callbackResponse, 1)
	acquirer.newFlow = func(c *Config, client networking.HTTPClient) (*Flow, error) {
		flow, err := NewFlow(c, client)
		if err != nil {
			return nil, err
		}
		flow.openURL = browserVisiting(t, func(state string) url.Values {
			return url.Values{"code": {"the-code"}, "state": {state}}
		}, seen, nil)
		return flow, nil
	}

	token, err := acquirer.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gho_acquired", token)
	assert.Equal(t, http.StatusOK, (<-seen).status)
}
