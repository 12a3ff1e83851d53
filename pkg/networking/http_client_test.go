// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package networking

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHttpClientBuilder(t *testing.T) {
	t.Parallel()

	builder := NewHttpClientBuilder()
	assert.Equal(t, HttpTimeout, builder.clientTimeout)
	assert.Equal(t, 10*time.Second, builder.tlsHandshakeTimeout)
	assert.Equal(t, 10*time.Second, builder.responseHeaderTimeout)

	builder.WithTimeout(0)
	assert.Equal(t, HttpTimeout, builder.clientTimeout, "non-positive timeout is ignored")

	client := builder.WithTimeout(5 * time.Second).Build()
	assert.Equal(t, 5*time.Second, client.Timeout)
}

func TestHttpClientBuilder_UserAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userAgent string
		header    string
		want      string
	}{
		{"builder agent applied", "weather-app/1.0", "", "weather-app/1.0"},
		{"request agent preserved", "weather-app/1.0", "custom/2.0", "custom/2.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("User-Agent")
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			client := NewHttpClientBuilder().WithUserAgent(tt.userAgent).Build()
			req, err := http.NewRequest(http.MethodGet, server.URL, nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("User-Agent", tt.header)
			}

			resp, err := client.Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.header, req.Header.Get("User-Agent"), "original request is not mutated")
		})
	}
}
