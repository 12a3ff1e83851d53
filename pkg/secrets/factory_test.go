// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/weather-mcp/pkg/secrets/keyring"
)

type fixedKeyring struct {
	keyring.Provider
	available bool
}

func (f fixedKeyring) IsAvailable() bool { return f.available }
func (fixedKeyring) Name() string        { return "fixed" }

func withKeyring(t *testing.T, available bool) {
	t.Helper()
	prev := keyringFactory
	keyringFactory = func() keyring.Provider {
		return fixedKeyring{Provider: keyring.NewMemoryProvider(), available: available}
	}
	t.Cleanup(func() { keyringFactory = prev })
}

//nolint:paralleltest // swaps keyringFactory
func TestNewProvider(t *testing.T) {
	tests := []struct {
		name             string
		backend          BackendType
		keyringAvailable bool
		wantName         string
		wantErr          error
	}{
		{"auto prefers keyring", AutoBackend, true, "fixed", nil},
		{"empty means auto", "", true, "fixed", nil},
		{"auto falls back to file", AutoBackend, false, "Local File", nil},
		{"keychain", KeychainBackend, true, "fixed", nil},
		{"keychain unavailable", KeychainBackend, false, "", ErrKeyringNotAvailable},
		{"file", FileBackend, true, "Local File", nil},
		{"memory", MemoryBackend, false, "In-Memory", nil},
		{"unknown", BackendType("vault"), true, "", ErrUnknownBackendType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withKeyring(t, tt.keyringAvailable)

			provider, err := NewProvider(tt.backend, filepath.Join(t.TempDir(), "creds.json"))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, provider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, provider.Name())
		})
	}
}

//nolint:paralleltest // swaps keyringFactory
func TestNewStore(t *testing.T) {
	withKeyring(t, false)

	store, err := NewStore(MemoryBackend, "")
	require.NoError(t, err)
	assert.Equal(t, "In-Memory", store.Backend())

	_, err = NewStore(BackendType("bogus"), "")
	assert.ErrorIs(t, err, ErrUnknownBackendType)
}

func TestValidBackendTypes(t *testing.T) {
	t.Parallel()
	assert.ElementsMatch(t,
		[]BackendType{AutoBackend, KeychainBackend, FileBackend, MemoryBackend},
		ValidBackendTypes())
}
