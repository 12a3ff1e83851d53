// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/weather-mcp/pkg/secrets/keyring"
)

func storeBackends(t *testing.T) map[string]keyring.Provider {
	t.Helper()
	file, err := keyring.NewFileProvider(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	return map[string]keyring.Provider{
		"memory": keyring.NewMemoryProvider(),
		"file":   file,
	}
}

func TestCredentialStore_RoundTrip(t *testing.T) {
	t.Parallel()

	for name, provider := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := NewCredentialStore(provider)

			cred, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, cred)

			require.NoError(t, store.Save(ctx, Credential{Token: "gho_first", Login: "octocat"}))
			require.NoError(t, store.Save(ctx, Credential{Token: "gho_second", Login: "hubot"}))

			cred, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, &Credential{Token: "gho_second", Login: "hubot"}, cred)
		})
	}
}

func TestCredentialStore_HalfEntryIsAbsent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{"token without login", CredentialKey},
		{"login without token", IdentityNameKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			provider := keyring.NewMemoryProvider()
			require.NoError(t, provider.Set(ServiceName, tt.key, "value"))

			cred, err := NewCredentialStore(provider).Load(context.Background())
			require.NoError(t, err)
			assert.Nil(t, cred)
		})
	}
}

func TestCredentialStore_Clear(t *testing.T) {
	t.Parallel()

	for name, provider := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := NewCredentialStore(provider)

			require.NoError(t, store.Save(ctx, Credential{Token: "gho_stale", Login: "octocat"}))
			require.NoError(t, store.Clear(ctx))

			cred, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, cred)

			for _, key := range []string{CredentialKey, IdentityNameKey} {
				_, err := provider.Get(ServiceName, key)
				assert.ErrorIs(t, err, keyring.ErrNotFound, key)
			}

			require.NoError(t, store.Clear(ctx), "clearing an empty store is fine")
		})
	}
}

func TestCredentialStore_SaveRequiresBothFields(t *testing.T) {
	t.Parallel()

	store := NewCredentialStore(keyring.NewMemoryProvider())
	assert.Error(t, store.Save(context.Background(), Credential{Token: "gho_x"}))
	assert.Error(t, store.Save(context.Background(), Credential{Login: "octocat"}))
}

type brokenProvider struct {
	keyring.Provider
}

var errBackend = errors.New("backend offline")

func (brokenProvider) Get(string, string) (string, error) { return "", errBackend }
func (brokenProvider) Set(string, string, string) error   { return errBackend }
func (brokenProvider) Delete(string, string) error        { return errBackend }
func (brokenProvider) DeleteAll(string) error             { return errBackend }
func (brokenProvider) Name() string                       { return "broken" }

func TestCredentialStore_BackendErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewCredentialStore(brokenProvider{})

	cred, err := store.Load(ctx)
	assert.Nil(t, cred)
	assert.ErrorIs(t, err, errBackend)

	assert.ErrorIs(t, store.Save(ctx, Credential{Token: "t", Login: "l"}), errBackend)
	assert.ErrorIs(t, store.Clear(ctx), errBackend)
	assert.Equal(t, "broken", store.Backend())
}
