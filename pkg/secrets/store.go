// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package secrets persists the single cached GitHub credential and the
// login it was verified for.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/stacklok/weather-mcp/pkg/logger"
	"github.com/stacklok/weather-mcp/pkg/secrets/keyring"
)

const (
	// ServiceName is the namespace every key is stored under.
	ServiceName = "weather-mcp"

	// CredentialKey holds the bearer token.
	CredentialKey = "credential"

	// IdentityNameKey holds the GitHub login the token belongs to.
	IdentityNameKey = "identity-name"
)

// Credential is a token together with the login it was verified for.
type Credential struct {
	Token string
	Login string
}

// CredentialStore reads and writes the cached credential through a keyring
// backend.
type CredentialStore struct {
	provider keyring.Provider
	service  string
}

// NewCredentialStore returns a store over provider.
func NewCredentialStore(provider keyring.Provider) *CredentialStore {
	return &CredentialStore{provider: provider, service: ServiceName}
}

// Backend names the keyring backend in use.
func (s *CredentialStore) Backend() string {
	return s.provider.Name()
}

// Load returns the cached credential, or nil when nothing usable is
// stored. A token without its login, or a login without its token, counts
// as nothing stored.
func (s *CredentialStore) Load(_ context.Context) (*Credential, error) {
	token, err := s.get(CredentialKey)
	if err != nil || token == "" {
		return nil, err
	}
	login, err := s.get(IdentityNameKey)
	if err != nil || login == "" {
		return nil, err
	}
	return &Credential{Token: token, Login: login}, nil
}

func (s *CredentialStore) get(key string) (string, error) {
	value, err := s.provider.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s from %s: %w", key, s.provider.Name(), err)
	}
	return value, nil
}

// Save overwrites the cached credential. Both keys are written before it
// returns.
func (s *CredentialStore) Save(_ context.Context, cred Credential) error {
	if cred.Token == "" || cred.Login == "" {
		return errors.New("credential token and login are both required")
	}
	if err := s.provider.Set(s.service, CredentialKey, cred.Token); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	if err := s.provider.Set(s.service, IdentityNameKey, cred.Login); err != nil {
		return fmt.Errorf("failed to store identity name: %w", err)
	}
	logger.Debugf("Stored credential %s for %s in %s",
		logger.Redact(cred.Token), cred.Login, s.provider.Name())
	return nil
}

// Clear removes everything stored under the service namespace.
func (s *CredentialStore) Clear(_ context.Context) error {
	var errs []error
	for _, key := range []string{CredentialKey, IdentityNameKey} {
		if err := s.provider.Delete(s.service, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.provider.DeleteAll(s.service); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to clear cached credential: %w", err)
	}
	return nil
}
