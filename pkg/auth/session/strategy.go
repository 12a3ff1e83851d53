// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/stacklok/weather-mcp/pkg/auth"
	"github.com/stacklok/weather-mcp/pkg/logger"
	"github.com/stacklok/weather-mcp/pkg/secrets"
)

// StrategyType names how the gate resolves an unauthenticated session.
type StrategyType string

const (
	// PromptOnlyStrategy leaves authentication to the authenticate tool.
	PromptOnlyStrategy StrategyType = "prompt-only"

	// CachedInteractiveStrategy restores the cached credential and falls
	// back to the browser flow.
	CachedInteractiveStrategy StrategyType = "cached-interactive"
)

// ErrAuthenticationRequired is returned by strategies that cannot resolve
// a session without the user calling authenticate.
var ErrAuthenticationRequired = errors.New("authentication required")

// ErrUnknownStrategy is returned for an unrecognised StrategyType.
var ErrUnknownStrategy = errors.New("unknown authentication strategy")

// Strategy resolves an identity for a session that has none yet.
type Strategy interface {
	Resolve(ctx context.Context) (*auth.Identity, error)
}

// NewStrategy builds the strategy named by kind.
func NewStrategy(kind StrategyType, verifier Verifier, store Store, acquirer Acquirer) (Strategy, error) {
	switch kind {
	case PromptOnlyStrategy:
		return PromptOnly{}, nil
	case CachedInteractiveStrategy, "":
		return NewCachedThenInteractive(verifier, store, acquirer), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
	}
}

// PromptOnly never resolves on its own.
type PromptOnly struct{}

// Resolve always reports that authentication is required.
func (PromptOnly) Resolve(context.Context) (*auth.Identity, error) {
	return nil, ErrAuthenticationRequired
}

// CachedThenInteractive tries the cached credential first and runs the
// interactive acquisition when there is none or it was rejected.
type CachedThenInteractive struct {
	verifier Verifier
	store    Store
	acquirer Acquirer
}

// NewCachedThenInteractive returns the default strategy.
func NewCachedThenInteractive(verifier Verifier, store Store, acquirer Acquirer) *CachedThenInteractive {
	return &CachedThenInteractive{verifier: verifier, store: store, acquirer: acquirer}
}

func (s *CachedThenInteractive) bindStore(store Store) {
	s.store = store
}

// Resolve restores or acquires an identity. A freshly acquired token is
// persisted only after it has been verified.
func (s *CachedThenInteractive) Resolve(ctx context.Context) (*auth.Identity, error) {
	if identity := s.restore(ctx); identity != nil {
		return identity, nil
	}

	token, err := s.acquirer.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, secrets.Credential{Token: token, Login: identity.Login}); err != nil {
		logger.Warnf("Authenticated as %s but failed to cache the credential: %v", identity.Login, err)
	}
	return identity, nil
}

func (s *CachedThenInteractive) restore(ctx context.Context) *auth.Identity {
	cred, err := s.store.Load(ctx)
	if err != nil {
		logger.Warnf("Failed to read cached credential: %v", err)
		return nil
	}
	if cred == nil {
		logger.Debug("No cached credential found")
		return nil
	}

	identity, err := s.verifier.Verify(ctx, cred.Token)
	if err != nil {
		logger.Infof("Cached credential for %s was rejected, clearing it: %v", cred.Login, err)
		if err := s.store.Clear(ctx); err != nil {
			logger.Warnf("Failed to clear rejected credential: %v", err)
		}
		return nil
	}

	if identity.Login != cred.Login {
		if err := s.store.Save(ctx, secrets.Credential{Token: cred.Token, Login: identity.Login}); err != nil {
			logger.Warnf("Failed to update cached identity name: %v", err)
		}
	}

	logger.Infof("Restored session for %s with cached credential %s", identity.Login, logger.Redact(cred.Token))
	return identity
}
