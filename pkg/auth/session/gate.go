// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stacklok/weather-mcp/pkg/auth"
	weathererrors "github.com/stacklok/weather-mcp/pkg/errors"
	"github.com/stacklok/weather-mcp/pkg/logger"
	"github.com/stacklok/weather-mcp/pkg/secrets"
)

const resolveKey = "resolve"

// Gate tracks whether this process has a verified identity. Once
// authenticated it stays authenticated and answers without I/O.
type Gate struct {
	verifier Verifier
	store    Store
	strategy Strategy

	mu    sync.RWMutex
	state State

	// storeMu orders credential writes against the transition to
	// Authenticated so a slow resolution cannot undo a direct login.
	storeMu sync.Mutex

	// group collapses concurrent resolutions into one
	group singleflight.Group

	now func() time.Time
}

// storeBinder is implemented by strategies that write to the credential
// store and must route those writes through the gate.
type storeBinder interface {
	bindStore(store Store)
}

// NewGate returns an unauthenticated gate.
func NewGate(verifier Verifier, store Store, strategy Strategy) *Gate {
	g := &Gate{
		verifier: verifier,
		store:    store,
		strategy: strategy,
		state:    Unauthenticated{},
		now:      time.Now,
	}
	if b, ok := strategy.(storeBinder); ok && store != nil {
		b.bindStore(&gatedStore{Store: store, gate: g})
	}
	return g
}

// State returns the current session state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gate) authenticated() bool {
	_, ok := g.State().(Authenticated)
	return ok
}

func (g *Gate) setAuthenticated(identity auth.Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Authenticated{Identity: identity, VerifiedAt: g.now()}
}

// setAuthenticatedIfUnset records identity unless another path already
// authenticated the session, and reports whether it did.
func (g *Gate) setAuthenticatedIfUnset(identity auth.Identity) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.state.(Authenticated); ok {
		return false
	}
	g.state = Authenticated{Identity: identity, VerifiedAt: g.now()}
	return true
}

// EnsureAuthenticated reports whether the session is authenticated,
// resolving it through the strategy when it is not. Callers arriving while
// a resolution is in flight wait for its result.
func (g *Gate) EnsureAuthenticated(ctx context.Context) bool {
	if g.authenticated() {
		return true
	}

	ok, _, _ := g.group.Do(resolveKey, func() (any, error) {
		if g.authenticated() {
			return true, nil
		}

		identity, err := g.strategy.Resolve(ctx)
		if err != nil {
			// authenticate may have succeeded while the strategy was running
			if g.authenticated() {
				logger.Debugf("Resolution failed after the session was authenticated: %v", err)
				return true, nil
			}
			logResolveFailure(err)
			return false, nil
		}

		if g.setAuthenticatedIfUnset(*identity) {
			logger.Infof("Session authenticated as %s", identity.Login)
		}
		return true, nil
	})
	return ok.(bool)
}

// Authenticate verifies token directly, caches it, and marks the session
// authenticated. A failure leaves the state untouched.
func (g *Gate) Authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	token = strings.TrimSpace(token)
	identity, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	g.storeMu.Lock()
	if err := g.store.Save(ctx, secrets.Credential{Token: token, Login: identity.Login}); err != nil {
		logger.Warnf("Authenticated as %s but failed to cache the credential: %v", identity.Login, err)
	}
	g.setAuthenticated(*identity)
	g.storeMu.Unlock()

	logger.Infof("Session authenticated as %s", identity.Login)
	return identity, nil
}

func logResolveFailure(err error) {
	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		logger.Debug("Session is not authenticated")
	case weathererrors.IsConfigurationMissing(err):
		// already reported by the acquirer
	case weathererrors.IsTimeout(err):
		logger.Warnf("Timed out waiting for browser sign-in: %v", err)
	case weathererrors.IsAcquisitionFailed(err):
		logger.Warnf("Browser sign-in did not complete: %v", err)
	case weathererrors.IsInvalidCredential(err):
		logger.Warnf("GitHub rejected the token from browser sign-in: %v", err)
	default:
		logger.Warnf("Could not authenticate session: %v", err)
	}
}

// gatedStore drops strategy writes once the session is authenticated, so
// only the credential behind the current identity stays cached.
type gatedStore struct {
	Store
	gate *Gate
}

func (s *gatedStore) Save(ctx context.Context, cred secrets.Credential) error {
	s.gate.storeMu.Lock()
	defer s.gate.storeMu.Unlock()
	if s.gate.authenticated() {
		logger.Debugf("Session already authenticated, not caching credential for %s", cred.Login)
		return nil
	}
	return s.Store.Save(ctx, cred)
}

func (s *gatedStore) Clear(ctx context.Context) error {
	s.gate.storeMu.Lock()
	defer s.gate.storeMu.Unlock()
	if s.gate.authenticated() {
		logger.Debug("Session already authenticated, keeping cached credential")
		return nil
	}
	return s.Store.Clear(ctx)
}
