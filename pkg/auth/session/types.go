// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package session holds the process-wide authentication gate that the
// weather tools are guarded by.
package session

import (
	"context"

	"github.com/stacklok/weather-mcp/pkg/auth"
	"github.com/stacklok/weather-mcp/pkg/secrets"
)

//go:generate mockgen -destination=mocks/mock_session.go -package=mocks -source=types.go Verifier,Store,Acquirer

// Verifier confirms a token with the identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// Store persists the cached credential.
type Store interface {
	Load(ctx context.Context) (*secrets.Credential, error)
	Save(ctx context.Context, cred secrets.Credential) error
	Clear(ctx context.Context) error
}

// Acquirer obtains a fresh token interactively.
type Acquirer interface {
	Acquire(ctx context.Context) (string, error)
}
