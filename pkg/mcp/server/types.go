// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"

	"github.com/stacklok/weather-mcp/pkg/auth"
)

//go:generate mockgen -destination=mocks/mock_server.go -package=mocks -source=types.go Session,Forecaster

// Session is the authentication gate the weather tools sit behind.
type Session interface {
	EnsureAuthenticated(ctx context.Context) bool
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

// Forecaster renders NWS data as text.
type Forecaster interface {
	GetAlerts(ctx context.Context, state string) string
	GetForecast(ctx context.Context, latitude, longitude float64) string
}
