// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"time"

	"github.com/stacklok/weather-mcp/pkg/auth"
)

// State is either Unauthenticated or Authenticated.
type State interface {
	isState()
}

// Unauthenticated is the state before any credential was verified.
type Unauthenticated struct{}

// Authenticated records the identity verified during this process.
type Authenticated struct {
	Identity   auth.Identity
	VerifiedAt time.Time
}

func (Unauthenticated) isState() {}
func (Authenticated) isState()   {}
