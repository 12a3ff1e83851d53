// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package keyring

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	linuxOS = "linux"

	availabilityService = "weather-mcp-check"
)

// GenerateUniqueTestKey creates a unique key name used for keyring availability checks.
// Concurrent checks never collide on the same name.
func GenerateUniqueTestKey() string {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Sprintf("weather-mcp-check-%d", time.Now().UnixNano())
	}

	return fmt.Sprintf("weather-mcp-check-%d-%x", time.Now().UnixNano(), randomBytes)
}

// roundTrip writes and removes a throwaway key to check that p works.
func roundTrip(p Provider) bool {
	key := GenerateUniqueTestKey()
	if err := p.Set(availabilityService, key, "check"); err != nil {
		return false
	}
	_ = p.Delete(availabilityService, key)
	return true
}
