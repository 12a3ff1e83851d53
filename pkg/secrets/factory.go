// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"errors"
	"fmt"

	"github.com/stacklok/weather-mcp/pkg/logger"
	"github.com/stacklok/weather-mcp/pkg/secrets/keyring"
)

// BackendType selects where the credential is persisted.
type BackendType string

const (
	// AutoBackend uses the OS keyring when it works and the file backend otherwise.
	AutoBackend BackendType = "auto"

	// KeychainBackend uses the OS keyring, with keyctl as Linux fallback.
	KeychainBackend BackendType = "keychain"

	// FileBackend uses a locked JSON file under the XDG data directory.
	FileBackend BackendType = "file"

	// MemoryBackend keeps the credential for the lifetime of the process.
	MemoryBackend BackendType = "memory"
)

// ErrUnknownBackendType is returned when an invalid value for BackendType is specified.
var ErrUnknownBackendType = errors.New("unknown credential store backend")

// ErrKeyringNotAvailable is returned when the keychain backend is requested
// but no OS keyring works on this host.
var ErrKeyringNotAvailable = errors.New("OS keyring is not available; " +
	"use the file backend or ensure a keyring service is running")

// ValidBackendTypes lists every accepted backend name.
func ValidBackendTypes() []BackendType {
	return []BackendType{AutoBackend, KeychainBackend, FileBackend, MemoryBackend}
}

// keyringFactory is swapped in tests to avoid touching the host keyring.
var keyringFactory = keyring.NewCompositeProvider

// NewProvider builds the keyring backend for backend. filePath only
// applies to the file backend and may be empty.
func NewProvider(backend BackendType, filePath string) (keyring.Provider, error) {
	switch backend {
	case AutoBackend, "":
		kr := keyringFactory()
		if kr.IsAvailable() {
			return kr, nil
		}
		logger.Infof("OS keyring not available, storing credentials in a local file")
		return keyring.NewFileProvider(filePath)
	case KeychainBackend:
		kr := keyringFactory()
		if !kr.IsAvailable() {
			return nil, ErrKeyringNotAvailable
		}
		return kr, nil
	case FileBackend:
		return keyring.NewFileProvider(filePath)
	case MemoryBackend:
		return keyring.NewMemoryProvider(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackendType, backend)
	}
}

// NewStore is NewProvider wrapped in a CredentialStore.
func NewStore(backend BackendType, filePath string) (*CredentialStore, error) {
	provider, err := NewProvider(backend, filePath)
	if err != nil {
		return nil, err
	}
	return NewCredentialStore(provider), nil
}
