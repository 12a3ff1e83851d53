// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package keyring

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/zalando/go-keyring"
)

// dbusWrapperProvider stores keys in the platform keyring through
// zalando/go-keyring: macOS keychain, Windows credential manager, or the
// D-Bus secret service elsewhere.
type dbusWrapperProvider struct{}

// NewZalandoKeyringProvider returns the OS keyring backend.
func NewZalandoKeyringProvider() Provider {
	return &dbusWrapperProvider{}
}

func (*dbusWrapperProvider) Set(service, key, value string) error {
	if err := keyring.Set(service, key, value); err != nil {
		return fmt.Errorf("failed to store %s/%s in OS keyring: %w", service, key, err)
	}
	return nil
}

func (*dbusWrapperProvider) Get(service, key string) (string, error) {
	value, err := keyring.Get(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s/%s from OS keyring: %w", service, key, err)
	}
	return value, nil
}

func (*dbusWrapperProvider) Delete(service, key string) error {
	err := keyring.Delete(service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete %s/%s from OS keyring: %w", service, key, err)
	}
	return nil
}

func (*dbusWrapperProvider) DeleteAll(service string) error {
	err := keyring.DeleteAll(service)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear %s from OS keyring: %w", service, err)
	}
	return nil
}

func (d *dbusWrapperProvider) IsAvailable() bool {
	return roundTrip(d)
}

func (*dbusWrapperProvider) Name() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS Keychain"
	case "windows":
		return "Windows Credential Manager"
	case linuxOS:
		return "D-Bus Secret Service"
	default:
		return "OS Keyring"
	}
}
