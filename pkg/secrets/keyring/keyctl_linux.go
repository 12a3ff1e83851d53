// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package keyring

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// keyctlProvider stores keys as "user" keys named "service:key" in the
// kernel user keyring, which outlives the process until logout or reboot.
type keyctlProvider struct {
	ringID int
	mu     sync.RWMutex
}

// NewKeyctlProvider opens the calling user's kernel keyring.
func NewKeyctlProvider() (Provider, error) {
	ringID, err := unix.KeyctlGetKeyringID(unix.KEY_SPEC_USER_KEYRING, false)
	if err != nil {
		return nil, fmt.Errorf("could not get user keyring: %w", err)
	}

	// Link to thread keyring for reads
	_, err = unix.KeyctlInt(unix.KEYCTL_LINK, ringID, unix.KEY_SPEC_THREAD_KEYRING, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("unable to link user keyring to thread keyring: %w", err)
	}

	return &keyctlProvider{ringID: ringID}, nil
}

func keyName(service, key string) string {
	return service + ":" + key
}

func (k *keyctlProvider) Set(service, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	name := keyName(service, key)
	if _, err := unix.AddKey("user", name, []byte(value), k.ringID); err != nil {
		return fmt.Errorf("failed to set key '%s' in user keyring: %w", name, err)
	}
	return nil
}

func (k *keyctlProvider) Get(service, key string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	name := keyName(service, key)
	keyID, err := unix.KeyctlSearch(k.ringID, "user", name, 0)
	if err != nil {
		return "", ErrNotFound
	}

	payload, err := readKey(keyID)
	if err != nil {
		return "", fmt.Errorf("read of key '%s' failed: %w", name, err)
	}
	return string(payload), nil
}

func (k *keyctlProvider) Delete(service, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.unlink(keyName(service, key))
}

// DeleteAll enumerates the keyring so keys written by earlier processes
// are removed too.
func (k *keyctlProvider) DeleteAll(service string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	raw, err := readKey(k.ringID)
	if err != nil {
		return fmt.Errorf("failed to list user keyring: %w", err)
	}

	prefix := service + ":"
	var lastErr error
	for i := 0; i+4 <= len(raw); i += 4 {
		id := int(int32(binary.NativeEndian.Uint32(raw[i : i+4]))) // #nosec G115 - kernel key serials are int32
		desc, err := unix.KeyctlString(unix.KEYCTL_DESCRIBE, id)
		if err != nil {
			continue
		}
		// type;uid;gid;perm;description
		parts := strings.SplitN(desc, ";", 5)
		if len(parts) != 5 || parts[0] != "user" || !strings.HasPrefix(parts[4], prefix) {
			continue
		}
		if _, err := unix.KeyctlInt(unix.KEYCTL_UNLINK, id, k.ringID, 0, 0); err != nil {
			lastErr = fmt.Errorf("failed to delete key '%s': %w", parts[4], err)
		}
	}
	return lastErr
}

func (k *keyctlProvider) unlink(name string) error {
	keyID, err := unix.KeyctlSearch(k.ringID, "user", name, 0)
	if err != nil {
		// Key not found - this is not an error for Delete
		return nil
	}
	if _, err := unix.KeyctlInt(unix.KEYCTL_UNLINK, keyID, k.ringID, 0, 0); err != nil {
		return fmt.Errorf("failed to delete key '%s': %w", name, err)
	}
	return nil
}

func (k *keyctlProvider) IsAvailable() bool {
	return roundTrip(k)
}

func (*keyctlProvider) Name() string {
	return "Linux Keyctl"
}

// readKey returns the payload of keyID, sizing the buffer from the kernel.
func readKey(keyID int) ([]byte, error) {
	size, err := unix.KeyctlBuffer(unix.KEYCTL_READ, keyID, nil, 0)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	n, err := unix.KeyctlBuffer(unix.KEYCTL_READ, keyID, buf, size)
	if err != nil {
		return nil, err
	}
	if n > size {
		return nil, fmt.Errorf("keyring payload grew while reading")
	}
	return buf[:n], nil
}
