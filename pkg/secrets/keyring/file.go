// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package keyring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
)

const (
	lockTimeout = 2 * time.Second

	// DefaultFileName is the credential file under the XDG data directory.
	DefaultFileName = "weather-mcp/credentials.json"
)

// fileProvider keeps every service in one JSON document:
// {"service": {"key": "value"}}. Each mutation is done under an advisory
// lock and lands on disk through fsync and rename before it returns.
type fileProvider struct {
	path string
}

// NewFileProvider returns a file backend at path. An empty path selects
// $XDG_DATA_HOME/weather-mcp/credentials.json.
func NewFileProvider(path string) (Provider, error) {
	if path == "" {
		var err error
		path, err = xdg.DataFile(DefaultFileName)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve credential file path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}
	return &fileProvider{path: path}, nil
}

type fileContents map[string]map[string]string

func (f *fileProvider) Set(service, key, value string) error {
	return f.update(func(c fileContents) {
		if c[service] == nil {
			c[service] = make(map[string]string)
		}
		c[service][key] = value
	})
}

func (f *fileProvider) Get(service, key string) (string, error) {
	var value string
	var found bool
	err := f.withLock(func() error {
		contents, err := f.read()
		if err != nil {
			return err
		}
		value, found = contents[service][key]
		return nil
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *fileProvider) Delete(service, key string) error {
	return f.update(func(c fileContents) {
		delete(c[service], key)
		if len(c[service]) == 0 {
			delete(c, service)
		}
	})
}

func (f *fileProvider) DeleteAll(service string) error {
	return f.update(func(c fileContents) {
		delete(c, service)
	})
}

func (f *fileProvider) IsAvailable() bool {
	return roundTrip(f)
}

func (*fileProvider) Name() string {
	return "Local File"
}

func (f *fileProvider) update(mutate func(fileContents)) error {
	return f.withLock(func() error {
		contents, err := f.read()
		if err != nil {
			return err
		}
		mutate(contents)
		return f.write(contents)
	})
}

func (f *fileProvider) withLock(fn func() error) error {
	// Use a separate lock file for cross-platform compatibility
	fileLock := flock.New(f.path + ".lock")
	lockCtx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock: timeout after %v", lockTimeout)
	}
	defer func() { _ = fileLock.Unlock() }()

	return fn()
}

func (f *fileProvider) read() (fileContents, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(fileContents), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	contents := make(fileContents)
	if len(data) == 0 {
		return contents, nil
	}
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("credential file %s is corrupt: %w", f.path, err)
	}
	return contents, nil
}

func (f *fileProvider) write(contents fileContents) error {
	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary credential file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to restrict credential file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to flush credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close credential file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}
