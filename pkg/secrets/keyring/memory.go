// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package keyring

import "sync"

// memoryProvider keeps keys for the lifetime of the process only.
type memoryProvider struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryProvider returns a process-local backend.
func NewMemoryProvider() Provider {
	return &memoryProvider{data: make(map[string]map[string]string)}
}

func (m *memoryProvider) Set(service, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[service] == nil {
		m.data[service] = make(map[string]string)
	}
	m.data[service][key] = value
	return nil
}

func (m *memoryProvider) Get(service, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[service][key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *memoryProvider) Delete(service, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[service], key)
	return nil
}

func (m *memoryProvider) DeleteAll(service string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, service)
	return nil
}

func (*memoryProvider) IsAvailable() bool {
	return true
}

func (*memoryProvider) Name() string {
	return "In-Memory"
}
