// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package keyring

import (
	"errors"
	"runtime"
	"sync"

	"github.com/stacklok/weather-mcp/pkg/logger"
)

// ErrNoProviderAvailable is returned when none of the composed backends work.
var ErrNoProviderAvailable = errors.New("no keyring backend is available")

// compositeProvider delegates to the first backend that reports itself
// available. The choice is made once and then sticks.
type compositeProvider struct {
	providers []Provider

	mu     sync.Mutex
	active Provider
}

// NewCompositeProvider composes the OS keyring with, on Linux, the kernel
// keyctl user keyring as fallback for headless hosts without D-Bus.
func NewCompositeProvider() Provider {
	providers := []Provider{NewZalandoKeyringProvider()}

	if runtime.GOOS == linuxOS {
		if keyctl, err := NewKeyctlProvider(); err == nil {
			providers = append(providers, keyctl)
		} else {
			logger.Debugf("keyctl keyring unavailable: %v", err)
		}
	}

	return newCompositeProvider(providers...)
}

func newCompositeProvider(providers ...Provider) *compositeProvider {
	return &compositeProvider{providers: providers}
}

func (c *compositeProvider) getActiveProvider() Provider {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return c.active
	}
	for _, p := range c.providers {
		if p.IsAvailable() {
			logger.Debugf("Using %s for credential storage", p.Name())
			c.active = p
			return p
		}
	}
	return nil
}

func (c *compositeProvider) Set(service, key, value string) error {
	p := c.getActiveProvider()
	if p == nil {
		return ErrNoProviderAvailable
	}
	return p.Set(service, key, value)
}

func (c *compositeProvider) Get(service, key string) (string, error) {
	p := c.getActiveProvider()
	if p == nil {
		return "", ErrNoProviderAvailable
	}
	return p.Get(service, key)
}

func (c *compositeProvider) Delete(service, key string) error {
	p := c.getActiveProvider()
	if p == nil {
		return ErrNoProviderAvailable
	}
	return p.Delete(service, key)
}

func (c *compositeProvider) DeleteAll(service string) error {
	p := c.getActiveProvider()
	if p == nil {
		return ErrNoProviderAvailable
	}
	return p.DeleteAll(service)
}

func (c *compositeProvider) IsAvailable() bool {
	return c.getActiveProvider() != nil
}

func (c *compositeProvider) Name() string {
	if p := c.getActiveProvider(); p != nil {
		return p.Name()
	}
	return "Composite Keyring (unavailable)"
}
