// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor builds a provider instance from its configuration. A
// constructor may be invoked several times with distinct credentials to
// produce independently-configured instances of the same service.
type Constructor func(cfg ProviderConfig) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register adds a named provider constructor. Each adapter registers itself
// at startup from its own file; registration order is irrelevant since
// lookup is by name.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry[name] = ctor
}

// Registered returns the sorted names of all registered services.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// NewProvider instantiates the provider named by the configuration. An
// unknown name is a configuration-time fault, reported as an internal
// failure so startup can refuse to serve queries.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	registryMu.RLock()
	ctor, ok := registry[cfg.Name]
	registryMu.RUnlock()

	if !ok {
		return nil, &LookupError{
			Kind:    FailureInternal,
			Message: fmt.Sprintf("unknown geocoding service: %q", cfg.Name),
		}
	}

	return ctor(cfg)
}
