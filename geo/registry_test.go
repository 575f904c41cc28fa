// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredContainsBuiltinAdapters(t *testing.T) {
	names := Registered()

	assert.Contains(t, names, GoogleServiceName)
	assert.Contains(t, names, HereServiceName)
	assert.Contains(t, names, NominatimServiceName)
}

func TestNewProviderUnknownName(t *testing.T) {
	_, err := NewProvider(ProviderConfig{Name: "Acme Geocoding"})
	require.Error(t, err)
	assert.Equal(t, FailureInternal, KindOf(err))
	assert.Contains(t, err.Error(), "Acme Geocoding")
}

func TestNewProviderIndependentInstances(t *testing.T) {
	first, err := NewProvider(ProviderConfig{
		Name:        HereServiceName,
		Credentials: map[string]string{"app_id": "id-1", "app_code": "code-1"},
	})
	require.NoError(t, err)

	second, err := NewProvider(ProviderConfig{
		Name:        HereServiceName,
		Credentials: map[string]string{"app_id": "id-2", "app_code": "code-2"},
	})
	require.NoError(t, err)

	h1, ok := first.(*Here)
	require.True(t, ok)
	h2, ok := second.(*Here)
	require.True(t, ok)

	assert.NotEqual(t, h1.appID, h2.appID, "instances must keep their own credentials")
	assert.Equal(t, "id-1", h1.appID)
	assert.Equal(t, "id-2", h2.appID)
}

func TestRegisterCustomConstructor(t *testing.T) {
	Register("Test Echo", func(cfg ProviderConfig) (Provider, error) {
		return &stubProvider{name: cfg.Name}, nil
	})

	provider, err := NewProvider(ProviderConfig{Name: "Test Echo"})
	require.NoError(t, err)
	assert.Equal(t, "Test Echo", provider.Name())

	_, err = provider.Lookup(context.Background(), "anything")
	assert.NoError(t, err)
}
