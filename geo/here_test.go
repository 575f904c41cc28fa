// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHereForTest(endpoint string) *Here {
	return &Here{
		name:       HereServiceName,
		appID:      "test-id",
		appCode:    "test-code",
		endpoint:   endpoint,
		timeout:    time.Second,
		httpClient: newHTTPClient(time.Second),
	}
}

func TestHereLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Plaza Independencia", r.URL.Query().Get("searchtext"))
		assert.Equal(t, "test-id", r.URL.Query().Get("app_id"))
		assert.Equal(t, "test-code", r.URL.Query().Get("app_code"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Response": {
				"View": [
					{"Result": [
						{"Location": {"DisplayPosition": {"Latitude": -34.90328, "Longitude": -56.18816}}},
						{"Location": {"DisplayPosition": {"Latitude": 0, "Longitude": 0}}}
					]}
				]
			}
		}`))
	}))
	defer srv.Close()

	h := newHereForTest(srv.URL)

	result, err := h.Lookup(context.Background(), "Plaza Independencia")
	require.NoError(t, err)
	assert.Equal(t, HereServiceName, result.Service)
	assert.InDelta(t, -56.18816, result.Point.Lng, 1e-9)
	assert.InDelta(t, -34.90328, result.Point.Lat, 1e-9)
}

func TestHereLookupEmptyView(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Response": {"View": []}}`))
	}))
	defer srv.Close()

	h := newHereForTest(srv.URL)

	_, err := h.Lookup(context.Background(), "xyzzy")
	assert.Equal(t, FailureNoResult, KindOf(err))
}

func TestHereLookupViewWithoutResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Response": {"View": [{"Result": []}]}}`))
	}))
	defer srv.Close()

	h := newHereForTest(srv.URL)

	_, err := h.Lookup(context.Background(), "xyzzy")
	assert.Equal(t, FailureUnexpectedResponse, KindOf(err))
}

func TestHereLookupBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	h := newHereForTest(srv.URL)

	_, err := h.Lookup(context.Background(), "anywhere")
	assert.Equal(t, FailureAuthentication, KindOf(err))
}

func TestHereLookupMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	h := newHereForTest(srv.URL)

	_, err := h.Lookup(context.Background(), "anywhere")
	assert.Equal(t, FailureUnexpectedResponse, KindOf(err))
}

func TestNewHereRequiresCredentials(t *testing.T) {
	tests := []struct {
		name        string
		credentials map[string]string
	}{
		{name: "no credentials", credentials: nil},
		{name: "missing app_code", credentials: map[string]string{"app_id": "id"}},
		{name: "missing app_id", credentials: map[string]string{"app_code": "code"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHere(ProviderConfig{Name: HereServiceName, Credentials: tt.credentials})
			assert.Error(t, err)
		})
	}
}
