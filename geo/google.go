// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/whereami-dev/whereami/spatial"
)

// GoogleServiceName is the registry name of the Google Maps geocode adapter.
// For instructions on obtaining a key, see:
//
//	developers.google.com/maps/documentation/javascript/get-api-key
const GoogleServiceName = "Google Maps API"

const googleEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

func init() {
	Register(GoogleServiceName, NewGoogleMaps)
}

// GoogleMaps is the adapter for the Google Maps Geocoding API.
type GoogleMaps struct {
	name       string
	apiKey     string
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// NewGoogleMaps builds a Google Maps adapter from its configuration. The
// "api_key" credential is required; when absent, the key is looked up via
// Application Default Credentials (see google_adc.go).
func NewGoogleMaps(cfg ProviderConfig) (Provider, error) {
	apiKey := cfg.Credentials["api_key"]
	if apiKey == "" {
		var err error

		apiKey, err = apiKeyFromADC(context.Background(), cfg.Credentials)
		if err != nil {
			return nil, fmt.Errorf("google maps api_key is not configured and ADC lookup failed: %w", err)
		}
	}

	return &GoogleMaps{
		name:       cfg.Name,
		apiKey:     apiKey,
		endpoint:   googleEndpoint,
		timeout:    cfg.Timeout(),
		httpClient: newHTTPClient(cfg.Timeout()),
	}, nil
}

// Name returns the human-readable service name.
func (g *GoogleMaps) Name() string {
	return g.name
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// googleStatusKinds maps the Google Maps "status" field onto the shared
// failure kinds. OK is handled separately.
var googleStatusKinds = map[string]FailureKind{
	"ZERO_RESULTS":     FailureNoResult,
	"INVALID_REQUEST":  FailureInvalidQuery,
	"REQUEST_DENIED":   FailureAuthentication,
	"OVER_QUERY_LIMIT": FailureUnreachable,
	"OVER_DAILY_LIMIT": FailureUnreachable,
	"UNKNOWN_ERROR":    FailureUnreachable,
}

// Lookup performs a geocode resolution against the Google Maps geocode
// service. Multiple candidates are reduced to the first one, which Google
// ranks as the best match.
func (g *GoogleMaps) Lookup(ctx context.Context, query string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("address", query)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &LookupError{
			Kind:    FailureInternal,
			Service: g.name,
			Message: "building request",
			Err:     err,
		}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(g.name, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPStatus(g.name, resp.StatusCode)
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, &LookupError{
			Kind:    FailureUnexpectedResponse,
			Service: g.name,
			Message: "decoding response",
			Err:     err,
		}
	}

	if gmResp.Status != "OK" {
		kind, ok := googleStatusKinds[gmResp.Status]
		if !ok {
			kind = FailureUnexpectedResponse
		}

		return nil, &LookupError{
			Kind:    kind,
			Service: g.name,
			Message: fmt.Sprintf("google maps status %s: %s", gmResp.Status, gmResp.ErrorMessage),
		}
	}

	if len(gmResp.Results) == 0 {
		return nil, &LookupError{
			Kind:    FailureNoResult,
			Service: g.name,
			Message: "no result found",
		}
	}

	location := gmResp.Results[0].Geometry.Location

	return &Result{
		Service: g.name,
		Point:   spatial.Point{Lng: location.Lng, Lat: location.Lat},
	}, nil
}
