// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/whereami-dev/whereami/spatial"
)

// NominatimServiceName is the registry name of the OSM Nominatim adapter.
// Nominatim needs no credentials but enforces a usage policy that requires a
// meaningful User-Agent, which newHTTPClient always sets:
//
//	operations.osmfoundation.org/policies/nominatim
const NominatimServiceName = "Nominatim"

const nominatimEndpoint = "https://nominatim.openstreetmap.org/search"

func init() {
	Register(NominatimServiceName, NewNominatim)
}

// Nominatim is the adapter for the OpenStreetMap Nominatim search API.
type Nominatim struct {
	name       string
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// NewNominatim builds a Nominatim adapter from its configuration.
func NewNominatim(cfg ProviderConfig) (Provider, error) {
	return &Nominatim{
		name:       cfg.Name,
		endpoint:   nominatimEndpoint,
		timeout:    cfg.Timeout(),
		httpClient: newHTTPClient(cfg.Timeout()),
	}, nil
}

// Name returns the human-readable service name.
func (n *Nominatim) Name() string {
	return n.name
}

// Nominatim serializes coordinates as strings.
type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup performs a geocode resolution against Nominatim. The request asks
// for a single candidate, which Nominatim ranks by importance.
func (n *Nominatim) Lookup(ctx context.Context, query string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &LookupError{
			Kind:    FailureInternal,
			Service: n.name,
			Message: "building request",
			Err:     err,
		}
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(n.name, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPStatus(n.name, resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, &LookupError{
			Kind:    FailureUnexpectedResponse,
			Service: n.name,
			Message: "decoding response",
			Err:     err,
		}
	}

	if len(places) == 0 {
		return nil, &LookupError{
			Kind:    FailureNoResult,
			Service: n.name,
			Message: "no result found",
		}
	}

	lat, latErr := strconv.ParseFloat(places[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(places[0].Lon, 64)

	if latErr != nil || lngErr != nil {
		return nil, &LookupError{
			Kind:    FailureUnexpectedResponse,
			Service: n.name,
			Message: "non-numeric coordinates in response",
		}
	}

	return &Result{
		Service: n.name,
		Point:   spatial.Point{Lng: lng, Lat: lat},
	}, nil
}
