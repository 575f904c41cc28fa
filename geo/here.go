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

// HereServiceName is the registry name of the HERE geocode adapter. For
// instructions on obtaining an app_id/app_code pair, see:
//
//	developer.here.com/map/API
const HereServiceName = "HERE"

const hereEndpoint = "https://geocoder.api.here.com/6.2/geocode.json"

func init() {
	Register(HereServiceName, NewHere)
}

// Here is the adapter for the HERE geocoder service.
type Here struct {
	name       string
	appID      string
	appCode    string
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// NewHere builds a HERE adapter from its configuration. The "app_id" and
// "app_code" credentials are both required.
func NewHere(cfg ProviderConfig) (Provider, error) {
	appID := cfg.Credentials["app_id"]
	appCode := cfg.Credentials["app_code"]

	if appID == "" || appCode == "" {
		return nil, fmt.Errorf("HERE requires both app_id and app_code credentials")
	}

	return &Here{
		name:       cfg.Name,
		appID:      appID,
		appCode:    appCode,
		endpoint:   hereEndpoint,
		timeout:    cfg.Timeout(),
		httpClient: newHTTPClient(cfg.Timeout()),
	}, nil
}

// Name returns the human-readable service name.
func (h *Here) Name() string {
	return h.name
}

type hereResponse struct {
	Response struct {
		View []struct {
			Result []struct {
				Location struct {
					DisplayPosition struct {
						Latitude  float64 `json:"Latitude"`
						Longitude float64 `json:"Longitude"`
					} `json:"DisplayPosition"`
				} `json:"Location"`
			} `json:"Result"`
		} `json:"View"`
	} `json:"Response"`
}

// Lookup performs a geocode resolution against the HERE geocode service.
// HERE ranks candidates by relevance; the first result of the first view is
// the best match.
func (h *Here) Lookup(ctx context.Context, query string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("searchtext", query)
	params.Set("app_id", h.appID)
	params.Set("app_code", h.appCode)
	params.Set("gen", "9")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &LookupError{
			Kind:    FailureInternal,
			Service: h.name,
			Message: "building request",
			Err:     err,
		}
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(h.name, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPStatus(h.name, resp.StatusCode)
	}

	var hereResp hereResponse
	if err := json.NewDecoder(resp.Body).Decode(&hereResp); err != nil {
		return nil, &LookupError{
			Kind:    FailureUnexpectedResponse,
			Service: h.name,
			Message: "decoding response",
			Err:     err,
		}
	}

	if len(hereResp.Response.View) == 0 {
		return nil, &LookupError{
			Kind:    FailureNoResult,
			Service: h.name,
			Message: "no result found",
		}
	}

	if len(hereResp.Response.View[0].Result) == 0 {
		return nil, &LookupError{
			Kind:    FailureUnexpectedResponse,
			Service: h.name,
			Message: "view present but result list is empty",
		}
	}

	position := hereResp.Response.View[0].Result[0].Location.DisplayPosition

	return &Result{
		Service: h.name,
		Point:   spatial.Point{Lng: position.Longitude, Lat: position.Latitude},
	}, nil
}
