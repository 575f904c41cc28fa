// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/whereami-dev/whereami/spatial"
	"github.com/whereami-dev/whereami/utils/httputils"
)

// Result is a single coordinate point judged the best match for a query,
// tagged with the human-readable name of the service that produced it.
type Result struct {
	Service string
	Point   spatial.Point
}

// Provider resolves a free-text query (street address, landmark) against one
// third-party geocoding API. Implementations perform exactly one outbound
// call per invocation, return within their configured timeout, and report
// every expected failure mode as a *LookupError. Instances hold no mutable
// state and are safe for concurrent use.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, query string) (*Result, error)
}

// ProviderConfig is the configuration for one provider instance: the
// registry name, the per-lookup timeout, and the credential parameters the
// upstream API requires.
type ProviderConfig struct {
	Name           string
	TimeoutSeconds float64
	Credentials    map[string]string
}

const defaultLookupTimeout = 10 * time.Second

// Timeout returns the configured per-lookup timeout, falling back to the
// default when unset.
func (c ProviderConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultLookupTimeout
	}

	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

const userAgent = "whereami (+https://github.com/whereami-dev/whereami)"

// newHTTPClient builds the HTTP client shared by the adapters: timeout,
// User-Agent, and optional request tracing when WHEREAMI_HTTP_TRACE is set.
func newHTTPClient(timeout time.Duration) *http.Client {
	var traceWriter io.Writer
	if os.Getenv("WHEREAMI_HTTP_TRACE") != "" {
		traceWriter = os.Stderr
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &httputils.AppendRequestHeadersRoundTripper{
			Headers: map[string]string{
				"User-Agent": userAgent,
				"Accept":     "application/json",
			},
			Transport: &httputils.LoggingRoundTripper{
				Writer:    traceWriter,
				DumpBody:  false,
				Transport: http.DefaultTransport,
			},
		},
	}
}
