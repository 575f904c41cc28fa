// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// FailureKind is the normalized failure category shared by every provider.
// Each adapter maps its own error surface onto this set, so callers never
// need provider-specific error handling.
type FailureKind int

const (
	// FailureInternal covers faults that are not attributable to the query
	// or to any upstream provider (empty configuration, panics, bugs).
	FailureInternal FailureKind = iota
	// FailureInvalidQuery means the query was rejected before or by a
	// provider as malformed (e.g. empty search text).
	FailureInvalidQuery
	// FailureAuthentication means a provider rejected our credentials.
	FailureAuthentication
	// FailureUnexpectedResponse means a provider answered with a payload
	// that violates its own documented contract.
	FailureUnexpectedResponse
	// FailureNoResult means a provider answered cleanly with zero candidates.
	FailureNoResult
	// FailureTimeout means a provider did not answer within its budget.
	FailureTimeout
	// FailureUnreachable means the provider could not be contacted at all
	// (connection refused, DNS failure, upstream 5xx).
	FailureUnreachable
)

// statusMessages is the external "status" string for each kind. These are
// part of the wire contract and must stay stable.
var statusMessages = map[FailureKind]string{
	FailureInternal:           "Internal error",
	FailureInvalidQuery:       "Invalid query",
	FailureAuthentication:     "Authentication failed",
	FailureUnexpectedResponse: "Unexpected provider response",
	FailureNoResult:           "No result found",
	FailureTimeout:            "Request timed out",
	FailureUnreachable:        "Service unreachable",
}

// httpStatuses maps each kind to the HTTP code served by the REST layer.
var httpStatuses = map[FailureKind]int{
	FailureInternal:           http.StatusInternalServerError,
	FailureInvalidQuery:       http.StatusBadRequest,
	FailureAuthentication:     http.StatusUnauthorized,
	FailureUnexpectedResponse: http.StatusPaymentRequired,
	FailureNoResult:           http.StatusNotFound,
	FailureTimeout:            http.StatusRequestTimeout,
	FailureUnreachable:        http.StatusServiceUnavailable,
}

// Message returns the external status string for the kind.
func (k FailureKind) Message() string {
	if m, ok := statusMessages[k]; ok {
		return m
	}

	return statusMessages[FailureInternal]
}

// HTTPStatus returns the HTTP code for the kind.
func (k FailureKind) HTTPStatus() int {
	if c, ok := httpStatuses[k]; ok {
		return c
	}

	return http.StatusInternalServerError
}

// severities order kinds for aggregation when every provider in the chain
// failed. The caller should see the most actionable problem: configuration
// problems first, transients next, and a clean "no result" only when nothing
// worse happened.
var severities = map[FailureKind]int{
	FailureAuthentication:     7,
	FailureUnexpectedResponse: 6,
	FailureInternal:           5,
	FailureInvalidQuery:       4,
	FailureTimeout:            3,
	FailureUnreachable:        2,
	FailureNoResult:           1,
}

// LookupError is a typed geocoding failure. Exactly one kind per error;
// Service carries the originating provider name when there is one.
type LookupError struct {
	Kind    FailureKind
	Service string
	Message string
	Err     error
}

func (e *LookupError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Message()
	}

	if e.Service != "" {
		msg = fmt.Sprintf("%s: %s", e.Service, msg)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error, mapping anything that is
// not a LookupError to FailureInternal.
func KindOf(err error) FailureKind {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Kind
	}

	return FailureInternal
}

// classifyHTTPStatus maps an upstream non-200 HTTP status onto the shared
// failure kinds. Individual adapters refine this with provider-specific
// signals (e.g. the Google Maps status field).
func classifyHTTPStatus(service string, statusCode int) *LookupError {
	var kind FailureKind

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		kind = FailureAuthentication
	case statusCode == http.StatusNotFound:
		kind = FailureNoResult
	case statusCode == http.StatusRequestTimeout:
		kind = FailureTimeout
	case statusCode == http.StatusTooManyRequests:
		kind = FailureUnreachable
	case statusCode >= 500:
		kind = FailureUnreachable
	default:
		kind = FailureUnexpectedResponse
	}

	return &LookupError{
		Kind:    kind,
		Service: service,
		Message: fmt.Sprintf("upstream returned status %d", statusCode),
	}
}

// classifyTransportError maps a failed outbound call (no HTTP response at
// all) onto the shared failure kinds.
func classifyTransportError(service string, err error) *LookupError {
	kind := FailureUnreachable

	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = FailureTimeout
	}

	return &LookupError{
		Kind:    kind,
		Service: service,
		Message: "contacting provider",
		Err:     err,
	}
}
