// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// Engine holds the ranked provider chain and applies the fallback policy:
// try each provider in order, stop at the first usable result, and when the
// whole chain fails report the most actionable failure encountered. The
// provider list is immutable after construction, so the engine is safe for
// concurrent Resolve calls; reconfiguration means building a new engine.
type Engine struct {
	providers []Provider
}

// NewEngine instantiates every configured provider through the registry, in
// rank order (index 0 = most preferred). An unknown service name or an empty
// list fails here, at construction time, so a misconfigured process never
// serves queries.
func NewEngine(configs []ProviderConfig) (*Engine, error) {
	if len(configs) == 0 {
		return nil, &LookupError{
			Kind:    FailureInternal,
			Message: "there are no configured geocoding services",
		}
	}

	providers := make([]Provider, 0, len(configs))

	for _, cfg := range configs {
		provider, err := NewProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("configuring service %q: %w", cfg.Name, err)
		}

		providers = append(providers, provider)
	}

	return &Engine{providers: providers}, nil
}

// NewEngineWithProviders builds an engine directly from provider instances,
// bypassing the registry.
func NewEngineWithProviders(providers ...Provider) *Engine {
	return &Engine{providers: providers}
}

// Resolve runs the query through the provider chain and returns the first
// successful result. Attempts are sequential on purpose: stopping at the
// first success avoids spending quota on lower-ranked providers. The caller
// ctx bounds the whole chain; each provider additionally enforces its own
// per-lookup timeout.
func (e *Engine) Resolve(ctx context.Context, query string) (*Result, error) {
	if len(e.providers) == 0 {
		return nil, &LookupError{
			Kind:    FailureInternal,
			Message: "there are no configured geocoding services",
		}
	}

	if strings.TrimSpace(query) == "" {
		return nil, &LookupError{
			Kind:    FailureInvalidQuery,
			Message: "query must not be empty",
		}
	}

	var worst *LookupError

	for _, provider := range e.providers {
		if err := ctx.Err(); err != nil {
			return nil, e.aggregate(worst, cancelled(err))
		}

		result, err := e.attempt(ctx, provider, query)
		if err == nil {
			return result, nil
		}

		failure := asLookupError(provider.Name(), err)
		log.Printf("Lookup against %q failed: %v", provider.Name(), failure)

		worst = mostSevere(worst, failure)
	}

	return nil, e.aggregate(worst, nil)
}

// attempt isolates one provider call, converting a panicking adapter into an
// internal failure so a single bad provider can never take down the request.
func (e *Engine) attempt(ctx context.Context, provider Provider, query string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &LookupError{
				Kind:    FailureInternal,
				Service: provider.Name(),
				Message: fmt.Sprintf("lookup panicked: %v", r),
			}
		}
	}()

	result, err = provider.Lookup(ctx, query)
	if err != nil {
		return nil, err
	}

	if result == nil {
		return nil, &LookupError{
			Kind:    FailureUnexpectedResponse,
			Service: provider.Name(),
			Message: "lookup returned no result and no error",
		}
	}

	if verr := result.Point.Validate(); verr != nil {
		return nil, &LookupError{
			Kind:    FailureUnexpectedResponse,
			Service: provider.Name(),
			Message: "coordinates out of range",
			Err:     verr,
		}
	}

	return result, nil
}

func (e *Engine) aggregate(worst, last *LookupError) *LookupError {
	worst = mostSevere(worst, last)
	if worst == nil {
		// Unreachable with a non-empty chain, but never answer with nil.
		worst = &LookupError{Kind: FailureInternal, Message: "no provider was attempted"}
	}

	return worst
}

// mostSevere keeps the failure the caller should see. Ties keep the earlier
// failure, so equal-severity kinds report the highest-ranked provider.
func mostSevere(current, candidate *LookupError) *LookupError {
	if candidate == nil {
		return current
	}

	if current == nil || severities[candidate.Kind] > severities[current.Kind] {
		return candidate
	}

	return current
}

func asLookupError(service string, err error) *LookupError {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr
	}

	return &LookupError{
		Kind:    FailureInternal,
		Service: service,
		Message: "unexpected lookup fault",
		Err:     err,
	}
}

func cancelled(err error) *LookupError {
	kind := FailureInternal
	if errors.Is(err, context.DeadlineExceeded) {
		kind = FailureTimeout
	}

	return &LookupError{
		Kind:    kind,
		Message: "request abandoned",
		Err:     err,
	}
}
