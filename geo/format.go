// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"net/http"

	"github.com/whereami-dev/whereami/spatial"
)

// Response is the external representation of a resolution outcome, shared by
// the REST layer and the CLI.
type Response struct {
	Status string `json:"status"`
	Result any    `json:"result"`
}

// ResultPayload is the populated "result" member of a successful Response.
type ResultPayload struct {
	Service  string        `json:"service"`
	Location spatial.Point `json:"location"`
}

const statusSuccess = "success"

// Format maps a resolution outcome to the wire contract: on success the
// status is "success" and the result carries the service name and location;
// on failure the status is the failure message and the result is empty. It
// is a pure function of its inputs and also returns the HTTP code a REST
// collaborator should serve.
func Format(result *Result, err error) (int, Response) {
	if err != nil {
		kind := KindOf(err)

		return kind.HTTPStatus(), Response{
			Status: kind.Message(),
			Result: struct{}{},
		}
	}

	if result == nil {
		return FailureInternal.HTTPStatus(), Response{
			Status: FailureInternal.Message(),
			Result: struct{}{},
		}
	}

	return http.StatusOK, Response{
		Status: statusSuccess,
		Result: ResultPayload{
			Service:  result.Service,
			Location: result.Point,
		},
	}
}
