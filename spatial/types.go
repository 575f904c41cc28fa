// Copyright 2026 The WhereAmI Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"fmt"
)

// Point represents a geographical point with longitude and latitude.
type Point struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// Validate checks the point against the global coordinate bounds.
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90 (got: %f)", p.Lat)
	}

	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180 (got: %f)", p.Lng)
	}

	return nil
}
