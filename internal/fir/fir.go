// Package fir holds the fixed catalogue of flight information regions and
// their bounding boxes.
package fir

import (
	"errors"
	"fmt"

	"github.com/golang/geo/s2"
	"github.com/leoorbiters/leoorbiters/internal/types"
)

// ErrUnknownFIR is returned by Lookup for names outside the catalogue
var ErrUnknownFIR = errors.New("unknown FIR")

// Region is a FIR with its lat/lon bounding box
type Region struct {
	Name        types.FIR
	DisplayName string
	Description string
	Country     string

	latLo, latHi, lonLo, lonHi float64
	rect                       s2.Rect
}

var catalogue = []Region{
	newRegion(types.FIRIncheon, "인천 FIR", "Incheon (South Korea)", "KR", 35, 38, 124, 130),
	newRegion(types.FIRFukuoka, "후꾸오까 FIR", "Fukuoka (Japan)", "JP", 32, 35, 128, 132),
	newRegion(types.FIRPyongyang, "평양 FIR", "Pyongyang (North Korea)", "KP", 38, 42, 124, 130),
}

func newRegion(name types.FIR, display, description, country string, latLo, latHi, lonLo, lonHi float64) Region {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(latLo, lonLo)).
		AddPoint(s2.LatLngFromDegrees(latHi, lonHi))
	return Region{
		Name:        name,
		DisplayName: display,
		Description: description,
		Country:     country,
		latLo:       latLo,
		latHi:       latHi,
		lonLo:       lonLo,
		lonHi:       lonHi,
		rect:        rect,
	}
}

// All returns the catalogue in display order
func All() []Region {
	out := make([]Region, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup returns the region with the given name
func Lookup(name types.FIR) (Region, error) {
	for _, r := range catalogue {
		if r.Name == name {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("%w: %q", ErrUnknownFIR, name)
}

// Bounds returns the box as (latLo, latHi, lonLo, lonHi) in degrees
func (r Region) Bounds() (latLo, latHi, lonLo, lonHi float64) {
	return r.latLo, r.latHi, r.lonLo, r.lonHi
}

// Contains reports whether the point lies inside the box, edges included.
// A small tolerance absorbs the degree/radian round trip.
func (r Region) Contains(lat, lon float64) bool {
	margin := s2.LatLngFromDegrees(1e-9, 1e-9)
	expanded := s2.Rect{
		Lat: r.rect.Lat.Expanded(margin.Lat.Radians()),
		Lng: r.rect.Lng.Expanded(margin.Lng.Radians()),
	}
	return expanded.ContainsLatLng(s2.LatLngFromDegrees(lat, lon))
}

// Center returns the box centre as a location
func (r Region) Center() types.Location {
	c := r.rect.Center()
	return types.Location{c.Lat.Degrees(), c.Lng.Degrees()}
}
