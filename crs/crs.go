// Package crs resolves EPSG codes and builds coordinate transformations
// between the spatial reference systems geokit understands.
//
// Every supported system sits on the WGS 84 datum, so a transformation is
// the source's inverse projection to geographic coordinates followed by the
// destination's forward projection.
package crs

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Common errors returned by this package.
var (
	ErrUnknownCRS  = errors.New("crs: unknown spatial reference")
	ErrOutOfDomain = errors.New("crs: coordinate outside projection domain")
)

// EPSG codes with built-in definitions.
const (
	WGS84         = 4326
	WorldMercator = 3395
	WebMercator   = 3857
	googleAlias   = 900913
)

// UnknownCRSError reports an EPSG code with no known definition.
type UnknownCRSError struct {
	Code int
}

func (e *UnknownCRSError) Error() string {
	return fmt.Sprintf("crs: unknown spatial reference EPSG:%d", e.Code)
}

// Is makes errors.Is(err, ErrUnknownCRS) succeed.
func (e *UnknownCRSError) Is(target error) bool {
	return target == ErrUnknownCRS
}

// projectFunc maps a point between geographic coordinates and a projection.
type projectFunc func(orb.Point) (orb.Point, error)

// Definition describes a spatial reference system.
type Definition struct {
	Code       int    // EPSG code
	Name       string // Human readable name
	Geographic bool   // Coordinates are longitude/latitude degrees
	Proj4      string // proj4 definition, empty when handled by orb/project

	forward projectFunc // geographic -> this system
	inverse projectFunc // this system -> geographic
}

var registry = map[int]Definition{
	WGS84: {
		Code:       WGS84,
		Name:       "WGS 84",
		Geographic: true,
		Proj4:      geographicProj4,
		forward:    checkGeographic,
		inverse:    checkGeographic,
	},
	WorldMercator: projected(WorldMercator, "WGS 84 / World Mercator", worldMercatorProj4),
	WebMercator: webMercator(WebMercator),
	googleAlias: webMercator(googleAlias),
}

func webMercator(code int) Definition {
	return Definition{
		Code: code,
		Name: "WGS 84 / Pseudo-Mercator",
		forward: func(p orb.Point) (orb.Point, error) {
			if !finite(p) || math.Abs(p[1]) >= 90 {
				return p, outOfDomain(p)
			}
			return project.WGS84.ToMercator(p), nil
		},
		inverse: func(p orb.Point) (orb.Point, error) {
			if !finite(p) {
				return p, outOfDomain(p)
			}
			return project.Mercator.ToWGS84(p), nil
		},
	}
}

// Lookup returns the definition registered for code.
func Lookup(code int) (Definition, error) {
	def, ok := registry[code]
	if !ok {
		return Definition{}, &UnknownCRSError{Code: code}
	}
	return def, nil
}

// Codes lists the supported EPSG codes in ascending order.
func Codes() []int {
	codes := make([]int, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

func checkGeographic(p orb.Point) (orb.Point, error) {
	if !finite(p) || math.Abs(p[1]) > 90 {
		return p, outOfDomain(p)
	}
	return p, nil
}

func finite(p orb.Point) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func outOfDomain(p orb.Point) error {
	return fmt.Errorf("%w: (%v, %v)", ErrOutOfDomain, p[0], p[1])
}
