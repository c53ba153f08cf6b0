package crs

import (
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
)

// proj4 definitions of the systems projected through the proj library.
const (
	geographicProj4    = "+proj=longlat +datum=WGS84 +no_defs"
	worldMercatorProj4 = "+proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"
)

// projected builds the definition of a projection given as a proj4 string.
// Both directions go through WGS 84 longitude/latitude in degrees.
func projected(code int, name, def string) Definition {
	geographic, err := proj.Parse(geographicProj4)
	if err != nil {
		panic(fmt.Sprintf("crs: parse %q: %v", geographicProj4, err))
	}
	sr, err := proj.Parse(def)
	if err != nil {
		panic(fmt.Sprintf("crs: parse EPSG:%d: %v", code, err))
	}
	forward, err := geographic.NewTransform(sr)
	if err != nil {
		panic(fmt.Sprintf("crs: transform to EPSG:%d: %v", code, err))
	}
	inverse, err := sr.NewTransform(geographic)
	if err != nil {
		panic(fmt.Sprintf("crs: transform from EPSG:%d: %v", code, err))
	}

	return Definition{
		Code:  code,
		Name:  name,
		Proj4: def,
		forward: func(p orb.Point) (orb.Point, error) {
			if !finite(p) || math.Abs(p[1]) >= 90 {
				return p, outOfDomain(p)
			}
			return apply(forward, p)
		},
		inverse: func(p orb.Point) (orb.Point, error) {
			if !finite(p) {
				return p, outOfDomain(p)
			}
			return apply(inverse, p)
		},
	}
}

func apply(t proj.Transformer, p orb.Point) (orb.Point, error) {
	x, y, err := t(p[0], p[1])
	if err != nil {
		return p, fmt.Errorf("%w: (%v, %v): %v", ErrOutOfDomain, p[0], p[1], err)
	}
	out := orb.Point{x, y}
	if !finite(out) {
		return p, outOfDomain(p)
	}
	return out, nil
}
