package geokit

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// boundaryTolerance is the distance under which a point counts as lying
// on a ring rather than inside it.
const boundaryTolerance = 1e-9

// within reports whether g lies strictly within container, which must be
// a polygon or a multipolygon. Points on the container's boundary are not
// within it, and a line or polygon must reach its interior.
func within(g orb.Geometry, container orb.Geometry) bool {
	switch c := container.(type) {
	case orb.Polygon:
		return withinPolygon(g, c)
	case orb.MultiPolygon:
		return withinMultiPolygon(g, c)
	default:
		return false
	}
}

func withinMultiPolygon(g orb.Geometry, mp orb.MultiPolygon) bool {
	switch v := g.(type) {
	case orb.MultiPoint:
		return len(v) > 0 && allOf(len(v), func(i int) bool { return withinMultiPolygon(v[i], mp) })
	case orb.MultiLineString:
		return len(v) > 0 && allOf(len(v), func(i int) bool { return withinMultiPolygon(v[i], mp) })
	case orb.MultiPolygon:
		return len(v) > 0 && allOf(len(v), func(i int) bool { return withinMultiPolygon(v[i], mp) })
	case orb.Collection:
		return len(v) > 0 && allOf(len(v), func(i int) bool { return withinMultiPolygon(v[i], mp) })
	}

	for _, poly := range mp {
		if withinPolygon(g, poly) {
			return true
		}
	}
	return false
}

func withinPolygon(g orb.Geometry, poly orb.Polygon) bool {
	if len(poly) == 0 {
		return false
	}

	switch v := g.(type) {
	case orb.Point:
		return interior(poly, v)
	case orb.MultiPoint:
		return len(v) > 0 && allOf(len(v), func(i int) bool { return interior(poly, v[i]) })
	case orb.LineString:
		return lineWithin(v, poly)
	case orb.MultiLineString:
		return len(v) > 0 && allOf(len(v), func(i int) bool { return lineWithin(v[i], poly) })
	case orb.Ring:
		return lineWithin(orb.LineString(v), poly)
	case orb.Polygon:
		return polygonWithin(v, poly)
	case orb.MultiPolygon:
		return len(v) > 0 && allOf(len(v), func(i int) bool { return polygonWithin(v[i], poly) })
	case orb.Collection:
		return len(v) > 0 && allOf(len(v), func(i int) bool { return withinPolygon(v[i], poly) })
	default:
		return false
	}
}

// interior reports whether p is inside poly and not on any of its rings.
func interior(poly orb.Polygon, p orb.Point) bool {
	return planar.PolygonContains(poly, p) && !onBoundary(poly, p)
}

func onBoundary(poly orb.Polygon, p orb.Point) bool {
	for _, r := range poly {
		for i := 0; i+1 < len(r); i++ {
			if planar.DistanceFromSegment(r[i], r[i+1], p) <= boundaryTolerance {
				return true
			}
		}
	}
	return false
}

// lineWithin splits every segment of ls wherever it meets a ring of poly
// and checks the split points and the midpoint of every piece. All of them
// must be inside or on poly and at least one strictly inside.
func lineWithin(ls orb.LineString, poly orb.Polygon) bool {
	if len(ls) == 0 {
		return false
	}

	inside := false
	check := func(p orb.Point) bool {
		if onBoundary(poly, p) {
			return true
		}
		if !planar.PolygonContains(poly, p) {
			return false
		}
		inside = true
		return true
	}

	if !check(ls[0]) {
		return false
	}
	for i := 1; i < len(ls); i++ {
		a, b := ls[i-1], ls[i]
		cuts := segmentCuts(a, b, poly)
		for j := 1; j < len(cuts); j++ {
			if cuts[j]-cuts[j-1] <= 0 {
				continue
			}
			if !check(along(a, b, (cuts[j-1]+cuts[j])/2)) || !check(along(a, b, cuts[j])) {
				return false
			}
		}
	}
	return inside
}

// polygonWithin tests the exterior ring of inner, then makes sure no hole
// of outer sits inside inner.
func polygonWithin(inner, outer orb.Polygon) bool {
	if len(inner) == 0 || !lineWithin(orb.LineString(inner[0]), outer) {
		return false
	}
	shell := orb.Polygon{inner[0]}
	for _, hole := range outer[1:] {
		for _, p := range hole {
			if interior(shell, p) {
				return false
			}
		}
	}
	return true
}

// segmentCuts returns the sorted positions, as fractions of ab, where ab
// touches, crosses or starts overlapping a ring of poly, including both ends.
func segmentCuts(a, b orb.Point, poly orb.Polygon) []float64 {
	cuts := []float64{0, 1}
	r := orb.Point{b[0] - a[0], b[1] - a[1]}
	rr := dot(r, r)
	if rr == 0 {
		return cuts
	}
	length := math.Sqrt(rr)

	add := func(t float64) {
		if t > 0 && t < 1 {
			cuts = append(cuts, t)
		}
	}

	for _, ring := range poly {
		for i := 0; i+1 < len(ring); i++ {
			c, d := ring[i], ring[i+1]
			s := orb.Point{d[0] - c[0], d[1] - c[1]}
			ac := orb.Point{c[0] - a[0], c[1] - a[1]}

			denom := perp(r, s)
			if math.Abs(denom) > boundaryTolerance*length*math.Sqrt(dot(s, s)) {
				t := perp(ac, s) / denom
				u := perp(ac, r) / denom
				if u >= -boundaryTolerance && u <= 1+boundaryTolerance {
					add(t)
				}
				continue
			}

			// parallel: only a collinear edge can overlap
			if math.Abs(perp(ac, r))/length > boundaryTolerance {
				continue
			}
			add(dot(ac, r) / rr)
			add(dot(orb.Point{d[0] - a[0], d[1] - a[1]}, r) / rr)
		}
	}

	sort.Float64s(cuts)
	return cuts
}

func along(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}

func dot(a, b orb.Point) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

func perp(a, b orb.Point) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

func allOf(n int, fn func(int) bool) bool {
	for i := 0; i < n; i++ {
		if !fn(i) {
			return false
		}
	}
	return true
}
