package fgb

import (
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
)

// geometryType maps an orb.Geometry to its FlatGeobuf GeometryType.
func geometryType(geom orb.Geometry) flattypes.GeometryType {
	switch geom.(type) {
	case orb.Point:
		return flattypes.GeometryTypePoint
	case orb.MultiPoint:
		return flattypes.GeometryTypeMultiPoint
	case orb.LineString:
		return flattypes.GeometryTypeLineString
	case orb.MultiLineString:
		return flattypes.GeometryTypeMultiLineString
	case orb.Polygon:
		return flattypes.GeometryTypePolygon
	case orb.MultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	default:
		return flattypes.GeometryTypeUnknown
	}
}

// multiTypes maps each single part type to its multi part type.
var multiTypes = map[flattypes.GeometryType]flattypes.GeometryType{
	flattypes.GeometryTypePoint:      flattypes.GeometryTypeMultiPoint,
	flattypes.GeometryTypeLineString: flattypes.GeometryTypeMultiLineString,
	flattypes.GeometryTypePolygon:    flattypes.GeometryTypeMultiPolygon,
}

// layerType combines two geometry types into the header type covering both.
// A single and a multi part type of one family give the multi part type.
func layerType(a, b flattypes.GeometryType) flattypes.GeometryType {
	if a == b {
		return a
	}
	if m, ok := multiTypes[a]; ok && m == b {
		return b
	}
	if m, ok := multiTypes[b]; ok && m == a {
		return a
	}
	return flattypes.GeometryTypeUnknown
}

// encodeGeometry builds the FlatGeobuf geometry table for geom, or returns
// nil when the type has no FlatGeobuf mapping here.
func encodeGeometry(geom orb.Geometry, builder *flatbuffers.Builder) *writer.Geometry {
	g := writer.NewGeometry(builder)

	switch v := geom.(type) {
	case orb.Point:
		g.SetType(flattypes.GeometryTypePoint)
		g.SetXY([]float64{v[0], v[1]})

	case orb.MultiPoint:
		g.SetType(flattypes.GeometryTypeMultiPoint)
		g.SetXY(flatten(v))

	case orb.LineString:
		g.SetType(flattypes.GeometryTypeLineString)
		g.SetXY(flatten(v))

	case orb.MultiLineString:
		g.SetType(flattypes.GeometryTypeMultiLineString)
		parts := make([][]orb.Point, len(v))
		for i, ls := range v {
			parts[i] = ls
		}
		xy, ends := flattenParts(parts)
		g.SetXY(xy)
		g.SetEnds(ends)

	case orb.Polygon:
		g.SetType(flattypes.GeometryTypePolygon)
		xy, ends := flattenPolygon(v)
		g.SetXY(xy)
		g.SetEnds(ends)

	case orb.MultiPolygon:
		g.SetType(flattypes.GeometryTypeMultiPolygon)
		parts := make([]writer.Geometry, 0, len(v))
		for _, poly := range v {
			pg := writer.NewGeometry(builder)
			pg.SetType(flattypes.GeometryTypePolygon)
			xy, ends := flattenPolygon(poly)
			pg.SetXY(xy)
			pg.SetEnds(ends)
			parts = append(parts, *pg)
		}
		g.SetParts(parts)

	default:
		return nil
	}

	return g
}

// decodeGeometry converts a FlatGeobuf geometry table to an orb.Geometry.
func decodeGeometry(g *flattypes.Geometry) orb.Geometry {
	if g == nil {
		return nil
	}

	switch g.Type() {
	case flattypes.GeometryTypePoint:
		pts := readPoints(g, 0, g.XyLength()/2)
		if len(pts) == 0 {
			return nil
		}
		return pts[0]

	case flattypes.GeometryTypeMultiPoint:
		return orb.MultiPoint(readPoints(g, 0, g.XyLength()/2))

	case flattypes.GeometryTypeLineString:
		return orb.LineString(readPoints(g, 0, g.XyLength()/2))

	case flattypes.GeometryTypeMultiLineString:
		parts := readParts(g)
		mls := make(orb.MultiLineString, len(parts))
		for i, p := range parts {
			mls[i] = orb.LineString(p)
		}
		return mls

	case flattypes.GeometryTypePolygon:
		return readPolygon(g)

	case flattypes.GeometryTypeMultiPolygon:
		n := g.PartsLength()
		if n == 0 {
			return orb.MultiPolygon{readPolygon(g)}
		}
		mp := make(orb.MultiPolygon, 0, n)
		for i := 0; i < n; i++ {
			var part flattypes.Geometry
			if g.Parts(&part, i) {
				mp = append(mp, readPolygon(&part))
			}
		}
		return mp

	default:
		return nil
	}
}

func flatten(pts []orb.Point) []float64 {
	xy := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		xy = append(xy, p[0], p[1])
	}
	return xy
}

func flattenParts(parts [][]orb.Point) ([]float64, []uint32) {
	total := 0
	for _, p := range parts {
		total += len(p)
	}

	xy := make([]float64, 0, total*2)
	ends := make([]uint32, 0, len(parts))

	cumulative := uint32(0)
	for _, p := range parts {
		xy = append(xy, flatten(p)...)
		cumulative += uint32(len(p))
		ends = append(ends, cumulative)
	}

	return xy, ends
}

func flattenPolygon(poly orb.Polygon) ([]float64, []uint32) {
	parts := make([][]orb.Point, len(poly))
	for i, r := range poly {
		parts[i] = r
	}
	return flattenParts(parts)
}

// readPoints reads vertices [start, end) of the xy array.
func readPoints(g *flattypes.Geometry, start, end int) []orb.Point {
	if end < start {
		return nil
	}
	pts := make([]orb.Point, 0, end-start)
	xyLen := g.XyLength()
	for i := start; i < end; i++ {
		idx := i * 2
		if idx+1 >= xyLen {
			break
		}
		pts = append(pts, orb.Point{g.Xy(idx), g.Xy(idx + 1)})
	}
	return pts
}

// readParts splits the xy array at the ends offsets. Without ends the whole
// array is a single part.
func readParts(g *flattypes.Geometry) [][]orb.Point {
	total := g.XyLength() / 2
	n := g.EndsLength()
	if n == 0 {
		return [][]orb.Point{readPoints(g, 0, total)}
	}

	parts := make([][]orb.Point, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		end := int(g.Ends(i))
		parts = append(parts, readPoints(g, start, end))
		start = end
	}
	return parts
}

func readPolygon(g *flattypes.Geometry) orb.Polygon {
	parts := readParts(g)
	poly := make(orb.Polygon, len(parts))
	for i, p := range parts {
		poly[i] = orb.Ring(p)
	}
	return poly
}
