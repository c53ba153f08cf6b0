package source

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

var shapeTypeNames = map[shp.ShapeType]string{
	shp.POINT:       "Point",
	shp.POINTZ:      "Point",
	shp.POINTM:      "Point",
	shp.POLYLINE:    "LineString",
	shp.POLYLINEZ:   "LineString",
	shp.POLYLINEM:   "LineString",
	shp.POLYGON:     "Polygon",
	shp.POLYGONZ:    "Polygon",
	shp.POLYGONM:    "Polygon",
	shp.MULTIPOINT:  "MultiPoint",
	shp.MULTIPOINTZ: "MultiPoint",
	shp.MULTIPOINTM: "MultiPoint",
}

// readShapefile returns one feature per shape. Line and polygon geometries
// are handed over as WKT, points as [lat, lon].
func readShapefile(path string) ([]Feature, Metadata, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, Metadata{}, errors.Wrapf(ErrInvalidFormat, "open shapefile: %v", err)
	}
	defer r.Close()

	fields := r.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}

	var features []Feature
	for r.Next() {
		n, shape := r.Shape()

		geom, err := shapeGeometry(shape)
		if err != nil {
			return nil, Metadata{}, errors.Wrapf(err, "shape %d", n)
		}

		props := make(geojson.Properties, len(names))
		for k, name := range names {
			props[name] = strings.TrimSpace(r.ReadAttribute(n, k))
		}

		if p, ok := geom.(orb.Point); ok {
			features = append(features, newFeature(p, props))
			continue
		}
		features = append(features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: geom.GeoJSONType(), Coordinates: wkt.MarshalString(geom)},
			Properties: props,
		})
	}
	if err := r.Err(); err != nil {
		return nil, Metadata{}, errors.Wrapf(ErrInvalidFormat, "read shapefile: %v", err)
	}

	box := r.BBox()
	meta := Metadata{
		EPSG:       prjEPSG(path),
		BBox:       BBox{XMin: box.MinX, XMax: box.MaxX, YMin: box.MinY, YMax: box.MaxY},
		Type:       shapeTypeNames[r.GeometryType],
		Attributes: names,
	}
	if meta.Type == "" {
		meta.Type = "Unknown"
	}

	return features, meta, nil
}

func shapeGeometry(shape shp.Shape) (orb.Geometry, error) {
	switch s := shape.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}, nil
	case *shp.PointZ:
		return orb.Point{s.X, s.Y}, nil
	case *shp.PointM:
		return orb.Point{s.X, s.Y}, nil
	case *shp.MultiPoint:
		return orb.MultiPoint(toPoints(s.Points)), nil
	case *shp.PolyLine:
		return lines(splitParts(s.Parts, s.Points)), nil
	case *shp.PolyLineZ:
		return lines(splitParts(s.Parts, s.Points)), nil
	case *shp.PolyLineM:
		return lines(splitParts(s.Parts, s.Points)), nil
	case *shp.Polygon:
		return polygons(splitParts(s.Parts, s.Points)), nil
	case *shp.PolygonZ:
		return polygons(splitParts(s.Parts, s.Points)), nil
	case *shp.PolygonM:
		return polygons(splitParts(s.Parts, s.Points)), nil
	default:
		return nil, errors.Wrapf(ErrInvalidFormat, "unsupported shape %T", shape)
	}
}

func toPoints(pts []shp.Point) []orb.Point {
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[i] = orb.Point{p.X, p.Y}
	}
	return out
}

// splitParts cuts the point array at the part start offsets.
func splitParts(parts []int32, pts []shp.Point) [][]orb.Point {
	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(pts))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start > end || int(end) > len(pts) {
			continue
		}
		out = append(out, toPoints(pts[start:end]))
	}
	return out
}

func lines(parts [][]orb.Point) orb.Geometry {
	if len(parts) == 1 {
		return orb.LineString(parts[0])
	}
	mls := make(orb.MultiLineString, len(parts))
	for i, p := range parts {
		mls[i] = orb.LineString(p)
	}
	return mls
}

// polygons groups rings into polygons. Shapefile outer rings run clockwise
// and each is followed by its holes.
func polygons(parts [][]orb.Point) orb.Geometry {
	var mp orb.MultiPolygon
	for _, p := range parts {
		ring := orb.Ring(p)
		if ring.Orientation() == orb.CW || len(mp) == 0 {
			mp = append(mp, orb.Polygon{ring})
			continue
		}
		last := len(mp) - 1
		mp[last] = append(mp[last], ring)
	}
	if len(mp) == 1 {
		return mp[0]
	}
	return mp
}

var (
	authorityPattern = regexp.MustCompile(`AUTHORITY\[\s*"EPSG"\s*,\s*"?(\d+)"?\s*\]`)
	esriNames        = []struct {
		name string
		code int
	}{
		{"Web_Mercator", 3857},
		{"World_Mercator", 3395},
	}
)

// prjEPSG reads the .prj sidecar of a shapefile. Without a sidecar the
// layer is taken to be WGS 84; an unrecognised definition yields 0.
func prjEPSG(shpPath string) int {
	prjPath := strings.TrimSuffix(shpPath, ".shp")
	prjPath = strings.TrimSuffix(prjPath, ".SHP") + ".prj"

	data, err := os.ReadFile(prjPath)
	if err != nil {
		return DefaultEPSG
	}
	return parsePRJ(string(data))
}

func parsePRJ(prj string) int {
	// The outermost AUTHORITY closes the definition, so the last one wins.
	if m := authorityPattern.FindAllStringSubmatch(prj, -1); len(m) > 0 {
		if code, err := strconv.Atoi(m[len(m)-1][1]); err == nil {
			return code
		}
	}

	if strings.HasPrefix(strings.TrimSpace(prj), "PROJCS") {
		for _, n := range esriNames {
			if strings.Contains(prj, n.name) {
				return n.code
			}
		}
		return 0
	}
	if strings.Contains(prj, "WGS_1984") || strings.Contains(prj, "WGS 84") {
		return DefaultEPSG
	}
	return 0
}
