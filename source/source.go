// Package source opens vector files and turns them into a list of raw
// features plus metadata describing the layer.
//
// Supported inputs are GPX geocache files, ESRI shapefiles, FlatGeobuf and
// GeoJSON. Point features carry their coordinate pair in the order
// (latitude, longitude); line and polygon features carry either a WKT string
// or a decoded orb geometry.
package source

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// Common errors returned by this package.
var (
	ErrFileNotFound  = stderrors.New("source: file not found")
	ErrInvalidFormat = stderrors.New("source: invalid file format")
)

// DefaultEPSG is assumed when a file does not declare its reference system.
const DefaultEPSG = 4326

// IngestionError reports a file that could not be opened or parsed.
type IngestionError struct {
	Path string
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("error opening the file %s: %v", e.Path, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Geometry is the raw geometry of a feature. Coordinates holds a [lat, lon]
// pair for points, a WKT string, or an orb.Geometry.
type Geometry struct {
	Type        string
	Coordinates interface{}
}

// Feature is one input record.
type Feature struct {
	Type       string
	Geometry   Geometry
	Properties geojson.Properties
}

// BBox is the layer extent in its native reference system.
type BBox struct {
	XMin, XMax, YMin, YMax float64
}

// Metadata describes the layer a feature list came from.
type Metadata struct {
	EPSG       int
	BBox       BBox
	Type       string
	Attributes []string
}

// Open reads the file at path. The reader is chosen by file extension.
func Open(path string) ([]Feature, Metadata, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, Metadata{}, &IngestionError{Path: path, Err: ErrFileNotFound}
	}

	var (
		features []Feature
		meta     Metadata
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		features, meta, err = readGPX(path)
	case ".shp":
		features, meta, err = readShapefile(path)
	case ".fgb":
		features, meta, err = readFlatGeobuf(path)
	case ".geojson", ".json":
		features, meta, err = readGeoJSON(path)
	default:
		err = errors.Wrapf(ErrInvalidFormat, "unsupported extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, Metadata{}, &IngestionError{Path: path, Err: err}
	}
	return features, meta, nil
}

// newFeature builds a Feature from a decoded geometry. Points are stored
// as [lat, lon] like every other reader produces them.
func newFeature(g orb.Geometry, props geojson.Properties) Feature {
	if props == nil {
		props = geojson.Properties{}
	}
	if p, ok := g.(orb.Point); ok {
		return Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "Point", Coordinates: []float64{p.Lat(), p.Lon()}},
			Properties: props,
		}
	}
	return Feature{
		Type:       "Feature",
		Geometry:   Geometry{Type: g.GeoJSONType(), Coordinates: g},
		Properties: props,
	}
}

// layerType folds the type of one more geometry into the layer type seen so
// far. Single and multi part geometries of one family give the multi part
// type; anything else mixed gives "Unknown".
func layerType(layer, geomType string) string {
	switch {
	case layer == "", layer == geomType:
		return geomType
	case strings.TrimPrefix(layer, "Multi") == strings.TrimPrefix(geomType, "Multi"):
		return "Multi" + strings.TrimPrefix(layer, "Multi")
	default:
		return "Unknown"
	}
}

// featuresType derives the layer type from the features themselves.
func featuresType(features []Feature) string {
	t := ""
	for _, f := range features {
		t = layerType(t, f.Geometry.Type)
	}
	if t == "" {
		return "Unknown"
	}
	return t
}

// boundsOf computes the extent of all geometries.
func boundsOf(geoms []orb.Geometry) BBox {
	var b orb.Bound
	for i, g := range geoms {
		if i == 0 {
			b = g.Bound()
			continue
		}
		b = b.Union(g.Bound())
	}
	return BBox{XMin: b.Min.X(), XMax: b.Max.X(), YMin: b.Min.Y(), YMax: b.Max.Y()}
}

// attributeNames returns the sorted set of property names.
func attributeNames(features []Feature) []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range features {
		for name := range f.Properties {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
