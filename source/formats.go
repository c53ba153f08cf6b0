package source

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"github.com/tingold/orb-geokit/internal/fgb"
)

// readFlatGeobuf reads an indexed FlatGeobuf file. Features come back in
// spatial index order, not in the order they were written.
func readFlatGeobuf(path string) ([]Feature, Metadata, error) {
	r, err := fgb.Open(path)
	if err != nil {
		return nil, Metadata{}, errors.Wrapf(ErrInvalidFormat, "open flatgeobuf: %v", err)
	}
	defer func() { _ = r.Close() }()

	header := r.Header()
	if header == nil {
		return nil, Metadata{}, errors.Wrap(ErrInvalidFormat, "flatgeobuf without header")
	}

	found, err := r.Features()
	if err != nil {
		return nil, Metadata{}, errors.Wrapf(ErrInvalidFormat, "read flatgeobuf: %v", err)
	}

	features := make([]Feature, 0, len(found))
	for _, f := range found {
		features = append(features, newFeature(f.Geometry, f.Properties))
	}

	meta := Metadata{
		EPSG: DefaultEPSG,
		BBox: BBox{
			XMin: header.Envelope[0],
			YMin: header.Envelope[1],
			XMax: header.Envelope[2],
			YMax: header.Envelope[3],
		},
		Type:       header.GeometryType,
		Attributes: header.Columns,
	}
	if header.CRS != nil && header.CRS.Code > 0 {
		meta.EPSG = header.CRS.Code
	}
	if meta.Type == "" || meta.Type == "Unknown" {
		meta.Type = featuresType(features)
	}

	return features, meta, nil
}

// readGeoJSON reads a FeatureCollection. GeoJSON coordinates are always
// WGS 84 longitude/latitude.
func readGeoJSON(path string) ([]Feature, Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Metadata{}, errors.Wrap(err, "read geojson")
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, Metadata{}, errors.Wrapf(ErrInvalidFormat, "decode geojson: %v", err)
	}

	features := make([]Feature, 0, len(fc.Features))
	geoms := make([]orb.Geometry, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, Metadata{}, errors.Wrapf(ErrInvalidFormat, "feature %d has no geometry", i)
		}
		features = append(features, newFeature(f.Geometry, f.Properties))
		geoms = append(geoms, f.Geometry)
	}

	meta := Metadata{
		EPSG:       DefaultEPSG,
		Type:       featuresType(features),
		Attributes: attributeNames(features),
	}
	if len(geoms) > 0 {
		meta.BBox = boundsOf(geoms)
	}

	return features, meta, nil
}
