package fgb

import (
	"io"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb/geojson"
)

// WriteFeatures writes features to w as an indexed FlatGeobuf file.
// Features without a supported geometry are skipped.
func WriteFeatures(w io.Writer, features []*geojson.Feature, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}

	kept := make([]*geojson.Feature, 0, len(features))
	for _, f := range features {
		if f != nil && f.Geometry != nil && geometryType(f.Geometry) != flattypes.GeometryTypeUnknown {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return ErrEmpty
	}

	geomType := geometryType(kept[0].Geometry)
	for _, f := range kept[1:] {
		geomType = layerType(geomType, geometryType(f.Geometry))
	}

	builder := flatbuffers.NewBuilder(4096)
	header := writer.NewHeader(builder)
	header.SetGeometryType(geomType)
	if opts.Name != "" {
		header.SetName(opts.Name)
	}

	names := columnNames(kept)
	columnIndex := make(map[string]int, len(names))
	for i, name := range names {
		columnIndex[name] = i
	}
	if len(names) > 0 {
		header.SetColumns(buildColumns(names, builder))
	}

	if opts.CRS != nil {
		crs := writer.NewCrs(builder)
		crs.SetOrg("EPSG")
		if opts.CRS.Code > 0 {
			crs.SetCode(int32(opts.CRS.Code))
		}
		if opts.CRS.Name != "" {
			crs.SetName(opts.CRS.Name)
		}
		header.SetCrs(crs)
	}

	gen := &featureGenerator{features: kept, columnIndex: columnIndex}
	_, err := writer.NewWriter(header, true, gen, nil).Write(w)
	return err
}

// featureGenerator feeds features to the FlatGeobuf writer one at a time.
type featureGenerator struct {
	features    []*geojson.Feature
	columnIndex map[string]int
	index       int
}

func (g *featureGenerator) Generate() *writer.Feature {
	for g.index < len(g.features) {
		f := g.features[g.index]
		g.index++

		builder := flatbuffers.NewBuilder(1024)
		geom := encodeGeometry(f.Geometry, builder)
		if geom == nil {
			continue
		}

		feature := writer.NewFeature(builder)
		feature.SetGeometry(geom)
		if props := encodeProperties(f.Properties, g.columnIndex); len(props) > 0 {
			feature.SetProperties(props)
		}
		return feature
	}
	return nil
}
