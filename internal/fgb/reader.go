package fgb

import (
	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb/geojson"
)

// Reader provides read access to a FlatGeobuf file.
type Reader struct {
	fgb *flatgeobuf.FlatGeoBuf
}

// Open creates a reader from a file path.
func Open(path string) (*Reader, error) {
	f, err := flatgeobuf.New(path)
	if err != nil {
		return nil, err
	}
	return &Reader{fgb: f}, nil
}

// NewReader creates a reader from byte data.
func NewReader(data []byte) (*Reader, error) {
	f, err := flatgeobuf.NewWithData(data)
	if err != nil {
		return nil, err
	}
	return &Reader{fgb: f}, nil
}

// Header returns metadata about the file.
func (r *Reader) Header() *Header {
	h := r.fgb.Header()
	if h == nil {
		return nil
	}

	header := &Header{
		Name:          string(h.Name()),
		GeometryType:  flattypes.EnumNamesGeometryType[h.GeometryType()],
		FeaturesCount: h.FeaturesCount(),
		HasIndex:      h.IndexNodeSize() > 0,
	}

	if h.EnvelopeLength() >= 4 {
		header.Envelope = [4]float64{h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3)}
	}

	var crs flattypes.Crs
	if h.Crs(&crs) != nil {
		header.CRS = &CRS{
			Code: int(crs.Code()),
			Name: string(crs.Name()),
		}
	}

	n := h.ColumnsLength()
	header.Columns = make([]string, 0, n)
	for i := 0; i < n; i++ {
		var col flattypes.Column
		if h.Columns(&col, i) {
			header.Columns = append(header.Columns, string(col.Name()))
		}
	}

	return header
}

// Features reads every feature in the file. The official reader can only
// enumerate features through the spatial index, so files written without
// one fail with ErrNoIndex.
func (r *Reader) Features() ([]*geojson.Feature, error) {
	h := r.fgb.Header()
	if h.FeaturesCount() == 0 {
		return nil, nil
	}
	if h.IndexNodeSize() == 0 || h.EnvelopeLength() < 4 {
		return nil, ErrNoIndex
	}

	found, err := r.fgb.Search(h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3))
	if err != nil {
		return nil, err
	}

	features := make([]*geojson.Feature, 0, len(found))
	for _, ff := range found {
		f, err := decodeFeature(ff, h)
		if err != nil {
			return nil, err
		}
		if f != nil {
			features = append(features, f)
		}
	}
	return features, nil
}

// Close releases the reader. The underlying FlatGeoBuf has no Close method;
// dropping the reference lets the mapping be collected.
func (r *Reader) Close() error {
	r.fgb = nil
	return nil
}

func decodeFeature(ff *flattypes.Feature, h *flattypes.Header) (*geojson.Feature, error) {
	if ff == nil {
		return nil, nil
	}

	var geomObj flattypes.Geometry
	geom := decodeGeometry(ff.Geometry(&geomObj))
	if geom == nil {
		return nil, nil
	}

	f := geojson.NewFeature(geom)

	if n := ff.PropertiesLength(); n > 0 && h.ColumnsLength() > 0 {
		data := make([]byte, n)
		for i := 0; i < n; i++ {
			data[i] = byte(ff.Properties(i))
		}
		props, err := decodeProperties(data, h)
		if err != nil {
			return nil, err
		}
		f.Properties = props
	}

	return f, nil
}
