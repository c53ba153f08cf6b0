package geokit

import (
	"encoding/json"
	"io"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"github.com/tingold/orb-geokit/internal/fgb"
)

// featureCollection fixes the member order of the exported document.
type featureCollection struct {
	Type     string             `json:"type"`
	Features []*geojson.Feature `json:"features"`
}

// FeatureCollection returns the items as a GeoJSON feature collection.
func (c *Collection) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, item := range c.items {
		fc.Append(item.FeatureRecord())
	}
	return fc
}

// Export writes the collection to w as an indented GeoJSON
// FeatureCollection.
func (c *Collection) Export(w io.Writer) error {
	doc := featureCollection{
		Type:     "FeatureCollection",
		Features: make([]*geojson.Feature, 0, len(c.items)),
	}
	for _, item := range c.items {
		doc.Features = append(doc.Features, item.FeatureRecord())
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode feature collection")
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "write feature collection")
	}
	return nil
}

// ExportFile writes the collection to a GeoJSON file at path. The file is
// closed on every return path.
func (c *Collection) ExportFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	if err = c.Export(f); err != nil {
		return err
	}

	c.log.Info().Str("path", path).Int("features", len(c.items)).Msg("File exported")
	return nil
}

// ExportFlatGeobuf writes the collection to w as an indexed FlatGeobuf
// layer called name, tagged with the collection's EPSG code.
func (c *Collection) ExportFlatGeobuf(w io.Writer, name string) error {
	if len(c.items) == 0 {
		return ErrEmptyCollection
	}

	features := make([]*geojson.Feature, len(c.items))
	for i, item := range c.items {
		features[i] = item.FeatureRecord()
	}

	opts := &fgb.Options{Name: name, CRS: &fgb.CRS{Code: c.epsg}}
	if err := fgb.WriteFeatures(w, features, opts); err != nil {
		return errors.Wrap(err, "write flatgeobuf")
	}
	return nil
}
