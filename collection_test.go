package geokit

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/tingold/orb-geokit/crs"
	"github.com/tingold/orb-geokit/internal/fgb"
	"github.com/tingold/orb-geokit/source"
)

// pointFeature builds a raw point record the way the readers do: (lat, lon).
func pointFeature(lat, lon float64, props geojson.Properties) source.Feature {
	return source.Feature{
		Type:       "Feature",
		Geometry:   source.Geometry{Type: "Point", Coordinates: []float64{lat, lon}},
		Properties: props,
	}
}

func wktFeature(typ, wkt string, props geojson.Properties) source.Feature {
	return source.Feature{
		Type:       "Feature",
		Geometry:   source.Geometry{Type: typ, Coordinates: wkt},
		Properties: props,
	}
}

func points(t *testing.T, features ...source.Feature) *Collection {
	t.Helper()
	c := NewPointCollection()
	if err := c.Parse(features); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return c
}

func names(objs []Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		n, _ := o.core().name()
		out[i] = n
	}
	return out
}

func TestParse_PointAxisOrder(t *testing.T) {
	c := points(t, pointFeature(43.0, -73.0, geojson.Properties{"name": "GC1"}))

	g := c.Items()[0].(*Geocache)
	if g.Point() != (orb.Point{-73.0, 43.0}) {
		t.Fatalf("expected x=lon y=lat point {-73 43}, got %v", g.Point())
	}
	x, y := g.Coordinates()
	if x != -73.0 || y != 43.0 {
		t.Errorf("expected coordinates (-73, 43), got (%v, %v)", x, y)
	}
	if g.String() != "-73 43 - GC1" {
		t.Errorf("unexpected string %q", g.String())
	}
}

func TestParse_CoordinateForms(t *testing.T) {
	c := NewPointCollection()
	err := c.Parse([]source.Feature{
		{Geometry: source.Geometry{Coordinates: []interface{}{10.5, 20.25}}},
		{Geometry: source.Geometry{Coordinates: []interface{}{"1.5", "2.5"}}},
		{Geometry: source.Geometry{Coordinates: [2]float64{-1, -2}}},
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := []orb.Point{{20.25, 10.5}, {2.5, 1.5}, {-2, -1}}
	for i, item := range c.Items() {
		if item.Geometry() != expected[i] {
			t.Errorf("item %d: expected %v, got %v", i, expected[i], item.Geometry())
		}
	}
}

func TestParse_WKT(t *testing.T) {
	lines := NewLineStringCollection()
	err := lines.Parse([]source.Feature{
		wktFeature("LineString", "LINESTRING(0 0,1 1,2 0)", geojson.Properties{"name": "A"}),
		wktFeature("MultiLineString", "MULTILINESTRING((0 0,1 1),(2 2,3 3))", geojson.Properties{"name": "B"}),
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if lines.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", lines.Len())
	}
	if _, ok := lines.Items()[1].Geometry().(orb.MultiLineString); !ok {
		t.Errorf("expected MultiLineString, got %T", lines.Items()[1].Geometry())
	}

	borders := NewBoundaryCollection()
	err = borders.Parse([]source.Feature{
		wktFeature("Polygon", "POLYGON((0 0,10 0,10 10,0 10,0 0))", geojson.Properties{"name": "Square"}),
		{Geometry: source.Geometry{Type: "MultiPolygon", Coordinates: orb.MultiPolygon{square(20, 30)}}},
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := borders.Items()[0].(*Boundary); !ok {
		t.Errorf("expected *Boundary, got %T", borders.Items()[0])
	}
}

func TestParse_AbortsOnMalformed(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		features []source.Feature
	}{
		{
			"short pair",
			KindPoint,
			[]source.Feature{pointFeature(1, 2, nil), {Geometry: source.Geometry{Coordinates: []float64{1}}}},
		},
		{
			"bad wkt",
			KindLineString,
			[]source.Feature{wktFeature("LineString", "LINESTRING(0 0,1 1)", nil), wktFeature("LineString", "LINESTRING(0 0,", nil)},
		},
		{
			"wrong geometry",
			KindBoundary,
			[]source.Feature{wktFeature("Polygon", "POLYGON((0 0,1 0,1 1,0 0))", nil), wktFeature("LineString", "LINESTRING(0 0,1 1)", nil)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollection(tt.kind)
			err := c.Parse(tt.features)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) || parseErr.Index != 1 {
				t.Errorf("expected failure at index 1, got %v", err)
			}
			if c.Len() != 0 {
				t.Errorf("expected nothing appended, got %d items", c.Len())
			}
		})
	}
}

func TestMerge(t *testing.T) {
	a := points(t, pointFeature(1, 1, geojson.Properties{"name": "a1"}), pointFeature(2, 2, geojson.Properties{"name": "a2"}))
	b := points(t, pointFeature(3, 3, geojson.Properties{"name": "b1"}))

	merged, err := a.Merge(b)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	got := merged.Items()
	expected := append(a.Items(), b.Items()...)
	if len(got) != len(expected) {
		t.Fatalf("expected %d items, got %d", len(expected), len(got))
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("item %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
	if a.Len() != 2 || b.Len() != 1 {
		t.Error("merge modified its inputs")
	}
}

func TestMerge_VariantMismatch(t *testing.T) {
	a := NewPointCollection()
	b := NewBoundaryCollection()

	_, err := a.Merge(b)
	if !errors.Is(err, ErrVariantMismatch) {
		t.Fatalf("expected ErrVariantMismatch, got %v", err)
	}
	var mismatch *VariantMismatchError
	if !errors.As(err, &mismatch) || mismatch.Left != KindPoint || mismatch.Right != KindBoundary {
		t.Errorf("expected Point/Boundary pair in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "PointCollection") || !strings.Contains(err.Error(), "BoundaryCollection") {
		t.Errorf("expected variant names in %q", err.Error())
	}
}

func TestMerge_CRSMismatch(t *testing.T) {
	a := NewPointCollection()
	b := NewPointCollection(WithEPSG(crs.WorldMercator))

	if _, err := a.Merge(b); !errors.Is(err, ErrCRSMismatch) {
		t.Fatalf("expected ErrCRSMismatch, got %v", err)
	}
}

func TestGetByName(t *testing.T) {
	c := points(t,
		pointFeature(0, 0, geojson.Properties{"id": "no name"}),
		pointFeature(1, 1, geojson.Properties{"Name": "dup"}),
		pointFeature(2, 2, geojson.Properties{"name": "dup"}),
	)

	obj, err := c.GetByName("dup")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if obj != c.Items()[1] {
		t.Errorf("expected the first match, got %v", obj)
	}

	_, err = c.GetByName("nowhere")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Name != "nowhere" {
		t.Errorf("expected name in error, got %v", err)
	}
}

func TestFilterByAttribute(t *testing.T) {
	c := points(t,
		pointFeature(0, 0, geojson.Properties{"name": "a", "Status": "Available"}),
		pointFeature(1, 1, geojson.Properties{"name": "b", "Status": "available"}),
		pointFeature(2, 2, geojson.Properties{"name": "c", "Status": "Available"}),
	)
	before := c.Items()

	filtered, err := c.FilterByAttribute("status", "Available")
	if err != nil {
		t.Fatalf("FilterByAttribute failed: %v", err)
	}
	if got := names(filtered.Items()); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("expected [a c], got %v", got)
	}
	if filtered.Kind() != KindPoint || filtered.EPSG() != c.EPSG() {
		t.Errorf("filtered collection should keep kind and EPSG, got %s/%d", filtered.Kind(), filtered.EPSG())
	}

	after := c.Items()
	if len(after) != len(before) {
		t.Fatalf("source collection changed length: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("source item %d changed", i)
		}
	}
}

func TestFilterByAttribute_NoMatch(t *testing.T) {
	c := points(t, pointFeature(0, 0, geojson.Properties{"x": "z"}))

	filtered, err := c.FilterByAttribute("x", "y")
	if err != nil {
		t.Fatalf("FilterByAttribute failed: %v", err)
	}
	if filtered.Len() != 0 || c.Len() != 1 {
		t.Errorf("expected empty result and untouched source, got %d and %d", filtered.Len(), c.Len())
	}
}

func TestFilterByAttribute_Missing(t *testing.T) {
	c := points(t, pointFeature(0, 0, geojson.Properties{"name": "a"}))

	if _, err := c.FilterByAttribute("owner", "me"); !errors.Is(err, ErrAttributeNotFound) {
		t.Fatalf("expected ErrAttributeNotFound, got %v", err)
	}
}

func TestFilterByBoundary(t *testing.T) {
	b, _ := NewBoundary(square(0, 10), geojson.Properties{"name": "Square"}, crs.WGS84)
	c := points(t,
		pointFeature(5, 5, geojson.Properties{"name": "inside"}),
		pointFeature(15, 15, geojson.Properties{"name": "outside"}),
	)

	got, err := c.FilterByBoundary(b)
	if err != nil {
		t.Fatalf("FilterByBoundary failed: %v", err)
	}
	if len(got) != 1 || got[0] != c.Items()[0] {
		t.Fatalf("expected only the first point, got %v", names(got))
	}
}

func TestFilterByBoundary_Order(t *testing.T) {
	b, _ := NewBoundary(square(0, 10), nil, crs.WGS84)

	var features []source.Feature
	var expected []string
	for i := 0; i < 60; i++ {
		v := float64(i%12) - 1
		name := string(rune('A'+i%26)) + string(rune('a'+i/26))
		features = append(features, pointFeature(v, 9-v, geojson.Properties{"name": name}))
		if v > 0 && v < 10 && 9-v > 0 && 9-v < 10 {
			expected = append(expected, name)
		}
	}
	c := points(t, features...)

	got, err := c.FilterByBoundary(b)
	if err != nil {
		t.Fatalf("FilterByBoundary failed: %v", err)
	}
	gotNames := names(got)
	if len(gotNames) != len(expected) {
		t.Fatalf("expected %d matches, got %d", len(expected), len(gotNames))
	}
	for i := range expected {
		if gotNames[i] != expected[i] {
			t.Fatalf("expected insertion order %v, got %v", expected, gotNames)
		}
	}
}

func TestFilterByBoundary_Lines(t *testing.T) {
	b, _ := NewBoundary(square(0, 10), nil, crs.WGS84)
	c := NewLineStringCollection()
	err := c.Parse([]source.Feature{
		wktFeature("LineString", "LINESTRING(1 1,9 9)", geojson.Properties{"name": "inside"}),
		wktFeature("LineString", "LINESTRING(5 5,15 5)", geojson.Properties{"name": "crossing"}),
		wktFeature("LineString", "LINESTRING(0 0,10 0)", geojson.Properties{"name": "on edge"}),
		wktFeature("LineString", "LINESTRING(0 5,5 5)", geojson.Properties{"name": "touching"}),
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	got, err := c.FilterByBoundary(b)
	if err != nil {
		t.Fatalf("FilterByBoundary failed: %v", err)
	}
	if n := names(got); len(n) != 2 || n[0] != "inside" || n[1] != "touching" {
		t.Errorf("expected [inside touching], got %v", n)
	}
}

func TestFilterByBoundary_Hole(t *testing.T) {
	park := orb.Polygon{
		{{0, 0}, {30, 0}, {30, 10}, {0, 10}, {0, 0}},
		{{4, 5}, {5, 4}, {6, 5}, {5, 6}, {4, 5}},
	}
	b, _ := NewBoundary(park, nil, crs.WGS84)

	tests := []struct {
		name   string
		wkt    string
		within bool
	}{
		{"through hole vertices", "LINESTRING(1 5,29 5)", false},
		{"grazing hole vertex", "LINESTRING(1 6,29 6)", true},
		{"ending on hole vertex", "LINESTRING(1 5,4 5)", true},
		{"along hole edge", "LINESTRING(4 5,5 4)", false},
		{"beside hole", "LINESTRING(1 1,29 1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLineStringCollection()
			if err := c.Parse([]source.Feature{wktFeature("LineString", tt.wkt, nil)}); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			got, err := c.FilterByBoundary(b)
			if err != nil {
				t.Fatalf("FilterByBoundary failed: %v", err)
			}
			if (len(got) == 1) != tt.within {
				t.Errorf("expected within=%v, got %d matches", tt.within, len(got))
			}
		})
	}

	if b.Contains(orb.Point{5, 5}) {
		t.Error("expected hole centre outside the boundary")
	}
}

func TestFilterByBoundary_CRSMismatch(t *testing.T) {
	b, _ := NewBoundary(square(0, 1000), nil, crs.WorldMercator)
	c := points(t, pointFeature(0, 0, nil))

	if _, err := c.FilterByBoundary(b); !errors.Is(err, ErrCRSMismatch) {
		t.Fatalf("expected ErrCRSMismatch, got %v", err)
	}

	projected, err := c.Reproject(crs.WorldMercator)
	if err != nil {
		t.Fatalf("Reproject failed: %v", err)
	}
	got, err := projected.FilterByBoundary(b)
	if err != nil {
		t.Fatalf("FilterByBoundary failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("origin lies on the boundary edge, got %d matches", len(got))
	}
}

func TestReproject_Collection(t *testing.T) {
	c := points(t, pointFeature(0, 1, geojson.Properties{"name": "east"}))

	projected, err := c.Reproject(crs.WorldMercator)
	if err != nil {
		t.Fatalf("Reproject failed: %v", err)
	}
	if projected.EPSG() != crs.WorldMercator || c.EPSG() != crs.WGS84 {
		t.Errorf("unexpected EPSG codes %d and %d", projected.EPSG(), c.EPSG())
	}
	p := projected.Items()[0].Geometry().(orb.Point)
	if p[0] < 111319.49 || p[0] > 111319.50 || p[1] < -1e-6 || p[1] > 1e-6 {
		t.Errorf("unexpected projected point %v", p)
	}
	if v, _ := projected.Items()[0].Attribute("name"); v != "east" {
		t.Errorf("attributes lost, got %v", v)
	}

	if _, err := c.Reproject(2154); !errors.Is(err, crs.ErrUnknownCRS) {
		t.Errorf("expected ErrUnknownCRS, got %v", err)
	}
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPointCollection().Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, buf.Bytes()); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if compact.String() != `{"type":"FeatureCollection","features":[]}` {
		t.Errorf("unexpected export %s", compact.String())
	}
	if !strings.Contains(buf.String(), "\n  \"features\"") {
		t.Errorf("expected two space indentation, got %q", buf.String())
	}
}

func TestExport_Features(t *testing.T) {
	c := points(t, pointFeature(43.25, -73.5, geojson.Properties{"name": "GC1"}))

	var buf bytes.Buffer
	if err := c.Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	if err != nil {
		t.Fatalf("exported document is not GeoJSON: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	if fc.Features[0].Geometry != (orb.Point{-73.5, 43.25}) {
		t.Errorf("expected [lon, lat] geometry, got %v", fc.Features[0].Geometry)
	}
	if fc.Features[0].Properties["name"] != "GC1" {
		t.Errorf("unexpected properties %v", fc.Features[0].Properties)
	}
}

func TestExportFile_Import(t *testing.T) {
	var logs bytes.Buffer
	log := zerolog.New(&logs)

	c := NewPointCollection(WithLogger(log))
	if err := c.Parse([]source.Feature{
		pointFeature(43.25, -73.5, geojson.Properties{"name": "GC1", "status": "Available"}),
		pointFeature(-33.5, 151.25, geojson.Properties{"name": "GC2", "status": "Unavailable"}),
	}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "caches.geojson")
	if err := c.ExportFile(path); err != nil {
		t.Fatalf("ExportFile failed: %v", err)
	}
	if !strings.Contains(logs.String(), "File exported") {
		t.Errorf("expected export log entry, got %q", logs.String())
	}

	imported := NewPointCollection(WithLogger(log))
	if err := imported.Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported.Len() != c.Len() {
		t.Fatalf("expected %d items, got %d", c.Len(), imported.Len())
	}
	for _, orig := range c.Items() {
		name, _ := orig.Attribute("name")
		back, err := imported.GetByName(name.(string))
		if err != nil {
			t.Fatalf("GetByName(%v) failed: %v", name, err)
		}
		for k, v := range orig.Attributes() {
			if got, _ := back.AttributeCaseSensitive(k); got != v {
				t.Errorf("%v: attribute %s expected %v, got %v", name, k, v, got)
			}
		}
		if !orb.Equal(back.Geometry(), orig.Geometry()) {
			t.Errorf("%v: geometry %v became %v", name, orig.Geometry(), back.Geometry())
		}
	}
}

func TestExportFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.geojson")
	if err := NewPointCollection().ExportFile(path); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestImport_GPX(t *testing.T) {
	doc := `<gpx>
  <wpt lat="43.12" lon="-73.45"><name>GC1</name><geocache status="Available"><name>Old Mill</name></geocache></wpt>
  <wpt lat="10" lon="20"><name>PARKING</name></wpt>
</gpx>`
	path := filepath.Join(t.TempDir(), "caches.gpx")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	c := NewPointCollection()
	if err := c.Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected the plain waypoint to be skipped, got %d items", c.Len())
	}
	if c.Items()[0].Geometry() != (orb.Point{-73.45, 43.12}) {
		t.Errorf("expected {-73.45 43.12}, got %v", c.Items()[0].Geometry())
	}
	if c.EPSG() != crs.WGS84 {
		t.Errorf("expected EPSG 4326, got %d", c.EPSG())
	}
}

func TestImport_Errors(t *testing.T) {
	dir := t.TempDir()

	err := NewPointCollection().Import(filepath.Join(dir, "missing.gpx"))
	if !errors.Is(err, source.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}

	var buf bytes.Buffer
	projected := NewBoundaryCollection(WithEPSG(crs.WorldMercator))
	b, _ := NewBoundary(square(0, 1000), geojson.Properties{"name": "Block"}, crs.WorldMercator)
	projected.items = append(projected.items, b)
	if err := projected.ExportFlatGeobuf(&buf, "blocks"); err != nil {
		t.Fatalf("ExportFlatGeobuf failed: %v", err)
	}
	path := filepath.Join(dir, "blocks.fgb")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	geographic := NewBoundaryCollection()
	geographic.items = append(geographic.items, b)
	if err := geographic.Import(path); !errors.Is(err, ErrCRSMismatch) {
		t.Errorf("expected ErrCRSMismatch, got %v", err)
	}

	fresh := NewBoundaryCollection()
	if err := fresh.Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if fresh.EPSG() != crs.WorldMercator || fresh.Len() != 1 {
		t.Errorf("expected one boundary in EPSG 3395, got %d in %d", fresh.Len(), fresh.EPSG())
	}
}

func TestExportFlatGeobuf(t *testing.T) {
	c := points(t,
		pointFeature(43.25, -73.5, geojson.Properties{"name": "GC1"}),
		pointFeature(48.75, 2.5, geojson.Properties{"name": "GC2"}),
	)

	var buf bytes.Buffer
	if err := c.ExportFlatGeobuf(&buf, "caches"); err != nil {
		t.Fatalf("ExportFlatGeobuf failed: %v", err)
	}

	r, err := fgb.NewReader(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	h := r.Header()
	if h.Name != "caches" || h.CRS == nil || h.CRS.Code != crs.WGS84 {
		t.Errorf("unexpected header %+v", h)
	}
	features, err := r.Features()
	if err != nil {
		t.Fatalf("Features failed: %v", err)
	}
	if len(features) != 2 {
		t.Errorf("expected 2 features, got %d", len(features))
	}

	if err := NewPointCollection().ExportFlatGeobuf(&buf, "empty"); !errors.Is(err, ErrEmptyCollection) {
		t.Errorf("expected ErrEmptyCollection, got %v", err)
	}
}

func TestNearest(t *testing.T) {
	c := points(t,
		pointFeature(0, 0, geojson.Properties{"name": "origin"}),
		pointFeature(10, 10, geojson.Properties{"name": "ten"}),
		pointFeature(2, -5, geojson.Properties{"name": "west"}),
	)

	obj, dist, err := c.Nearest(orb.Point{9, 9})
	if err != nil {
		t.Fatalf("Nearest failed: %v", err)
	}
	if n, _ := obj.Attribute("name"); n != "ten" {
		t.Errorf("expected ten, got %v", n)
	}
	if dist <= 0 || dist > 200000 {
		t.Errorf("unexpected distance %v", dist)
	}

	obj, dist, err = c.Nearest(orb.Point{0, 0})
	if err != nil {
		t.Fatalf("Nearest failed: %v", err)
	}
	if n, _ := obj.Attribute("name"); n != "origin" || dist != 0 {
		t.Errorf("expected origin at 0 m, got %v at %v", n, dist)
	}
}

func TestNearest_Errors(t *testing.T) {
	if _, _, err := NewPointCollection().Nearest(orb.Point{0, 0}); !errors.Is(err, ErrEmptyCollection) {
		t.Errorf("expected ErrEmptyCollection, got %v", err)
	}
	if _, _, err := NewBoundaryCollection().Nearest(orb.Point{0, 0}); !errors.Is(err, ErrVariantMismatch) {
		t.Errorf("expected ErrVariantMismatch, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	var logs bytes.Buffer
	c := NewPointCollection(WithLogger(zerolog.New(&logs)))
	if err := c.Parse([]source.Feature{pointFeature(1, 2, nil), pointFeature(3, 4, nil)}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	s := c.Describe()
	if s.EPSG != crs.WGS84 || s.Features != 2 || s.Kind != KindPoint {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Bound.Min != (orb.Point{2, 1}) || s.Bound.Max != (orb.Point{4, 3}) {
		t.Errorf("unexpected bound %v", s.Bound)
	}
	if !strings.Contains(logs.String(), `"epsg":4326`) || !strings.Contains(logs.String(), `"features":2`) {
		t.Errorf("expected summary log, got %q", logs.String())
	}
}

func TestOpen_MixedParts(t *testing.T) {
	roads := NewLineStringCollection()
	err := roads.Parse([]source.Feature{
		wktFeature("LineString", "LINESTRING(0 0,1 1)", geojson.Properties{"name": "Main Street", "surface": "asphalt"}),
		wktFeature("MultiLineString", "MULTILINESTRING((2 2,3 3),(4 4,5 5))", geojson.Properties{"name": "Ring Road", "surface": nil}),
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	dir := t.TempDir()
	geojsonPath := filepath.Join(dir, "roads.geojson")
	if err := roads.ExportFile(geojsonPath); err != nil {
		t.Fatalf("ExportFile failed: %v", err)
	}

	fgbPath := filepath.Join(dir, "roads.fgb")
	var buf bytes.Buffer
	if err := roads.ExportFlatGeobuf(&buf, "roads"); err != nil {
		t.Fatalf("ExportFlatGeobuf failed: %v", err)
	}
	if err := os.WriteFile(fgbPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	for _, path := range []string{geojsonPath, fgbPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			c, err := Open(path)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if c.Kind() != KindLineString || c.Len() != 2 {
				t.Fatalf("expected 2 items in a LineStringCollection, got %d in %s", c.Len(), c.Kind())
			}

			paved, err := c.FilterByAttribute("surface", "asphalt")
			if err != nil {
				t.Fatalf("FilterByAttribute failed: %v", err)
			}
			if n := names(paved.Items()); len(n) != 1 || n[0] != "Main Street" {
				t.Errorf("expected [Main Street], got %v", n)
			}
		})
	}
}

func TestKindForType(t *testing.T) {
	tests := []struct {
		in       string
		expected Kind
	}{
		{"Point", KindPoint},
		{"LineString", KindLineString},
		{"MultiLineString", KindLineString},
		{"Polygon", KindBoundary},
		{"MultiPolygon", KindBoundary},
	}
	for _, tt := range tests {
		got, err := KindForType(tt.in)
		if err != nil || got != tt.expected {
			t.Errorf("KindForType(%q): expected %s, got %s (%v)", tt.in, tt.expected, got, err)
		}
	}

	if _, err := KindForType("MultiPoint"); !errors.Is(err, ErrUnsupportedLayer) {
		t.Errorf("expected ErrUnsupportedLayer, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]},"properties":{"name":"Square"}}
	]}`
	path := filepath.Join(t.TempDir(), "squares.geojson")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if c.Kind() != KindBoundary || c.Len() != 1 || c.EPSG() != crs.WGS84 {
		t.Fatalf("unexpected collection %s with %d items in %d", c.Kind(), c.Len(), c.EPSG())
	}

	b, err := c.GetByName("Square")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	caches := points(t,
		pointFeature(5, 5, geojson.Properties{"name": "in"}),
		pointFeature(-5, 5, geojson.Properties{"name": "out"}),
	)
	within, err := caches.WithinBoundary(b.(*Boundary))
	if err != nil {
		t.Fatalf("WithinBoundary failed: %v", err)
	}
	if n := names(within.Items()); len(n) != 1 || n[0] != "in" {
		t.Errorf("expected [in], got %v", n)
	}
	if within.Kind() != KindPoint {
		t.Errorf("expected a point collection, got %s", within.Kind())
	}
}
