package geokit

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/tingold/orb-geokit/crs"
	"github.com/tingold/orb-geokit/units"
)

func square(min, max float64) orb.Polygon {
	return orb.Polygon{{{min, min}, {max, min}, {max, max}, {min, max}, {min, min}}}
}

func TestAttribute_CaseInsensitive(t *testing.T) {
	b, err := NewBoundary(square(0, 10), geojson.Properties{"Name": "Brazil"}, crs.WGS84)
	if err != nil {
		t.Fatalf("NewBoundary failed: %v", err)
	}

	for _, name := range []string{"name", "NAME", "Name", "nAmE"} {
		v, err := b.Attribute(name)
		if err != nil {
			t.Errorf("Attribute(%q) failed: %v", name, err)
			continue
		}
		if v != "Brazil" {
			t.Errorf("Attribute(%q): expected Brazil, got %v", name, v)
		}
	}

	_, err = b.Attribute("missing")
	if !errors.Is(err, ErrAttributeNotFound) {
		t.Fatalf("expected ErrAttributeNotFound, got %v", err)
	}
	var attrErr *AttributeNotFoundError
	if !errors.As(err, &attrErr) || attrErr.Name != "missing" {
		t.Errorf("expected error carrying the attribute name, got %v", err)
	}
}

func TestAttribute_CaseSensitive(t *testing.T) {
	g := NewGeocache(orb.Point{1, 2}, geojson.Properties{"Name": "GC1", "status": nil}, crs.WGS84)

	if v, err := g.AttributeCaseSensitive("Name"); err != nil || v != "GC1" {
		t.Errorf("expected GC1, got %v (%v)", v, err)
	}
	if _, err := g.AttributeCaseSensitive("name"); !errors.Is(err, ErrAttributeNotFound) {
		t.Errorf("expected ErrAttributeNotFound for wrong case, got %v", err)
	}

	v, err := g.Attribute("STATUS")
	if err != nil {
		t.Fatalf("null attribute should resolve: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil value, got %v", v)
	}
}

func TestAttributes_Copied(t *testing.T) {
	props := geojson.Properties{"name": "A"}
	g := NewGeocache(orb.Point{0, 0}, props, crs.WGS84)

	props["name"] = "changed"
	g.Attributes()["name"] = "changed"

	if v, _ := g.Attribute("name"); v != "A" {
		t.Errorf("object attributes should not alias callers' maps, got %v", v)
	}
}

func TestGeocache_String(t *testing.T) {
	tests := []struct {
		name     string
		props    geojson.Properties
		expected string
	}{
		{"named", geojson.Properties{"name": "GC1A2B"}, "-73.5 43.25 - GC1A2B"},
		{"unnamed", geojson.Properties{}, "-73.5 43.25 - Unnamed"},
		{"null name", geojson.Properties{"name": nil}, "-73.5 43.25 - Unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeocache(orb.Point{-73.5, 43.25}, tt.props, crs.WGS84)
			if got := g.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGeocache_Coordinates(t *testing.T) {
	g := NewGeocache(orb.Point{-73.5, 43.25}, nil, crs.WGS84)
	x, y := g.Coordinates()
	if x != -73.5 || y != 43.25 {
		t.Errorf("expected (-73.5, 43.25), got (%v, %v)", x, y)
	}
}

func TestProjectedGeometry(t *testing.T) {
	g := NewGeocache(orb.Point{-73, 43}, nil, crs.WGS84)

	p, err := g.ProjectedGeometry()
	if err != nil {
		t.Fatalf("ProjectedGeometry failed: %v", err)
	}
	pt := p.(orb.Point)
	if math.Abs(pt[0]+8126322.82790897) > 1e-3 || math.Abs(pt[1]-5282821.824192092) > 1e-3 {
		t.Errorf("unexpected projected point %v", pt)
	}
	if g.Point() != (orb.Point{-73, 43}) {
		t.Errorf("native geometry changed to %v", g.Point())
	}
}

func TestProjectedGeometry_Concurrent(t *testing.T) {
	g := NewGeocache(orb.Point{8, 53}, nil, crs.WGS84)

	const workers = 16
	results := make([]orb.Geometry, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = g.ProjectedGeometry()
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r == nil || !orb.Equal(r, results[0]) {
			t.Fatalf("worker %d saw %v, expected %v", i, r, results[0])
		}
	}
}

func TestProjectedGeometry_UnknownCRS(t *testing.T) {
	g := NewGeocache(orb.Point{0, 0}, nil, 2154)

	_, err := g.ProjectedGeometry()
	if !errors.Is(err, crs.ErrUnknownCRS) {
		t.Fatalf("expected ErrUnknownCRS, got %v", err)
	}
	if _, again := g.ProjectedGeometry(); again != err {
		t.Errorf("expected the memoized error, got %v", again)
	}
}

func TestLineString_Length(t *testing.T) {
	l, err := NewLineString(orb.LineString{{0, 0}, {1, 0}}, geojson.Properties{"name": "Equator"}, crs.WGS84)
	if err != nil {
		t.Fatalf("NewLineString failed: %v", err)
	}

	tests := []struct {
		unit     units.LengthUnit
		expected float64
	}{
		{units.Kilometers, 111.32},
		{units.Meters, 111319.49},
		{units.Miles, 69.17},
	}
	for _, tt := range tests {
		got, err := l.Length(tt.unit)
		if err != nil {
			t.Fatalf("Length(%s) failed: %v", tt.unit, err)
		}
		if got != tt.expected {
			t.Errorf("Length(%s): expected %v, got %v", tt.unit, tt.expected, got)
		}
	}

	if _, err := l.Length("furlong"); !errors.Is(err, units.ErrUnsupportedUnit) {
		t.Errorf("expected ErrUnsupportedUnit, got %v", err)
	}

	if got := l.String(); got != "Equator (111.32 km)" {
		t.Errorf("unexpected string %q", got)
	}
}

func TestLineString_GeodesicLength(t *testing.T) {
	// At 60 degrees north Mercator stretches distances by about two.
	l, _ := NewLineString(orb.LineString{{0, 60}, {0, 61}}, nil, crs.WGS84)

	planarKM, err := l.Length(units.Kilometers)
	if err != nil {
		t.Fatalf("Length failed: %v", err)
	}
	geodesicKM, err := l.GeodesicLength(units.Kilometers)
	if err != nil {
		t.Fatalf("GeodesicLength failed: %v", err)
	}

	if math.Abs(geodesicKM-111.32) > 0.01 {
		t.Errorf("expected one degree of latitude (111.32 km), got %v", geodesicKM)
	}
	if planarKM < 1.9*geodesicKM {
		t.Errorf("expected mercator length near twice the geodesic one, got %v vs %v", planarKM, geodesicKM)
	}
}

func TestNewLineString_WrongGeometry(t *testing.T) {
	if _, err := NewLineString(orb.Point{0, 0}, nil, crs.WGS84); err == nil {
		t.Error("expected an error for a point")
	}
	if _, err := NewBoundary(orb.LineString{{0, 0}, {1, 1}}, nil, crs.WGS84); err == nil {
		t.Error("expected an error for a linestring")
	}
}

func TestBoundary_Area(t *testing.T) {
	b, err := NewBoundary(square(0, 1000), geojson.Properties{"name": "Block"}, crs.WorldMercator)
	if err != nil {
		t.Fatalf("NewBoundary failed: %v", err)
	}

	tests := []struct {
		unit     units.AreaUnit
		expected float64
	}{
		{units.SquareMeters, 1e6},
		{units.SquareKilometers, 1},
		{units.SquareMiles, 1e6 / 2589988.11},
	}
	for _, tt := range tests {
		got, err := b.Area(tt.unit)
		if err != nil {
			t.Fatalf("Area(%s) failed: %v", tt.unit, err)
		}
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Area(%s): expected %v, got %v", tt.unit, tt.expected, got)
		}
	}

	if got := b.String(); got != "Block" {
		t.Errorf("expected name as string form, got %q", got)
	}
}

func TestBoundary_GeodesicArea(t *testing.T) {
	b, _ := NewBoundary(square(0, 1), nil, crs.WGS84)

	got, err := b.GeodesicArea(units.SquareKilometers)
	if err != nil {
		t.Fatalf("GeodesicArea failed: %v", err)
	}
	// One square degree at the equator.
	if math.Abs(got-12391) > 150 {
		t.Errorf("expected about 12391 km2, got %v", got)
	}
}

func TestFeatureRecord(t *testing.T) {
	g := NewGeocache(orb.Point{2.5, 48.75}, geojson.Properties{"name": "Paris"}, crs.WGS84)

	f := g.FeatureRecord()
	if f.Type != "Feature" {
		t.Errorf("expected type Feature, got %q", f.Type)
	}
	if f.Geometry != (orb.Point{2.5, 48.75}) {
		t.Errorf("unexpected geometry %v", f.Geometry)
	}
	if f.Properties["name"] != "Paris" {
		t.Errorf("unexpected properties %v", f.Properties)
	}

	f.Properties["name"] = "changed"
	if v, _ := g.Attribute("name"); v != "Paris" {
		t.Errorf("feature record should not alias the object, got %v", v)
	}
}

func TestReproject(t *testing.T) {
	b, _ := NewBoundary(square(0, 1), geojson.Properties{"name": "Cell"}, crs.WGS84)

	o, err := Reproject(b, crs.WorldMercator)
	if err != nil {
		t.Fatalf("Reproject failed: %v", err)
	}
	moved, ok := o.(*Boundary)
	if !ok {
		t.Fatalf("expected *Boundary, got %T", o)
	}
	if moved.EPSG() != crs.WorldMercator {
		t.Errorf("expected EPSG 3395, got %d", moved.EPSG())
	}
	ring := moved.Geometry().(orb.Polygon)[0]
	if ring[0] != ring[len(ring)-1] {
		t.Error("ring closure lost")
	}
	if math.Abs(ring[1][0]-111319.49079327357) > 1e-6 {
		t.Errorf("unexpected easting %v", ring[1][0])
	}
	if b.EPSG() != crs.WGS84 || b.Geometry().(orb.Polygon)[0][1][0] != 1 {
		t.Error("source object modified")
	}
}
