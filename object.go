package geokit

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/tingold/orb-geokit/crs"
	"github.com/tingold/orb-geokit/units"
)

// Object is a single geographic entity: a geometry in its native spatial
// reference plus the attributes of the feature it was read from.
//
// The set of implementations is closed: *Geocache, *LineString and *Boundary.
type Object interface {
	// Geometry returns the geometry in the native spatial reference.
	Geometry() orb.Geometry
	// EPSG returns the native spatial reference.
	EPSG() int
	// Attributes returns a copy of the attribute map.
	Attributes() geojson.Properties
	// Attribute looks a value up ignoring the case of name.
	Attribute(name string) (interface{}, error)
	// AttributeCaseSensitive looks a value up by its exact name.
	AttributeCaseSensitive(name string) (interface{}, error)
	// ProjectedGeometry returns the geometry in World Mercator.
	ProjectedGeometry() (orb.Geometry, error)
	// FeatureRecord returns the object as a GeoJSON feature.
	FeatureRecord() *geojson.Feature

	String() string

	core() *object
}

// object holds the state shared by every Object implementation.
type object struct {
	geom       orb.Geometry
	epsg       int
	attributes geojson.Properties
	lowercase  map[string]string

	once       sync.Once
	projected  orb.Geometry
	projectErr error
}

// init fills o in place. The sync.Once inside must never be copied.
func (o *object) init(geom orb.Geometry, attributes geojson.Properties, epsg int) {
	o.geom = geom
	o.epsg = epsg
	o.attributes = make(geojson.Properties, len(attributes))
	o.lowercase = make(map[string]string, len(attributes))
	for k, v := range attributes {
		o.attributes[k] = v
		o.lowercase[strings.ToLower(k)] = k
	}
}

func (o *object) core() *object { return o }

func (o *object) Geometry() orb.Geometry { return o.geom }

func (o *object) EPSG() int { return o.epsg }

func (o *object) Attributes() geojson.Properties { return o.attributes.Clone() }

func (o *object) Attribute(name string) (interface{}, error) {
	key, ok := o.lowercase[strings.ToLower(name)]
	if !ok {
		return nil, &AttributeNotFoundError{Name: name}
	}
	return o.attributes[key], nil
}

func (o *object) AttributeCaseSensitive(name string) (interface{}, error) {
	v, ok := o.attributes[name]
	if !ok {
		return nil, &AttributeNotFoundError{Name: name}
	}
	return v, nil
}

// ProjectedGeometry transforms the native geometry to World Mercator on
// first use. The result, or the error, is kept for the life of the object.
func (o *object) ProjectedGeometry() (orb.Geometry, error) {
	o.once.Do(func() {
		tr, err := crs.MakeTransform(o.epsg, crs.WorldMercator)
		if err != nil {
			o.projectErr = err
			return
		}
		o.projected, o.projectErr = tr.Geometry(o.geom)
	})
	return o.projected, o.projectErr
}

func (o *object) FeatureRecord() *geojson.Feature {
	f := geojson.NewFeature(orb.Clone(o.geom))
	f.Properties = o.attributes.Clone()
	return f
}

// geographic returns the geometry in WGS 84 longitude/latitude.
func (o *object) geographic() (orb.Geometry, error) {
	if o.epsg == crs.WGS84 {
		return o.geom, nil
	}
	tr, err := crs.MakeTransform(o.epsg, crs.WGS84)
	if err != nil {
		return nil, err
	}
	return tr.Geometry(o.geom)
}

// name returns the name attribute as a string.
func (o *object) name() (string, bool) {
	v, err := o.Attribute("name")
	if err != nil || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return s, true
}

// Geocache is a single geocaching point.
type Geocache struct {
	object
}

// NewGeocache creates a point object in the spatial reference epsg.
func NewGeocache(p orb.Point, attributes geojson.Properties, epsg int) *Geocache {
	c := &Geocache{}
	c.init(p, attributes, epsg)
	return c
}

// Point returns the native point.
func (g *Geocache) Point() orb.Point { return g.geom.(orb.Point) }

// Coordinates returns x and y in the native spatial reference.
func (g *Geocache) Coordinates() (x, y float64) {
	p := g.Point()
	return p.X(), p.Y()
}

func (g *Geocache) String() string {
	name, ok := g.name()
	if !ok {
		name = "Unnamed"
	}
	x, y := g.Coordinates()
	return fmt.Sprintf("%v %v - %s", x, y, name)
}

// LineString is a single linear feature such as a road or a trail.
// The geometry is an orb.LineString or an orb.MultiLineString.
type LineString struct {
	object
}

// NewLineString creates a linear object in the spatial reference epsg.
func NewLineString(g orb.Geometry, attributes geojson.Properties, epsg int) (*LineString, error) {
	switch g.(type) {
	case orb.LineString, orb.MultiLineString:
	default:
		return nil, fmt.Errorf("expected a linestring, got %s", geometryName(g))
	}
	ls := &LineString{}
	ls.init(g, attributes, epsg)
	return ls, nil
}

// Length returns the length measured in World Mercator, converted to unit
// and rounded to two decimals.
func (l *LineString) Length(unit units.LengthUnit) (float64, error) {
	g, err := l.ProjectedGeometry()
	if err != nil {
		return 0, err
	}
	return units.ConvertLength(planar.Length(g), unit, units.DefaultPrecision)
}

// GeodesicLength returns the great circle length on WGS 84, converted to
// unit. It avoids the scale distortion of Mercator away from the equator.
func (l *LineString) GeodesicLength(unit units.LengthUnit) (float64, error) {
	g, err := l.geographic()
	if err != nil {
		return 0, err
	}
	return units.ConvertLength(geo.Length(g), unit, units.DefaultPrecision)
}

func (l *LineString) String() string {
	name, ok := l.name()
	if !ok {
		name = "Unnamed"
	}
	length, err := l.Length(units.Kilometers)
	if err != nil {
		return fmt.Sprintf("%s (unknown %s)", name, units.Kilometers)
	}
	return fmt.Sprintf("%s (%v %s)", name, length, units.Kilometers)
}

// Boundary is a geographic area such as a country border. Its geometry is
// an orb.Polygon or an orb.MultiPolygon.
type Boundary struct {
	object
}

// NewBoundary creates an area object in the spatial reference epsg.
func NewBoundary(g orb.Geometry, attributes geojson.Properties, epsg int) (*Boundary, error) {
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return nil, fmt.Errorf("expected a polygon, got %s", geometryName(g))
	}
	b := &Boundary{}
	b.init(g, attributes, epsg)
	return b, nil
}

// Area returns the area measured in World Mercator, converted to unit.
func (b *Boundary) Area(unit units.AreaUnit) (float64, error) {
	g, err := b.ProjectedGeometry()
	if err != nil {
		return 0, err
	}
	return units.ConvertArea(math.Abs(planar.Area(g)), unit)
}

// GeodesicArea returns the area on the WGS 84 sphere, converted to unit.
func (b *Boundary) GeodesicArea(unit units.AreaUnit) (float64, error) {
	g, err := b.geographic()
	if err != nil {
		return 0, err
	}
	return units.ConvertArea(math.Abs(geo.Area(g)), unit)
}

// Contains reports whether g lies strictly within the boundary. Both must
// be in the boundary's spatial reference.
func (b *Boundary) Contains(g orb.Geometry) bool {
	return within(g, b.geom)
}

func (b *Boundary) String() string {
	name, _ := b.name()
	return name
}

// newObjectOfKind builds the Object variant that belongs in a collection of kind.
func newObjectOfKind(kind Kind, g orb.Geometry, attributes geojson.Properties, epsg int) (Object, error) {
	switch kind {
	case KindPoint:
		p, ok := g.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("expected a point, got %s", geometryName(g))
		}
		return NewGeocache(p, attributes, epsg), nil
	case KindLineString:
		return NewLineString(g, attributes, epsg)
	case KindBoundary:
		return NewBoundary(g, attributes, epsg)
	default:
		return nil, fmt.Errorf("unknown collection kind %d", kind)
	}
}

// Reproject returns a copy of o with its geometry transformed to dst.
func Reproject(o Object, dst int) (Object, error) {
	c := o.core()
	tr, err := crs.MakeTransform(c.epsg, dst)
	if err != nil {
		return nil, err
	}
	g, err := tr.Geometry(c.geom)
	if err != nil {
		return nil, err
	}
	return newObjectOfKind(kindOf(o), g, c.attributes, dst)
}

func kindOf(o Object) Kind {
	switch o.(type) {
	case *Geocache:
		return KindPoint
	case *LineString:
		return KindLineString
	case *Boundary:
		return KindBoundary
	default:
		return 0
	}
}

func geometryName(g orb.Geometry) string {
	if g == nil {
		return "nil"
	}
	return g.GeoJSONType()
}
