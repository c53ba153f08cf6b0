package geokit

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/rs/zerolog"

	"github.com/tingold/orb-geokit/crs"
	"github.com/tingold/orb-geokit/source"
)

// Kind identifies the variant of objects a Collection holds.
type Kind int

const (
	KindPoint Kind = iota + 1
	KindLineString
	KindBoundary
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "PointCollection"
	case KindLineString:
		return "LineStringCollection"
	case KindBoundary:
		return "BoundaryCollection"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Collection is an ordered, homogeneous list of objects sharing one
// spatial reference. Filters and merges return new collections; the
// collection they were called on is not modified.
//
// A Collection is not safe for concurrent mutation.
type Collection struct {
	kind  Kind
	epsg  int
	items []Object
	log   zerolog.Logger
}

// Option configures a Collection.
type Option func(*Collection)

// WithLogger sets the logger used for import, export and describe events.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Collection) {
		c.log = log
	}
}

// WithEPSG sets the spatial reference of the collection. The default is
// EPSG:4326.
func WithEPSG(code int) Option {
	return func(c *Collection) {
		c.epsg = code
	}
}

// NewCollection creates an empty collection of the given kind.
func NewCollection(kind Kind, opts ...Option) *Collection {
	c := &Collection{
		kind: kind,
		epsg: crs.WGS84,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewPointCollection creates an empty collection of geocaches.
func NewPointCollection(opts ...Option) *Collection {
	return NewCollection(KindPoint, opts...)
}

// NewLineStringCollection creates an empty collection of linestrings.
func NewLineStringCollection(opts ...Option) *Collection {
	return NewCollection(KindLineString, opts...)
}

// NewBoundaryCollection creates an empty collection of boundaries.
func NewBoundaryCollection(opts ...Option) *Collection {
	return NewCollection(KindBoundary, opts...)
}

// empty returns a collection with the same kind, reference and logger.
func (c *Collection) empty() *Collection {
	return &Collection{kind: c.kind, epsg: c.epsg, log: c.log}
}

func (c *Collection) Kind() Kind { return c.kind }

func (c *Collection) EPSG() int { return c.epsg }

func (c *Collection) Len() int { return len(c.items) }

// Items returns the objects in insertion order. The slice is a copy.
func (c *Collection) Items() []Object {
	out := make([]Object, len(c.items))
	copy(out, c.items)
	return out
}

// Bound returns the extent of all items in the native reference.
func (c *Collection) Bound() orb.Bound {
	var b orb.Bound
	for i, item := range c.items {
		if i == 0 {
			b = item.Geometry().Bound()
			continue
		}
		b = b.Union(item.Geometry().Bound())
	}
	return b
}

// Parse builds one object per feature and appends them to the collection.
//
// Point features carry their pair as (lat, lon) and are stored with x = lon
// and y = lat. Line and boundary features carry WKT or a decoded geometry.
// A malformed feature aborts the parse and nothing is appended.
func (c *Collection) Parse(features []source.Feature) error {
	parsed := make([]Object, 0, len(features))
	for i, f := range features {
		obj, err := c.parseFeature(f)
		if err != nil {
			return &ParseError{Index: i, Err: err}
		}
		parsed = append(parsed, obj)
	}
	c.items = append(c.items, parsed...)
	return nil
}

func (c *Collection) parseFeature(f source.Feature) (Object, error) {
	var g orb.Geometry
	switch c.kind {
	case KindPoint:
		lat, lon, err := pairOf(f.Geometry.Coordinates)
		if err != nil {
			return nil, err
		}
		g = orb.Point{lon, lat}
	case KindLineString, KindBoundary:
		switch v := f.Geometry.Coordinates.(type) {
		case string:
			decoded, err := wkt.Unmarshal(v)
			if err != nil {
				return nil, fmt.Errorf("invalid WKT: %w", err)
			}
			g = decoded
		case orb.Geometry:
			g = v
		default:
			return nil, fmt.Errorf("unexpected coordinates %T", f.Geometry.Coordinates)
		}
	}
	return newObjectOfKind(c.kind, g, f.Properties, c.epsg)
}

// pairOf reads a two element coordinate pair.
func pairOf(v interface{}) (float64, float64, error) {
	var vals []interface{}
	switch p := v.(type) {
	case []float64:
		if len(p) < 2 {
			return 0, 0, fmt.Errorf("expected a coordinate pair, got %d values", len(p))
		}
		return p[0], p[1], nil
	case [2]float64:
		return p[0], p[1], nil
	case []interface{}:
		vals = p
	default:
		return 0, 0, fmt.Errorf("unexpected coordinates %T", v)
	}

	if len(vals) < 2 {
		return 0, 0, fmt.Errorf("expected a coordinate pair, got %d values", len(vals))
	}
	var out [2]float64
	for i := 0; i < 2; i++ {
		switch n := vals[i].(type) {
		case float64:
			out[i] = n
		case int:
			out[i] = float64(n)
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return 0, 0, fmt.Errorf("invalid coordinate %q", n)
			}
			out[i] = f
		default:
			return 0, 0, fmt.Errorf("invalid coordinate %v", vals[i])
		}
	}
	return out[0], out[1], nil
}

// KindForType maps a layer geometry type to the collection kind holding it.
func KindForType(geomType string) (Kind, error) {
	switch geomType {
	case "Point":
		return KindPoint, nil
	case "LineString", "MultiLineString":
		return KindLineString, nil
	case "Polygon", "MultiPolygon":
		return KindBoundary, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedLayer, geomType)
	}
}

// Open reads a vector file into a new collection. The kind follows the
// geometry type of the layer and the spatial reference follows the file.
func Open(path string, opts ...Option) (*Collection, error) {
	features, meta, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	kind, err := KindForType(meta.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	c := NewCollection(kind, opts...)
	if err := c.load(path, features, meta); err != nil {
		return nil, err
	}
	return c, nil
}

// Import reads a vector file and appends its features. The collection
// takes the file's spatial reference when it is empty; otherwise the file
// must match it.
func (c *Collection) Import(path string) error {
	features, meta, err := source.Open(path)
	if err != nil {
		return err
	}
	return c.load(path, features, meta)
}

func (c *Collection) load(path string, features []source.Feature, meta source.Metadata) error {
	epsg := meta.EPSG
	if epsg == 0 {
		c.log.Warn().Str("path", path).Msg("Unrecognised spatial reference, assuming EPSG:4326")
		epsg = source.DefaultEPSG
	}
	if len(c.items) > 0 && epsg != c.epsg {
		return &CRSMismatchError{Left: c.epsg, Right: epsg}
	}

	prev := c.epsg
	c.epsg = epsg
	if err := c.Parse(features); err != nil {
		c.epsg = prev
		return err
	}

	c.log.Info().Str("path", path).Int("features", len(features)).Int("epsg", epsg).Msg("File imported")
	return nil
}

// Merge returns a new collection with the items of c followed by the
// items of other.
func (c *Collection) Merge(other *Collection) (*Collection, error) {
	if c.kind != other.kind {
		return nil, &VariantMismatchError{Left: c.kind, Right: other.kind}
	}
	if c.epsg != other.epsg {
		return nil, &CRSMismatchError{Left: c.epsg, Right: other.epsg}
	}

	out := c.empty()
	out.items = make([]Object, 0, len(c.items)+len(other.items))
	out.items = append(out.items, c.items...)
	out.items = append(out.items, other.items...)
	return out, nil
}

// Reproject returns a new collection with every item transformed to dst.
func (c *Collection) Reproject(dst int) (*Collection, error) {
	tr, err := crs.MakeTransform(c.epsg, dst)
	if err != nil {
		return nil, err
	}

	out := c.empty()
	out.epsg = dst
	out.items = make([]Object, 0, len(c.items))
	for i, item := range c.items {
		g, err := tr.Geometry(item.Geometry())
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		obj, err := newObjectOfKind(c.kind, g, item.core().attributes, dst)
		if err != nil {
			return nil, err
		}
		out.items = append(out.items, obj)
	}
	return out, nil
}

// Summary describes a collection.
type Summary struct {
	Kind     Kind
	EPSG     int
	Features int
	Bound    orb.Bound
}

// Describe logs and returns the reference system and size of the collection.
func (c *Collection) Describe() Summary {
	s := Summary{
		Kind:     c.kind,
		EPSG:     c.epsg,
		Features: len(c.items),
		Bound:    c.Bound(),
	}
	c.log.Info().
		Stringer("kind", s.Kind).
		Int("epsg", s.EPSG).
		Int("features", s.Features).
		Msg("Collection summary")
	return s
}
