package crs

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Transformer converts coordinates from one spatial reference to another.
// It holds no mutable state and may be shared and reused freely.
type Transformer struct {
	src Definition
	dst Definition
}

// MakeTransform resolves both EPSG codes and returns the transformation
// from src to dst.
func MakeTransform(src, dst int) (*Transformer, error) {
	s, err := Lookup(src)
	if err != nil {
		return nil, err
	}
	d, err := Lookup(dst)
	if err != nil {
		return nil, err
	}
	return &Transformer{src: s, dst: d}, nil
}

// Source returns the definition coordinates are read in.
func (t *Transformer) Source() Definition { return t.src }

// Destination returns the definition coordinates are written in.
func (t *Transformer) Destination() Definition { return t.dst }

// Inverse returns the transformation from the destination back to the source.
func (t *Transformer) Inverse() *Transformer {
	return &Transformer{src: t.dst, dst: t.src}
}

// Identity reports whether source and destination are the same system.
func (t *Transformer) Identity() bool {
	return t.src.Code == t.dst.Code
}

// Point transforms a single coordinate pair.
func (t *Transformer) Point(p orb.Point) (orb.Point, error) {
	geographic, err := t.src.inverse(p)
	if err != nil {
		return p, err
	}
	if t.Identity() {
		return p, nil
	}
	return t.dst.forward(geographic)
}

// Geometry returns a copy of g with every vertex transformed. The input is
// not modified and the structure of g is kept: rings keep their order, and
// because equal inputs give equal outputs a closed ring stays closed.
func (t *Transformer) Geometry(g orb.Geometry) (orb.Geometry, error) {
	if g == nil {
		return nil, nil
	}

	switch v := g.(type) {
	case orb.Point:
		return t.Point(v)

	case orb.MultiPoint:
		mp := make(orb.MultiPoint, len(v))
		for i, p := range v {
			tp, err := t.Point(p)
			if err != nil {
				return nil, err
			}
			mp[i] = tp
		}
		return mp, nil

	case orb.LineString:
		return t.lineString(v)

	case orb.MultiLineString:
		mls := make(orb.MultiLineString, len(v))
		for i, ls := range v {
			tls, err := t.lineString(ls)
			if err != nil {
				return nil, err
			}
			mls[i] = tls
		}
		return mls, nil

	case orb.Ring:
		return t.ring(v)

	case orb.Polygon:
		return t.polygon(v)

	case orb.MultiPolygon:
		mp := make(orb.MultiPolygon, len(v))
		for i, poly := range v {
			tpoly, err := t.polygon(poly)
			if err != nil {
				return nil, err
			}
			mp[i] = tpoly
		}
		return mp, nil

	case orb.Collection:
		coll := make(orb.Collection, len(v))
		for i, child := range v {
			tchild, err := t.Geometry(child)
			if err != nil {
				return nil, err
			}
			coll[i] = tchild
		}
		return coll, nil

	case orb.Bound:
		tpoly, err := t.polygon(v.ToPolygon())
		if err != nil {
			return nil, err
		}
		return tpoly.Bound(), nil

	default:
		return nil, fmt.Errorf("crs: cannot transform geometry type %T", g)
	}
}

func (t *Transformer) lineString(ls orb.LineString) (orb.LineString, error) {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		tp, err := t.Point(p)
		if err != nil {
			return nil, err
		}
		out[i] = tp
	}
	return out, nil
}

func (t *Transformer) ring(r orb.Ring) (orb.Ring, error) {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		tp, err := t.Point(p)
		if err != nil {
			return nil, err
		}
		out[i] = tp
	}
	return out, nil
}

func (t *Transformer) polygon(poly orb.Polygon) (orb.Polygon, error) {
	out := make(orb.Polygon, len(poly))
	for i, r := range poly {
		tr, err := t.ring(r)
		if err != nil {
			return nil, err
		}
		out[i] = tr
	}
	return out, nil
}
