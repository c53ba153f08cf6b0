package geokit

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/tingold/orb-geokit/crs"
)

// minExtent pads zero width bounds so the R-tree accepts them.
const minExtent = 1e-9

// indexedObject wraps an item for R-tree storage.
type indexedObject struct {
	pos    int
	object Object
	bound  orb.Bound
}

// Bounds implements rtreego.Spatial.
func (o *indexedObject) Bounds() rtreego.Rect {
	return rect(o.bound)
}

func rect(b orb.Bound) rtreego.Rect {
	width := b.Max.X() - b.Min.X()
	height := b.Max.Y() - b.Min.Y()
	if width < minExtent {
		width = minExtent
	}
	if height < minExtent {
		height = minExtent
	}
	r, _ := rtreego.NewRect(rtreego.Point{b.Min.X(), b.Min.Y()}, []float64{width, height})
	return r
}

// buildIndex loads every item into an R-tree keyed by its native bound.
func buildIndex(items []Object) *rtreego.Rtree {
	tree := rtreego.NewTree(2, 25, 50)
	for i, item := range items {
		tree.Insert(&indexedObject{pos: i, object: item, bound: item.Geometry().Bound()})
	}
	return tree
}

// Nearest returns the geocache closest to location and the distance to it
// in meters. location is given in the collection's spatial reference;
// distances are measured in World Mercator.
func (c *Collection) Nearest(location orb.Point) (Object, float64, error) {
	if c.kind != KindPoint {
		return nil, 0, &VariantMismatchError{Left: c.kind, Right: KindPoint}
	}
	if len(c.items) == 0 {
		return nil, 0, ErrEmptyCollection
	}

	tr, err := crs.MakeTransform(c.epsg, crs.WorldMercator)
	if err != nil {
		return nil, 0, err
	}
	target, err := tr.Point(location)
	if err != nil {
		return nil, 0, err
	}

	tree := rtreego.NewTree(2, 25, 50)
	for i, item := range c.items {
		g, err := item.ProjectedGeometry()
		if err != nil {
			return nil, 0, err
		}
		tree.Insert(&indexedObject{pos: i, object: item, bound: g.Bound()})
	}

	found, ok := tree.NearestNeighbor(rtreego.Point{target.X(), target.Y()}).(*indexedObject)
	if !ok {
		return nil, 0, ErrEmptyCollection
	}
	distance := planar.Distance(found.bound.Min, target)

	c.log.Debug().
		Str("object", found.object.String()).
		Float64("meters", distance).
		Msg("Closest point")
	return found.object, distance, nil
}
