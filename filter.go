package geokit

import (
	"sort"
)

// GetByName returns the first item whose name attribute equals name.
// Items without a name attribute are skipped.
func (c *Collection) GetByName(name string) (Object, error) {
	for _, item := range c.items {
		if n, ok := item.core().name(); ok && n == name {
			return item, nil
		}
	}
	return nil, &NotFoundError{Name: name}
}

// FilterByAttribute returns a new collection holding the items whose
// attribute equals value. The attribute name is matched ignoring case,
// the value is compared exactly. An item without the attribute fails the
// whole call.
func (c *Collection) FilterByAttribute(attribute, value string) (*Collection, error) {
	out := c.empty()
	for _, item := range c.items {
		v, err := item.Attribute(attribute)
		if err != nil {
			return nil, err
		}
		if v == value {
			out.items = append(out.items, item)
		}
	}
	return out, nil
}

// FilterByBoundary returns the items that lie strictly within the boundary,
// in collection order. The boundary must be in the collection's spatial
// reference; use Reproject first when it is not.
func (c *Collection) FilterByBoundary(b *Boundary) ([]Object, error) {
	if b.EPSG() != c.epsg {
		return nil, &CRSMismatchError{Left: c.epsg, Right: b.EPSG()}
	}

	tree := buildIndex(c.items)
	candidates := tree.SearchIntersect(rect(b.Geometry().Bound()))

	matches := make([]*indexedObject, 0, len(candidates))
	for _, s := range candidates {
		obj := s.(*indexedObject)
		if b.Contains(obj.object.Geometry()) {
			matches = append(matches, obj)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })

	result := make([]Object, len(matches))
	for i, m := range matches {
		result[i] = m.object
	}

	c.log.Debug().
		Str("boundary", b.String()).
		Int("candidates", len(candidates)).
		Int("matches", len(result)).
		Msg("Filtered by boundary")
	return result, nil
}

// WithinBoundary is FilterByBoundary returning a collection.
func (c *Collection) WithinBoundary(b *Boundary) (*Collection, error) {
	items, err := c.FilterByBoundary(b)
	if err != nil {
		return nil, err
	}
	out := c.empty()
	out.items = items
	return out, nil
}
