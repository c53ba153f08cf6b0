package source

import (
	"encoding/xml"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// xmlNode is a generic element tree, enough to flatten waypoint children
// into string attributes without binding to one GPX extension schema.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

type gpxFile struct {
	Waypoints []xmlNode `xml:"wpt"`
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// cache returns the geocache extension element of a waypoint. Both the
// Groundspeak <cache> and the <geocache> schema are recognised.
func (n *xmlNode) cache() *xmlNode {
	for i := range n.Nodes {
		switch n.Nodes[i].XMLName.Local {
		case "geocache", "cache":
			return &n.Nodes[i]
		}
	}
	return nil
}

// leaves copies the text of every child without element children into props.
func (n *xmlNode) leaves(props geojson.Properties) {
	for _, child := range n.Nodes {
		if len(child.Nodes) > 0 {
			continue
		}
		switch child.XMLName.Local {
		case "geocache", "cache":
			continue
		}
		props[child.XMLName.Local] = strings.TrimSpace(child.Content)
	}
}

// cacheStatus reads the status attribute, or derives it from the
// Groundspeak available/archived flags.
func cacheStatus(c *xmlNode) string {
	if s, ok := c.attr("status"); ok {
		return s
	}
	if archived, _ := c.attr("archived"); strings.EqualFold(archived, "true") {
		return "Archived"
	}
	if available, ok := c.attr("available"); ok && !strings.EqualFold(available, "true") {
		return "Unavailable"
	}
	return "Available"
}

// readGPX returns one point feature per geocache waypoint. Waypoints that
// carry no geocache element are skipped.
func readGPX(path string) ([]Feature, Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Metadata{}, errors.Wrap(err, "read gpx")
	}

	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, Metadata{}, errors.Wrapf(ErrInvalidFormat, "decode gpx: %v", err)
	}

	features := make([]Feature, 0, len(doc.Waypoints))
	geoms := make([]orb.Geometry, 0, len(doc.Waypoints))

	for i := range doc.Waypoints {
		wpt := &doc.Waypoints[i]

		c := wpt.cache()
		if c == nil {
			continue
		}

		lat, err := parseCoordinate(wpt, "lat")
		if err != nil {
			return nil, Metadata{}, err
		}
		lon, err := parseCoordinate(wpt, "lon")
		if err != nil {
			return nil, Metadata{}, err
		}

		props := geojson.Properties{"status": cacheStatus(c)}
		wpt.leaves(props)
		c.leaves(props)

		features = append(features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "Point", Coordinates: []float64{lat, lon}},
			Properties: props,
		})
		geoms = append(geoms, orb.Point{lon, lat})
	}

	meta := Metadata{
		EPSG:       DefaultEPSG,
		Type:       "Point",
		Attributes: attributeNames(features),
	}
	if len(geoms) > 0 {
		meta.BBox = boundsOf(geoms)
	}

	return features, meta, nil
}

func parseCoordinate(wpt *xmlNode, name string) (float64, error) {
	raw, ok := wpt.attr(name)
	if !ok {
		return 0, errors.Wrapf(ErrInvalidFormat, "waypoint without %s", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidFormat, "waypoint %s %q", name, raw)
	}
	return v, nil
}
