// Package fgb reads and writes FlatGeobuf files holding geokit features.
// Geometries map to orb types and every attribute is stored as a nullable
// string column.
package fgb

import (
	"errors"
)

// Common errors returned by this package.
var (
	ErrEmpty           = errors.New("fgb: no features to write")
	ErrUnsupportedType = errors.New("fgb: unsupported geometry type")
	ErrNoIndex         = errors.New("fgb: file has no spatial index")
)

// CRS identifies the coordinate reference system stored in the header.
type CRS struct {
	Code int    // EPSG code
	Name string // CRS name
}

// Options configures FlatGeobuf writing.
type Options struct {
	Name string // Layer name
	CRS  *CRS   // Coordinate reference system (optional)
}

// Header contains metadata about a FlatGeobuf file.
type Header struct {
	Name          string     // Layer name
	GeometryType  string     // Geometry type ("Point", "Polygon", "Unknown", etc.)
	FeaturesCount uint64     // Number of features in the file
	Envelope      [4]float64 // Bounding box [minX, minY, maxX, maxY]
	CRS           *CRS       // Coordinate reference system
	HasIndex      bool       // Whether the file has a spatial index
	Columns       []string   // Property column names in schema order
}
