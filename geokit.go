// Package geokit provides typed collections of geographic objects built on
// the orb geometry library.
//
// A Collection holds geocache points, linestrings or boundaries read from a
// vector file. Collections can be merged, filtered by attribute value or by
// containment in a boundary, searched by name or proximity, reprojected, and
// exported as GeoJSON or FlatGeobuf. Lengths and areas are measured in the
// World Mercator projection (EPSG:3395).
package geokit

import (
	"errors"
	"fmt"
)

// Common errors returned by this package. The typed errors below match
// these with errors.Is.
var (
	ErrAttributeNotFound = errors.New("geokit: attribute not found")
	ErrNotFound          = errors.New("geokit: object not found")
	ErrVariantMismatch   = errors.New("geokit: collection variant mismatch")
	ErrCRSMismatch       = errors.New("geokit: spatial reference mismatch")
	ErrParse             = errors.New("geokit: malformed feature")
	ErrEmptyCollection   = errors.New("geokit: empty collection")
	ErrUnsupportedLayer  = errors.New("geokit: unsupported layer geometry type")
)

// AttributeNotFoundError reports a lookup of an attribute an object lacks.
type AttributeNotFoundError struct {
	Name string
}

func (e *AttributeNotFoundError) Error() string {
	return fmt.Sprintf("geokit: attribute %q not found", e.Name)
}

// Is makes errors.Is(err, ErrAttributeNotFound) succeed.
func (e *AttributeNotFoundError) Is(target error) bool { return target == ErrAttributeNotFound }

// NotFoundError reports a name lookup without a match.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("geokit: object not found with the name %q", e.Name)
}

// Is makes errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// VariantMismatchError reports an operation across collection kinds.
type VariantMismatchError struct {
	Left, Right Kind
}

func (e *VariantMismatchError) Error() string {
	return fmt.Sprintf("geokit: cannot combine %s with %s", e.Left, e.Right)
}

// Is makes errors.Is(err, ErrVariantMismatch) succeed.
func (e *VariantMismatchError) Is(target error) bool { return target == ErrVariantMismatch }

// CRSMismatchError reports geometries in different spatial references.
type CRSMismatchError struct {
	Left, Right int
}

func (e *CRSMismatchError) Error() string {
	return fmt.Sprintf("geokit: EPSG:%d does not match EPSG:%d", e.Left, e.Right)
}

// Is makes errors.Is(err, ErrCRSMismatch) succeed.
func (e *CRSMismatchError) Is(target error) bool { return target == ErrCRSMismatch }

// ParseError reports the input record that aborted a parse.
type ParseError struct {
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("geokit: feature %d: %v", e.Index, e.Err)
}

// Is makes errors.Is(err, ErrParse) succeed.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }
