// Package units converts metric measurements into the units reported to users.
package units

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedUnit is matched by every *UnsupportedUnitError.
var ErrUnsupportedUnit = errors.New("units: unsupported unit")

// DefaultPrecision is the number of decimal places used when none is given.
const DefaultPrecision = 2

// LengthUnit is the unit a length in meters is converted to.
type LengthUnit string

// Supported length units.
const (
	Miles      LengthUnit = "mi"
	Kilometers LengthUnit = "km"
	Meters     LengthUnit = "m"
)

// AreaUnit is the unit an area in square meters is converted to.
type AreaUnit string

// Supported area units.
const (
	SquareMiles      AreaUnit = "sqmi"
	SquareKilometers AreaUnit = "km2"
	SquareMeters     AreaUnit = "m2"
)

// lengthFactors multiply a value in meters.
var lengthFactors = map[LengthUnit]float64{
	Miles:      0.000621371192,
	Kilometers: 0.001,
	Meters:     1.0,
}

// areaDivisors divide a value in square meters.
var areaDivisors = map[AreaUnit]float64{
	SquareMiles:      2589988.11,
	SquareKilometers: 1000000,
	SquareMeters:     1,
}

// UnsupportedUnitError reports a unit outside the supported set.
type UnsupportedUnitError struct {
	Unit string
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("units: unsupported unit %q", e.Unit)
}

// Is makes errors.Is(err, ErrUnsupportedUnit) succeed.
func (e *UnsupportedUnitError) Is(target error) bool {
	return target == ErrUnsupportedUnit
}

// ParseLengthUnit validates a user supplied length unit.
func ParseLengthUnit(s string) (LengthUnit, error) {
	u := LengthUnit(s)
	if _, ok := lengthFactors[u]; !ok {
		return "", &UnsupportedUnitError{Unit: s}
	}
	return u, nil
}

// ParseAreaUnit validates a user supplied area unit.
func ParseAreaUnit(s string) (AreaUnit, error) {
	u := AreaUnit(s)
	if _, ok := areaDivisors[u]; !ok {
		return "", &UnsupportedUnitError{Unit: s}
	}
	return u, nil
}

// ConvertLength converts a length in meters to unit, rounded half to even
// at precision decimal places.
func ConvertLength(valueM float64, unit LengthUnit, precision int) (float64, error) {
	factor, ok := lengthFactors[unit]
	if !ok {
		return 0, &UnsupportedUnitError{Unit: string(unit)}
	}
	return round(valueM*factor, precision), nil
}

// ConvertArea converts an area in square meters to unit. The result is not rounded.
func ConvertArea(valueM2 float64, unit AreaUnit) (float64, error) {
	divisor, ok := areaDivisors[unit]
	if !ok {
		return 0, &UnsupportedUnitError{Unit: string(unit)}
	}
	return valueM2 / divisor, nil
}

func round(v float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	scale := math.Pow(10, float64(precision))
	return math.RoundToEven(v*scale) / scale
}
