// Package units provides shared constants, validation and conversion for volume units.
// Geometry is computed in cubic meters; reports are expressed in liters.
package units

import "strings"

// Unit constants
const (
	CubicMeters = "m3"
	Liters      = "L"
	Milliliters = "mL"
	USGallons   = "gal"
)

// Conversion factors from one cubic meter.
const (
	LitersPerCubicMeter      = 1000.0
	MillilitersPerCubicMeter = 1e6
	USGallonsPerCubicMeter   = 264.172052358148
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{CubicMeters, Liters, Milliliters, USGallons}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// CubicMetersToLiters converts a volume in cubic meters to liters.
func CubicMetersToLiters(m3 float64) float64 {
	return m3 * LitersPerCubicMeter
}

// LitersToCubicMeters converts a volume in liters to cubic meters.
func LitersToCubicMeters(liters float64) float64 {
	return liters / LitersPerCubicMeter
}

// ConvertVolume converts a volume from cubic meters to the target units
func ConvertVolume(volumeM3 float64, targetUnits string) float64 {
	switch targetUnits {
	case Liters:
		return CubicMetersToLiters(volumeM3)
	case Milliliters:
		return volumeM3 * MillilitersPerCubicMeter
	case USGallons:
		return volumeM3 * USGallonsPerCubicMeter
	case CubicMeters:
		return volumeM3 // no conversion needed
	default:
		return volumeM3 // default to m3 if unknown unit
	}
}
