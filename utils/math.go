// Package utils contains small numeric helpers shared across packages.
package utils

import (
	"math"
)

// RelativeError returns |estimate-reference| / |reference|. A zero reference yields the
// absolute error.
func RelativeError(estimate, reference float64) float64 {
	if reference == 0 {
		return math.Abs(estimate)
	}
	return math.Abs(estimate-reference) / math.Abs(reference)
}

// RoundTo rounds x half away from zero to the given number of decimal places.
func RoundTo(x float64, decimals int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(x*scale) / scale
}

// Square returns n*n; math.Pow( x, 2 ) is slow.
func Square(n float64) float64 {
	return n * n
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
