// Package geo provides the angular and planar math shared by the sailing log
// stages: bearing normalisation, equirectangular projection of fixes and
// two-line intersection.
package geo

import "math"

// FullTurn is one full revolution in radians.
const FullTurn = 2 * math.Pi

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// NormalizeBearing maps any angle onto [0, 2π).
func NormalizeBearing(a float64) float64 {
	a = math.Mod(a, FullTurn)
	if a < 0 {
		a += FullTurn
	}
	// math.Mod of a tiny negative value can round up to exactly 2π.
	if a >= FullTurn {
		a = 0
	}
	return a
}

// NormalizeSigned maps any angle onto (−π, π].
func NormalizeSigned(a float64) float64 {
	a = NormalizeBearing(a)
	if a > math.Pi {
		a -= FullTurn
	}
	return a
}

// BearingDifference returns the signed difference a − b in (−π, π].
func BearingDifference(a, b float64) float64 {
	return NormalizeSigned(a - b)
}
