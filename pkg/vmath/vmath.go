// Package vmath holds the 2D vector and affine transform kernel shared by the
// physics core and its tooling.
package vmath

import "math"

// Epsilon is the tolerance used by Approximately and the zero-length guards.
const Epsilon = 1e-9

// Approximately reports whether a and b differ by less than a tolerance that
// scales with their magnitude.
func Approximately(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff < 1e-6 {
		return true
	}
	return diff <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// WrapDegrees maps deg into [0, 360).
func WrapDegrees(deg float64) float64 {
	w := math.Mod(deg, 360)
	if w < 0 {
		w += 360
	}
	if w >= 360 {
		w = 0
	}
	return w
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
