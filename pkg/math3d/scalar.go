package math3d

import "math"

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// Remap01 maps v from [lo, hi] onto [0, 1], clamping the result.
func Remap01(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return Clamp((v-lo)/(hi-lo), 0, 1)
}
