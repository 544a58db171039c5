// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates the Catmull-Rom spline through four consecutive
// samples at x, the fractional position between y1 and y2 (0 <= x <= 1).
// It passes through y1 at x=0 and y2 at x=1 and reproduces linear data
// exactly.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	// Horner form of the standard Catmull-Rom basis
	d := y2 - y0
	c := 2*y0 - 5*y1 + 4*y2 - y3
	b := 3*(y1-y2) + y3 - y0

	return y1 + 0.5*x*(d+x*(c+x*b))
}

// Lerp linearly interpolates between a and b; x is the fractional position
// (0 <= x <= 1).
func Lerp(a, b, x float32) float32 {
	return a + (b-a)*x
}
