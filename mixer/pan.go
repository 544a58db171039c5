// SPDX-License-Identifier: EPL-2.0

package mixer

import "math"

// Pan applies a constant-power stereo pan to one frame. balance is clamped to
// [-1, 1]. At the centre the frame passes through unchanged; panning left
// folds the right input into the left output and attenuates the right, and
// the mirror image for panning right.
func Pan(balance float64, l, r float32) (float32, float32) {
	if balance == 0 {
		return l, r
	}
	gl, gr, left := panGains(balance)
	if left {
		return l + r*gl, r * gr
	}
	return l * gl, r + l*gr
}

func panGains(balance float64) (gl, gr float32, left bool) {
	balance = max(-1, min(1, balance))

	x := balance
	left = balance <= 0
	if left {
		x = balance + 1
	}

	return float32(math.Cos(x * math.Pi / 2)), float32(math.Sin(x * math.Pi / 2)), left
}
