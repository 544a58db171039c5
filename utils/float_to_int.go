// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a sample in [-1, 1] to 16-bit PCM, clipping
// anything outside. Mixed audio can exceed full scale, so clipping here is
// expected rather than an error.
func Float32ToInt16(x float32) int16 {
	switch {
	case x >= 1:
		return 32767
	case x <= -1:
		return -32767
	}
	return int16(x * 32767)
}
