// SPDX-License-Identifier: EPL-2.0

package pitch

import (
	"fmt"
	"math"

	"github.com/ik5/stagemix/audio"
	"github.com/ik5/stagemix/utils"
)

// Ratio returns the playback-rate ratio for a semitone offset, 2^(semitones/12).
func Ratio(semitones int) float64 {
	return math.Pow(2, float64(semitones)/12)
}

// Length returns the number of frames Shift produces for a buffer of n frames.
func Length(n, semitones int) int {
	if semitones == 0 {
		return n
	}
	return int(math.Floor(float64(n) / Ratio(semitones)))
}

// Shift resamples buf so it plays back semitones higher (or lower).
//
// Output frame i reads the source at position i*r with linear interpolation
// between the two nearest input frames, and the output is floor(len/r) frames
// long. Duration changes with pitch. A zero offset returns buf itself.
func Shift(buf *audio.Buffer, semitones int) (*audio.Buffer, error) {
	if semitones == 0 {
		return buf, nil
	}
	if buf == nil || buf.Channels() == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrPitchShift)
	}

	in := buf.Frames()
	r := Ratio(semitones)
	out := Length(in, semitones)
	if in == 0 || out <= 0 {
		return nil, fmt.Errorf("%w: %d frames at ratio %.4f leaves no output", ErrPitchShift, in, r)
	}

	shifted := audio.NewBuffer(buf.Rate, buf.Channels(), out)
	for c, src := range buf.Data {
		if len(src) != in {
			return nil, fmt.Errorf("%w: channel %d has %d frames, want %d", ErrPitchShift, c, len(src), in)
		}
		dst := shifted.Data[c]
		for i := range dst {
			pos := float64(i) * r
			idx := min(int(pos), in-1)
			frac := float32(pos - float64(idx))

			next := idx + 1
			if next >= in {
				next = in - 1
			}
			dst[i] = utils.Lerp(src[idx], src[next], frac)
		}
	}

	return shifted, nil
}
