// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/ik5/stagemix/utils"
)

// resampleBlock is how many source frames the Resampler reads at a time.
const resampleBlock = 1024

// Resampler converts a source to another sample rate using Catmull-Rom
// interpolation over a four frame window. When downsampling, source frames
// pass through a one-pole low-pass set just under the new Nyquist frequency
// first. Channel count is preserved.
//
// The loader puts one in front of every track whose native rate differs from
// the engine rate, so all clips in a song share one frame clock.
type Resampler struct {
	src      Source
	channels int
	srcRate  int
	dstRate  int

	// Block of interleaved source samples and the read offset into it.
	in    []float32
	inPos int
	inLen int

	// win[1] is source frame idx and win[2] the one after; the output
	// position lies phase/dstRate of the way between them. win[0] and
	// win[3] are the outer taps, duplicated from their neighbours at the
	// edges. Keeping the phase as an integer makes the output length exact.
	win    [4][]float32
	idx    int64
	total  int64 // real frames pulled from src so far
	phase  int
	primed bool

	srcDone bool
	srcErr  error

	lowpass bool
	alpha   float32
	state   []float32
	warm    bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	srcRate := src.SampleRate()

	r := &Resampler{
		src:      src,
		channels: channels,
		srcRate:  srcRate,
		dstRate:  dstRate,
		in:       make([]float32, resampleBlock*max(channels, 1)),
		state:    make([]float32, max(channels, 0)),
	}
	for i := range r.win {
		r.win[i] = make([]float32, max(channels, 0))
	}

	if srcRate > dstRate && dstRate > 0 {
		cutoff := 0.45 * float64(dstRate)
		r.lowpass = true
		r.alpha = float32(1 - math.Exp(-2*math.Pi*cutoff/float64(srcRate)))
	}

	return r
}

// Resample returns src unchanged when it already runs at dstRate, otherwise a
// Resampler converting it.
func Resample(src Source, dstRate int) Source {
	if src.SampleRate() == dstRate {
		return src
	}
	return NewResampler(src, dstRate)
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Frames reports the output length when the source reports its own length.
func (r *Resampler) Frames() int64 {
	l, ok := r.src.(Lengther)
	if !ok || l.Frames() <= 0 || r.srcRate <= 0 || r.dstRate <= 0 {
		return 0
	}
	src, dst := int64(r.srcRate), int64(r.dstRate)
	return (l.Frames()*dst + src - 1) / src
}

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull reads the next source frame into frame. It returns false once the
// source is exhausted or failed; the failure is kept in srcErr.
func (r *Resampler) pull(frame []float32) bool {
	for r.inPos >= r.inLen {
		if r.srcDone {
			return false
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if err != nil {
			r.srcDone = true
			if err != io.EOF {
				r.srcErr = err
			}
		} else if n == 0 {
			// No progress without EOF; treat as the end.
			r.srcDone = true
		}
	}

	copy(frame, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels
	r.total++

	if r.lowpass {
		if !r.warm {
			copy(r.state, frame)
			r.warm = true
		}
		for c, x := range frame {
			y := r.state[c] + r.alpha*(x-r.state[c])
			r.state[c] = y
			frame[c] = y
		}
	}

	return true
}

// prime loads the first frames into the window. It returns false when the
// source holds no frames at all.
func (r *Resampler) prime() bool {
	r.primed = true
	if !r.pull(r.win[1]) {
		return false
	}
	copy(r.win[0], r.win[1])
	if !r.pull(r.win[2]) {
		copy(r.win[2], r.win[1])
	}
	if !r.pull(r.win[3]) {
		copy(r.win[3], r.win[2])
	}
	return true
}

// advance moves the window one source frame forward.
func (r *Resampler) advance() {
	r.win[0], r.win[1], r.win[2], r.win[3] = r.win[1], r.win[2], r.win[3], r.win[0]
	if !r.pull(r.win[3]) {
		copy(r.win[3], r.win[2])
	}
	r.idx++
}

// exhausted reports whether the output position has passed the last real
// source frame.
func (r *Resampler) exhausted() bool {
	return r.srcDone && r.idx >= r.total
}

func (r *Resampler) end() error {
	if r.srcErr != nil {
		return fmt.Errorf("%w", r.srcErr)
	}
	return io.EOF
}

// ReadSamples produces interleaved samples at the destination rate. Frames
// already read from the source are emitted before a source error is
// returned.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.channels <= 0 {
		return 0, ErrNoChannels
	}
	if r.srcRate <= 0 || r.dstRate <= 0 {
		return 0, ErrInvalidSampleRate
	}
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed && !r.prime() {
		return 0, r.end()
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames && !r.exhausted() {
		x := float32(r.phase) / float32(r.dstRate)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], x)
		}
		written++

		r.phase += r.srcRate
		for r.phase >= r.dstRate {
			r.phase -= r.dstRate
			r.advance()
		}
	}

	if r.exhausted() {
		return written * r.channels, r.end()
	}
	return written * r.channels, nil
}
