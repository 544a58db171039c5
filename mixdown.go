// SPDX-License-Identifier: EPL-2.0

package stagemix

import (
	"fmt"
	"io"

	"github.com/ik5/stagemix/utils"
)

// Renderer is the part of *engine.Engine that Mixdown drives.
type Renderer interface {
	SampleRate() int
	Seek(seconds float64)
	Render(dst []float32) (int, error)
}

// Mixdown renders the loaded song from the start into interleaved stereo
// 16-bit PCM and returns it with the sample rate.
//
// The engine must have finished loading (see Engine.Wait); tracks still
// loading render as silence. Mixdown moves the playhead to the end of the
// song.
//
// Example:
//
//	if err := eng.Wait(ctx); err != nil {
//	    return err
//	}
//	pcm16, rate, err := stagemix.Mixdown(eng, 4096)
//	if err != nil {
//	    return err
//	}
//	err = wav.WriteWAV16(out, rate, 2, pcm16)
func Mixdown(r Renderer, bufferSize int) ([]int16, int, error) {
	rate := r.SampleRate()
	if bufferSize < 2 {
		bufferSize = 4096
	}
	// Keep reads frame aligned
	bufferSize -= bufferSize % 2

	r.Seek(0)

	pcm16 := make([]int16, 0, rate*2)
	buf := make([]float32, bufferSize)

	for {
		n, err := r.Render(buf)
		for _, x := range buf[:n] {
			pcm16 = append(pcm16, utils.Float32ToInt16(x))
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rate, fmt.Errorf("%w", err)
		}
		if n == 0 {
			break
		}
	}

	return pcm16, rate, nil
}
