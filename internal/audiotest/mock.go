// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
)

// MockSource generates frames from a waveform function on demand. It
// satisfies audio.Source and audio.Lengther without importing the audio
// package, so audio's own tests can use it.
type MockSource struct {
	rate     int
	channels int
	frames   int
	next     int
	waveform func(frame, channel int) float32
}

// NewMockSource returns a source of the given number of frames whose
// samples come from waveform.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		rate:     sampleRate,
		channels: channels,
		frames:   frames,
		waveform: waveform,
	}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

// NewSineSource is a full-scale sine at frequency Hz on every channel.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	w := 2 * math.Pi * frequency / float64(sampleRate)
	return NewMockSource(sampleRate, channels, frames, func(f, _ int) float32 {
		return float32(math.Sin(w * float64(f)))
	})
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

func (m *MockSource) SampleRate() int { return m.rate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }
func (m *MockSource) Frames() int64   { return int64(m.frames) }

// Reset rewinds the source to its first frame.
func (m *MockSource) Reset() { m.next = 0 }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.next >= m.frames || m.channels <= 0 {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.next)
	for i := range n {
		out := dst[i*m.channels : (i+1)*m.channels]
		for c := range out {
			out[c] = m.waveform(m.next+i, c)
		}
	}
	m.next += n

	if m.next >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}
