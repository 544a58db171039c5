// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"
)

// Buffer holds fully decoded audio as one float32 slice per channel.
// It implements Clip and is safe for concurrent reads once built.
type Buffer struct {
	Data [][]float32
	Rate int
}

// NewBuffer allocates a zeroed buffer of the given shape.
func NewBuffer(rate, channels, frames int) *Buffer {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
	}

	return &Buffer{Data: data, Rate: rate}
}

func (b *Buffer) SampleRate() int { return b.Rate }
func (b *Buffer) Channels() int   { return len(b.Data) }
func (b *Buffer) Done() bool      { return true }
func (b *Buffer) Len() int        { return b.Frames() }

// Frames returns the number of frames per channel.
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

func (b *Buffer) Sample(ch, frame int) float32 {
	if ch < 0 || ch >= len(b.Data) {
		return 0
	}
	data := b.Data[ch]
	if frame < 0 || frame >= len(data) {
		return 0
	}
	return data[frame]
}

func (b *Buffer) CopyChannel(dst []float32, ch, start int) int {
	if ch < 0 || ch >= len(b.Data) || start < 0 || start >= len(b.Data[ch]) {
		return 0
	}
	return copy(dst, b.Data[ch][start:])
}

// Seconds returns the buffer length in seconds.
func (b *Buffer) Seconds() float64 {
	if b.Rate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.Rate)
}

func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.Seconds() * float64(time.Second))
}

// ReadAll drains src into a Buffer. src is not closed.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrNoChannels
	}
	if src.SampleRate() <= 0 {
		return nil, ErrInvalidSampleRate
	}

	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	// Keep reads frame aligned
	size -= size % channels
	if size == 0 {
		size = channels
	}

	capacity := 0
	if l, ok := src.(Lengther); ok && l.Frames() > 0 {
		capacity = int(l.Frames())
	}

	b := &Buffer{Data: make([][]float32, channels), Rate: src.SampleRate()}
	for c := range b.Data {
		b.Data[c] = make([]float32, 0, capacity)
	}

	buf := make([]float32, size)
	for {
		n, err := src.ReadSamples(buf)
		frames := n / channels
		for f := range frames {
			base := f * channels
			for c := range channels {
				b.Data[c] = append(b.Data[c], buf[base+c])
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n == 0 {
			// Source made no progress without signalling EOF; treat as end.
			break
		}
	}

	return b, nil
}

// NewReader returns a Source that streams the buffer from the start.
func (b *Buffer) NewReader() Source {
	return &bufferSource{b: b}
}

type bufferSource struct {
	b   *Buffer
	pos int
}

func (s *bufferSource) SampleRate() int { return s.b.Rate }
func (s *bufferSource) Channels() int   { return s.b.Channels() }
func (s *bufferSource) BufSize() int    { return 4096 }
func (s *bufferSource) Close() error    { return nil }
func (s *bufferSource) Frames() int64   { return int64(s.b.Frames()) }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	channels := s.b.Channels()
	if channels == 0 {
		return 0, io.EOF
	}
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	total := s.b.Frames()
	if s.pos >= total {
		return 0, io.EOF
	}

	frames := min(len(dst)/channels, total-s.pos)
	for f := range frames {
		for c := range channels {
			dst[f*channels+c] = s.b.Data[c][s.pos+f]
		}
	}
	s.pos += frames

	if s.pos >= total {
		return frames * channels, io.EOF
	}
	return frames * channels, nil
}
