// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/stagemix/audio"
)

// go-mp3 always produces 16-bit little-endian stereo
const (
	outChannels    = 2
	bytesPerSample = 2
	bytesPerFrame  = outChannels * bytesPerSample
)

// mp3Reader is the part of gomp3.Decoder the source needs, split out for tests
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	length     int64 // decoded PCM bytes, -1 when unknown
	buf        []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return outChannels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / bytesPerSample }

// Frames is zero when the input was not seekable.
func (s *source) Frames() int64 {
	if s.length <= 0 {
		return 0
	}
	return s.length / bytesPerFrame
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%outChannels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	bytesNeeded := len(dst) * bytesPerSample
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := s.dec.Read(s.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	samples := n / bytesPerSample
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[i*2:]))) / 32768.0
	}

	if n == 0 && err == nil {
		// Read made no progress; report it the way io.Reader callers expect
		return 0, io.EOF
	}

	return samples, err
}

// Decoder decodes MPEG-1/2 Layer III audio through go-mp3.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		length:     dec.Length(),
		buf:        make([]byte, 8192),
	}, nil
}
