// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// Source is a pull-based stream of interleaved float32 PCM.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved samples in [-1, 1] and returns
	// the number of float32 values written, not frames. dst must hold a
	// whole number of frames. io.EOF marks the end of the stream and may
	// come together with the last samples.
	ReadSamples(dst []float32) (n int, err error)
	// BufSize is the read size the source works best with, in samples.
	BufSize() int
	Close() error
}

// Lengther is implemented by sources that know their total length up front.
// Frames returns the number of frames per channel, or a value <= 0 when the
// length is unknown until end-of-stream.
type Lengther interface {
	Frames() int64
}

// Clip is a random-access view over decoded audio. Len may grow over time
// for streamed assets; Done reports that no more frames will arrive.
type Clip interface {
	SampleRate() int
	Channels() int
	Len() int
	Done() bool
	// Sample returns the value of channel ch at frame, or 0 when frame is
	// outside [0, Len()).
	Sample(ch, frame int) float32
	// CopyChannel copies channel ch from frame start into dst and returns
	// the number of frames copied, which is short at the end of the clip.
	CopyChannel(dst []float32, ch, start int) int
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(r io.Reader) (Source, error)

func (f DecoderFunc) Decode(r io.Reader) (Source, error) { return f(r) }
