// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// pcmHeader is the canonical 44-byte RIFF/WAVE header for integer PCM.
// binary.Write lays it out without padding.
type pcmHeader struct {
	RiffID     [4]byte
	RiffSize   uint32
	WaveID     [4]byte
	FmtID      [4]byte
	FmtSize    uint32
	Format     uint16
	Channels   uint16
	SampleRate uint32
	ByteRate   uint32
	BlockAlign uint16
	Bits       uint16
	DataID     [4]byte
	DataSize   uint32
}

const pcmHeaderSize = 44

func newPCM16Header(sampleRate, channels, samples int) pcmHeader {
	dataSize := uint32(samples * 2)
	blockAlign := uint16(channels * 2)

	return pcmHeader{
		RiffID:     [4]byte{'R', 'I', 'F', 'F'},
		RiffSize:   pcmHeaderSize - 8 + dataSize,
		WaveID:     [4]byte{'W', 'A', 'V', 'E'},
		FmtID:      [4]byte{'f', 'm', 't', ' '},
		FmtSize:    16,
		Format:     1,
		Channels:   uint16(channels),
		SampleRate: uint32(sampleRate),
		ByteRate:   uint32(sampleRate) * uint32(blockAlign),
		BlockAlign: blockAlign,
		Bits:       16,
		DataID:     [4]byte{'d', 'a', 't', 'a'},
		DataSize:   dataSize,
	}
}

// WriteWAV16 writes a 16-bit PCM WAV at sampleRate. samples must be interleaved
// int16 PCM holding a whole number of frames for the given channel count.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels <= 0 || channels > math.MaxUint16 || len(samples)%channels != 0 {
		return ErrInvalidChannels
	}
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedWavLayout, sampleRate)
	}
	if uint64(len(samples))*2 > math.MaxUint32-pcmHeaderSize {
		return ErrTooLong
	}

	bw := bufio.NewWriterSize(w, 16<<10)

	h := newPCM16Header(sampleRate, channels, len(samples))
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("%w", err)
	}

	var b [2]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint16(b[:], uint16(s))
		if _, err := bw.Write(b[:]); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
