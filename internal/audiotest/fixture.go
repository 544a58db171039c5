// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// WAV16 renders frames of waveform as a 16-bit PCM WAV file in memory.
// It is the fixture loader and engine tests serve through fake fetchers.
func WAV16(sampleRate, channels, frames int, waveform func(frame, channel int) float32) []byte {
	dataSize := frames * channels * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataSize))

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels*2))
	_ = binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataSize))

	sample := make([]byte, 2)
	for f := range frames {
		for c := range channels {
			v := waveform(f, c)
			v = max(-1, min(1, v))
			binary.LittleEndian.PutUint16(sample, uint16(int16(math.Round(float64(v)*32767))))
			buf.Write(sample)
		}
	}

	return buf.Bytes()
}

// ConstantWAV16 is a WAV16 fixture holding the same value in every sample.
func ConstantWAV16(sampleRate, channels, frames int, value float32) []byte {
	return WAV16(sampleRate, channels, frames, func(int, int) float32 { return value })
}
