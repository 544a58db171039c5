// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestWriteWAV16_Header(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
		samples  int
	}{
		{"mono 8k", 8000, 1, 5},
		{"stereo 44.1k", 44100, 2, 200},
		{"stereo 48k empty", 48000, 2, 0},
		{"six channel", 96000, 6, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := new(bytes.Buffer)
			if err := WriteWAV16(buf, tt.rate, tt.channels, make([]int16, tt.samples)); err != nil {
				t.Fatalf("WriteWAV16() error = %v", err)
			}
			data := buf.Bytes()

			if want := 44 + tt.samples*2; len(data) != want {
				t.Fatalf("len = %d, want %d", len(data), want)
			}

			le := binary.LittleEndian
			checks := []struct {
				field string
				got   any
				want  any
			}{
				{"RIFF", string(data[0:4]), "RIFF"},
				{"riff size", le.Uint32(data[4:8]), uint32(36 + tt.samples*2)},
				{"WAVE", string(data[8:12]), "WAVE"},
				{"fmt", string(data[12:16]), "fmt "},
				{"fmt size", le.Uint32(data[16:20]), uint32(16)},
				{"format", le.Uint16(data[20:22]), uint16(1)},
				{"channels", le.Uint16(data[22:24]), uint16(tt.channels)},
				{"rate", le.Uint32(data[24:28]), uint32(tt.rate)},
				{"byte rate", le.Uint32(data[28:32]), uint32(tt.rate * tt.channels * 2)},
				{"block align", le.Uint16(data[32:34]), uint16(tt.channels * 2)},
				{"bits", le.Uint16(data[34:36]), uint16(16)},
				{"data", string(data[36:40]), "data"},
				{"data size", le.Uint32(data[40:44]), uint32(tt.samples * 2)},
			}
			for _, c := range checks {
				if c.got != c.want {
					t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestWriteWAV16_SamplesLittleEndian(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 8000, 2, []int16{0x1234, -2, 32767, -32768}); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	want := []byte{0x34, 0x12, 0xFE, 0xFF, 0xFF, 0x7F, 0x00, 0x80}
	if got := buf.Bytes()[44:]; !bytes.Equal(got, want) {
		t.Errorf("data = % x, want % x", got, want)
	}
}

func TestWriteWAV16_RoundTrip(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 2*3000)
	for i := range samples {
		samples[i] = int16((i*37)%20000 - 10000)
	}

	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 22050, 2, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	src, err := Decoder{}.Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 22050 || src.Channels() != 2 {
		t.Fatalf("decoded %d Hz x%d, want 22050 Hz x2", src.SampleRate(), src.Channels())
	}

	got := make([]float32, 0, len(samples))
	chunk := make([]float32, 1000)
	for {
		n, err := src.ReadSamples(chunk)
		got = append(got, chunk[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(got) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		if want := float32(s) / 32768; got[i] != want {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestWriteWAV16_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
		samples  []int16
		want     error
	}{
		{"zero channels", 8000, 0, []int16{1}, ErrInvalidChannels},
		{"partial frame", 8000, 2, []int16{1, 2, 3}, ErrInvalidChannels},
		{"zero rate", 0, 1, []int16{1}, ErrUnsupportedWavLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := WriteWAV16(io.Discard, tt.rate, tt.channels, tt.samples); !errors.Is(err, tt.want) {
				t.Errorf("WriteWAV16() error = %v, want %v", err, tt.want)
			}
		})
	}
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriteWAV16_WriterFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	if err := WriteWAV16(failingWriter{boom}, 8000, 1, make([]int16, 100)); !errors.Is(err, boom) {
		t.Errorf("WriteWAV16() error = %v, want disk full", err)
	}
}

func BenchmarkWriteWAV16(b *testing.B) {
	samples := make([]int16, 44100*2)

	b.ReportAllocs()
	for b.Loop() {
		_ = WriteWAV16(io.Discard, 44100, 2, samples)
	}
}
