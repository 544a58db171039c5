// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
	"testing"

	"github.com/ik5/stagemix/internal/audiotest"
)

func TestChannelMapper_MonoToStereo(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 1, 100, func(sample int, channel int) float32 {
		return float32(sample) / 100
	})
	m := NewChannelMapper(src, 2)

	if m.Channels() != 2 {
		t.Fatalf("Channels() = %d, want 2", m.Channels())
	}
	if m.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", m.SampleRate())
	}

	buf := make([]float32, 20)
	n, err := m.ReadSamples(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 20 {
		t.Fatalf("ReadSamples() n = %d, want 20", n)
	}

	for f := range 10 {
		want := float32(f) / 100
		if buf[2*f] != want || buf[2*f+1] != want {
			t.Errorf("frame %d = (%v, %v), want (%v, %v)", f, buf[2*f], buf[2*f+1], want, want)
		}
	}
}

func TestChannelMapper_SurroundFoldsToStereo(t *testing.T) {
	t.Parallel()

	// Even channels carry 0.2, odd channels carry 0.6
	src := audiotest.NewMockSource(48000, 6, 50, func(sample int, channel int) float32 {
		if channel%2 == 0 {
			return 0.2
		}
		return 0.6
	})
	m := NewChannelMapper(src, 2)

	buf := make([]float32, 10)
	n, err := m.ReadSamples(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	for f := range n / 2 {
		if math.Abs(float64(buf[2*f]-0.2)) > 1e-6 {
			t.Errorf("frame %d left = %v, want 0.2", f, buf[2*f])
		}
		if math.Abs(float64(buf[2*f+1]-0.6)) > 1e-6 {
			t.Errorf("frame %d right = %v, want 0.6", f, buf[2*f+1])
		}
	}
}

func TestChannelMapper_PassThrough(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(44100, 2, 10)
	if got := MapChannels(src, 2); got != Source(src) {
		t.Error("MapChannels() wrapped a source that already matched")
	}
	if _, ok := MapChannels(audiotest.NewSilentSource(44100, 1, 10), 2).(*ChannelMapper); !ok {
		t.Error("MapChannels() did not wrap a mono source")
	}
}

func TestChannelMapper_InvalidDstSize(t *testing.T) {
	t.Parallel()

	m := NewChannelMapper(audiotest.NewSilentSource(8000, 1, 10), 2)
	if _, err := m.ReadSamples(make([]float32, 3)); err != ErrInvalidDstSize {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestChannelMapper_DrainsToEOF(t *testing.T) {
	t.Parallel()

	m := NewChannelMapper(audiotest.NewConstantSource(8000, 1, 1000, 0.5), 2)
	buf := make([]float32, 256)
	total := 0
	for {
		n, err := m.ReadSamples(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if total != 2000 {
		t.Errorf("total samples = %d, want 2000", total)
	}
}

func BenchmarkChannelMapper_MonoToStereo(b *testing.B) {
	src := audiotest.NewSineSource(44100, 1, 1000000, 440.0)
	m := NewChannelMapper(src, 2)
	buf := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		src.Reset()
		_, _ = m.ReadSamples(buf)
	}
}
