// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/stagemix/internal/audiotest"
)

// drain reads src to the end with the given block size.
func drain(t *testing.T, src Source, block int) []float32 {
	t.Helper()

	buf := make([]float32, block)
	var out []float32
	for range 1_000_000 {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	t.Fatal("source never reached EOF")
	return nil
}

func TestResample_SameRatePassesThrough(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(8000, 1, 10, 0.5)
	if got := Resample(src, 8000); got != Source(src) {
		t.Errorf("Resample() at the same rate = %T, want the source itself", got)
	}
	if _, ok := Resample(src, 16000).(*Resampler); !ok {
		t.Error("Resample() at a new rate did not return a *Resampler")
	}
}

func TestResampler_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		srcRate, dstRate int
		channels        int
		frames          int
		want            int
	}{
		{"down 44.1k to 8k", 44100, 8000, 2, 44100, 8000},
		{"up 8k to 16k", 8000, 16000, 1, 8000, 16000},
		{"up 22.05k to 44.1k stereo", 22050, 44100, 2, 2205, 4410},
		{"down 48k to 44.1k", 48000, 44100, 2, 48000, 44100},
		{"single frame upsampled", 8000, 16000, 1, 1, 2},
		{"uneven ratio", 44100, 48000, 1, 100, 109},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewResampler(audiotest.NewSineSource(tt.srcRate, tt.channels, tt.frames, 440), tt.dstRate)
			if got := r.Frames(); got != int64(tt.want) {
				t.Errorf("Frames() = %d, want %d", got, tt.want)
			}

			out := drain(t, r, 999*tt.channels)
			if got := len(out) / tt.channels; got != tt.want {
				t.Errorf("rendered %d frames, want %d", got, tt.want)
			}
		})
	}
}

func TestResampler_PreservesConstant(t *testing.T) {
	t.Parallel()

	for _, dst := range []int{8000, 22050, 48000, 96000} {
		r := NewResampler(audiotest.NewConstantSource(44100, 2, 4410, 0.5), dst)
		for i, v := range drain(t, r, 512) {
			if math.Abs(float64(v-0.5)) > 1e-5 {
				t.Fatalf("dst %d: sample %d = %v, want 0.5", dst, i, v)
			}
		}
	}
}

func TestResampler_KeepsChannelsApart(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(16000, 2, 1600, func(_ int, ch int) float32 {
		if ch == 0 {
			return 0.25
		}
		return -0.75
	})

	out := drain(t, NewResampler(src, 44100), 882)
	for f := 0; f < len(out)/2; f++ {
		if math.Abs(float64(out[2*f]-0.25)) > 1e-5 || math.Abs(float64(out[2*f+1]+0.75)) > 1e-5 {
			t.Fatalf("frame %d = (%v, %v), want (0.25, -0.75)", f, out[2*f], out[2*f+1])
		}
	}
}

func TestResampler_UpsampleInterpolates(t *testing.T) {
	t.Parallel()

	// A ramp stays a ramp: Catmull-Rom reproduces linear data exactly away
	// from the edges.
	src := audiotest.NewMockSource(1000, 1, 100, func(i, _ int) float32 { return float32(i) / 100 })
	out := drain(t, NewResampler(src, 2000), 64)

	for i := 4; i < 190; i++ {
		want := float32(i) / 200
		if math.Abs(float64(out[i]-want)) > 1e-4 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func TestResampler_DownsampleAttenuatesAboveNyquist(t *testing.T) {
	t.Parallel()

	// 15 kHz cannot be represented at 8 kHz; the low-pass must knock it down.
	src := audiotest.NewSineSource(44100, 1, 44100, 15000)
	out := drain(t, NewResampler(src, 8000), 1024)

	var sum float64
	for _, v := range out {
		sum += float64(v) * float64(v)
	}
	rms := math.Sqrt(sum / float64(len(out)))
	if rms > 0.5 {
		t.Errorf("rms after downsampling = %v, want well under the 0.707 input", rms)
	}
}

func TestResampler_Errors(t *testing.T) {
	t.Parallel()

	t.Run("odd dst", func(t *testing.T) {
		t.Parallel()

		r := NewResampler(audiotest.NewSilentSource(8000, 2, 100), 16000)
		if _, err := r.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
			t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
		}
	})

	t.Run("bad rate", func(t *testing.T) {
		t.Parallel()

		r := NewResampler(audiotest.NewSilentSource(8000, 1, 100), 0)
		if _, err := r.ReadSamples(make([]float32, 4)); !errors.Is(err, ErrInvalidSampleRate) {
			t.Errorf("ReadSamples() error = %v, want ErrInvalidSampleRate", err)
		}
	})

	t.Run("empty source", func(t *testing.T) {
		t.Parallel()

		r := NewResampler(audiotest.NewSilentSource(8000, 1, 0), 16000)
		if n, err := r.ReadSamples(make([]float32, 4)); n != 0 || err != io.EOF {
			t.Errorf("ReadSamples() = (%d, %v), want (0, EOF)", n, err)
		}
	})

	t.Run("source failure after data", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		r := NewResampler(&failAfter{Source: audiotest.NewConstantSource(8000, 1, 100, 0.5), limit: 50, err: boom}, 16000)

		buf := make([]float32, 1000)
		total := 0
		var err error
		for err == nil {
			var n int
			n, err = r.ReadSamples(buf)
			total += n
		}
		if !errors.Is(err, boom) {
			t.Errorf("ReadSamples() error = %v, want boom", err)
		}
		if total != 100 {
			t.Errorf("emitted %d samples before the error, want 100", total)
		}
	})
}

// failAfter passes limit samples through then fails with err.
type failAfter struct {
	Source
	limit int
	read  int
	err   error
}

func (f *failAfter) ReadSamples(dst []float32) (int, error) {
	if f.read >= f.limit {
		return 0, f.err
	}
	dst = dst[:min(len(dst), f.limit-f.read)]
	n, _ := f.Source.ReadSamples(dst)
	f.read += n
	return n, nil
}

func BenchmarkResampler_44kTo48k(b *testing.B) {
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		r := NewResampler(audiotest.NewSineSource(44100, 2, 44100, 440), 48000)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
