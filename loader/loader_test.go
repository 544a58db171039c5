// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ik5/stagemix/internal/audiotest"
)

// memFetcher serves assets from memory and counts fetches.
type memFetcher struct {
	assets map[string][]byte
	calls  atomic.Int32
}

func (m *memFetcher) Fetch(_ context.Context, locator string) (io.ReadCloser, error) {
	m.calls.Add(1)
	data, ok := m.assets[locator]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// failingReader yields a prefix of data then a transport error.
type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func (f *failingReader) Close() error { return nil }

type mapCache struct {
	mtx  sync.Mutex
	data map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.data[key] = data
	return nil
}

func newMemLoader(assets map[string][]byte) (*Loader, *memFetcher) {
	mem := &memFetcher{assets: assets}
	l := New(Options{
		SampleRate: 44100,
		Channels:   2,
		Fetchers:   map[string]Fetcher{"mem": mem},
	})
	return l, mem
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestLoad_NormalizesChannels(t *testing.T) {
	t.Parallel()

	l, _ := newMemLoader(map[string][]byte{
		"mem://mono.wav": audiotest.ConstantWAV16(44100, 1, 4410, 0.5),
	})

	buf, err := l.Load(context.Background(), "mem://mono.wav")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if buf.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", buf.Channels())
	}
	if buf.Frames() != 4410 {
		t.Errorf("Frames() = %d, want 4410", buf.Frames())
	}
	if !approx(buf.Seconds(), 0.1, 1e-9) {
		t.Errorf("Seconds() = %v, want 0.1", buf.Seconds())
	}
	for ch := range 2 {
		if v := buf.Sample(ch, 100); !approx(float64(v), 0.5, 1e-3) {
			t.Errorf("Sample(%d, 100) = %v, want 0.5", ch, v)
		}
	}
}

func TestLoad_Resamples(t *testing.T) {
	t.Parallel()

	l, _ := newMemLoader(map[string][]byte{
		"mem://low.wav": audiotest.ConstantWAV16(22050, 2, 22050, 0.25),
	})

	buf, err := l.Load(context.Background(), "mem://low.wav")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if buf.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", buf.SampleRate())
	}
	if !approx(buf.Seconds(), 1, 0.01) {
		t.Errorf("Seconds() = %v, want about 1", buf.Seconds())
	}
	if v := buf.Sample(0, buf.Frames()/2); !approx(float64(v), 0.25, 1e-2) {
		t.Errorf("mid sample = %v, want about 0.25", v)
	}
}

func TestLoad_SniffsWithoutExtension(t *testing.T) {
	t.Parallel()

	l, _ := newMemLoader(map[string][]byte{
		"mem://stems/42": audiotest.ConstantWAV16(44100, 2, 100, 0.1),
	})

	buf, err := l.Load(context.Background(), "mem://stems/42")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if buf.Frames() != 100 {
		t.Errorf("Frames() = %d, want 100", buf.Frames())
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	wav := audiotest.ConstantWAV16(44100, 2, 1000, 0.1)
	reset := errors.New("connection reset")

	tests := []struct {
		name    string
		locator string
		fetcher Fetcher
		kind    error
		cause   error
	}{
		{
			name:    "missing asset",
			locator: "mem://missing.wav",
			fetcher: &memFetcher{},
			kind:    ErrLoad,
			cause:   os.ErrNotExist,
		},
		{
			name:    "unknown scheme",
			locator: "ftp://host/a.wav",
			fetcher: &memFetcher{},
			kind:    ErrLoad,
			cause:   ErrNoFetcher,
		},
		{
			name:    "unknown format",
			locator: "mem://noise",
			fetcher: &memFetcher{assets: map[string][]byte{"mem://noise": []byte("plain text, not audio")}},
			kind:    ErrDecode,
			cause:   ErrUnknownFormat,
		},
		{
			name:    "corrupt wav",
			locator: "mem://bad.wav",
			fetcher: &memFetcher{assets: map[string][]byte{"mem://bad.wav": []byte("RIFF....WAVEjunkjunkjunk")}},
			kind:    ErrDecode,
		},
		{
			name:    "empty wav",
			locator: "mem://empty.wav",
			fetcher: &memFetcher{assets: map[string][]byte{"mem://empty.wav": audiotest.ConstantWAV16(44100, 2, 0, 0)}},
			kind:    ErrDecode,
		},
		{
			name:    "read failure",
			locator: "mem://cut.wav",
			fetcher: FetcherFunc(func(context.Context, string) (io.ReadCloser, error) {
				return &failingReader{data: wav[:200], err: reset}, nil
			}),
			kind:  ErrLoad,
			cause: reset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := New(Options{Fetchers: map[string]Fetcher{"mem": tt.fetcher}})
			_, err := l.Load(context.Background(), tt.locator)
			if err == nil {
				t.Fatal("Load() error = nil")
			}

			var te *TrackError
			if !errors.As(err, &te) {
				t.Fatalf("Load() error = %T, want *TrackError", err)
			}
			if te.Locator != tt.locator {
				t.Errorf("Locator = %q, want %q", te.Locator, tt.locator)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("Load() error = %v, want kind %v", err, tt.kind)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("Load() error = %v, want cause %v", err, tt.cause)
			}
		})
	}
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.wav")
	if err := os.WriteFile(path, audiotest.ConstantWAV16(44100, 2, 100, 0), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).Load(ctx, path)
	if !errors.Is(err, ErrLoad) || !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want ErrLoad wrapping context.Canceled", err)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "kick.wav"), audiotest.ConstantWAV16(44100, 2, 500, 0.2), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("relative to root", func(t *testing.T) {
		t.Parallel()

		l := New(Options{Fetchers: map[string]Fetcher{"file": FileFetcher{Root: dir}}})
		buf, err := l.Load(context.Background(), "kick.wav")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if buf.Frames() != 500 {
			t.Errorf("Frames() = %d, want 500", buf.Frames())
		}
	})

	t.Run("file url", func(t *testing.T) {
		t.Parallel()

		buf, err := New(Options{}).Load(context.Background(), "file://"+filepath.Join(dir, "kick.wav"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if buf.Frames() != 500 {
			t.Errorf("Frames() = %d, want 500", buf.Frames())
		}
	})
}

func TestLoad_HTTP(t *testing.T) {
	t.Parallel()

	wav := audiotest.ConstantWAV16(44100, 2, 300, 0.3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stems/bass.wav" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wav)
	}))
	t.Cleanup(srv.Close)

	l := New(Options{Fetchers: map[string]Fetcher{"http": HTTPFetcher{Client: srv.Client()}}})

	buf, err := l.Load(context.Background(), srv.URL+"/stems/bass.wav?sig=abc")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if buf.Frames() != 300 {
		t.Errorf("Frames() = %d, want 300", buf.Frames())
	}

	_, err = l.Load(context.Background(), srv.URL+"/stems/missing.wav")
	if !errors.Is(err, ErrLoad) || !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("Load() error = %v, want ErrLoad wrapping ErrHTTPStatus", err)
	}
}

func TestLoad_Cache(t *testing.T) {
	t.Parallel()

	mem := &memFetcher{assets: map[string][]byte{
		"mem://a.wav": audiotest.ConstantWAV16(44100, 2, 100, 0.1),
	}}
	cache := &mapCache{data: map[string][]byte{}}
	l := New(Options{Fetchers: map[string]Fetcher{"mem": mem}, Cache: cache})

	for range 3 {
		if _, err := l.Load(context.Background(), "mem://a.wav"); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
	}

	if got := mem.calls.Load(); got != 1 {
		t.Errorf("fetches = %d, want 1", got)
	}
	if _, ok := cache.data["mem://a.wav"]; !ok {
		t.Error("asset was not cached")
	}
}

func TestOpen_ReportsFormat(t *testing.T) {
	t.Parallel()

	l, _ := newMemLoader(map[string][]byte{
		"mem://x.WAVE": audiotest.ConstantWAV16(48000, 1, 480, 0),
	})

	asset, err := l.Open(context.Background(), "mem://x.WAVE")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer asset.Close()

	if asset.Format != "wav" {
		t.Errorf("Format = %q, want wav", asset.Format)
	}
	if asset.SampleRate() != 48000 || asset.Channels() != 1 {
		t.Errorf("asset = %d Hz x %d, want raw 48000 Hz x 1", asset.SampleRate(), asset.Channels())
	}
}

func TestFormatFromLocator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		locator string
		want    string
	}{
		{"song/vox.wav", "wav"},
		{"song/VOX.WAV", "wav"},
		{"take.aif", "aiff"},
		{"take.aifc", "aiff"},
		{"https://cdn.example.com/a/b.mp3?token=1", "mp3"},
		{"s3://bucket/drums.ogg", "ogg"},
		{"s3://bucket/drums.oga", "ogg"},
		{`C:\stems\gtr.wav`, "wav"},
		{"mem://noext", ""},
		{"stems/keys.flac", ""},
	}

	reg := DefaultRegistry()

	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			t.Parallel()

			if got := formatFromLocator(reg, tt.locator); got != tt.want {
				t.Errorf("formatFromLocator(%q) = %q, want %q", tt.locator, got, tt.want)
			}
		})
	}
}

func TestScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		locator string
		want    string
	}{
		{"/abs/path.wav", "file"},
		{"rel/path.wav", "file"},
		{"file:///abs.wav", "file"},
		{"HTTPS://host/a.wav", "https"},
		{"s3://bucket/key", "s3"},
		{`C:\x.wav`, "file"},
	}

	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			t.Parallel()

			if got := scheme(tt.locator); got != tt.want {
				t.Errorf("scheme(%q) = %q, want %q", tt.locator, got, tt.want)
			}
		})
	}
}

func TestSchemes(t *testing.T) {
	t.Parallel()

	l := New(Options{})
	l.Register("S3", &memFetcher{})

	got := l.Schemes()
	want := []string{"file", "http", "https", "s3"}
	if len(got) != len(want) {
		t.Fatalf("Schemes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Schemes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func BenchmarkLoad(b *testing.B) {
	l, _ := newMemLoader(map[string][]byte{
		"mem://a.wav": audiotest.ConstantWAV16(44100, 2, 44100, 0.5),
	})

	b.ReportAllocs()
	for b.Loop() {
		if _, err := l.Load(context.Background(), "mem://a.wav"); err != nil {
			b.Fatal(err)
		}
	}
}
