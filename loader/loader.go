// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/stagemix/audio"
)

// Options configures a Loader. Zero values fall back to stereo output at
// 44.1kHz, the default registry and file plus HTTP fetchers.
type Options struct {
	SampleRate int
	Channels   int
	// Prebuffer is how much audio Stream buffers before returning.
	Prebuffer time.Duration
	Registry  *audio.Registry
	// Fetchers maps a locator scheme ("file", "http", "s3", ...) to the
	// fetcher serving it.
	Fetchers map[string]Fetcher
	Cache    Cache
	Logger   *zap.Logger
}

// Loader resolves track locators into audio normalized to one sample rate
// and channel count.
type Loader struct {
	rate      int
	channels  int
	prebuffer time.Duration
	registry  *audio.Registry
	cache     Cache
	log       *zap.Logger

	mtx      sync.RWMutex
	fetchers map[string]Fetcher
}

func New(opts Options) *Loader {
	l := &Loader{
		rate:      opts.SampleRate,
		channels:  opts.Channels,
		prebuffer: opts.Prebuffer,
		registry:  opts.Registry,
		cache:     opts.Cache,
		log:       opts.Logger,
		fetchers: map[string]Fetcher{
			"file":  FileFetcher{},
			"http":  HTTPFetcher{},
			"https": HTTPFetcher{},
		},
	}
	if l.rate <= 0 {
		l.rate = 44100
	}
	if l.channels <= 0 {
		l.channels = 2
	}
	if l.registry == nil {
		l.registry = DefaultRegistry()
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	for scheme, f := range opts.Fetchers {
		l.fetchers[strings.ToLower(scheme)] = f
	}

	return l
}

// Register routes locators with the given scheme to f.
func (l *Loader) Register(scheme string, f Fetcher) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.fetchers[strings.ToLower(scheme)] = f
}

// Schemes lists the locator schemes the loader can fetch.
func (l *Loader) Schemes() []string {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return slices.Sorted(maps.Keys(l.fetchers))
}

func (l *Loader) SampleRate() int { return l.rate }
func (l *Loader) Channels() int   { return l.channels }

// Asset is a decoded but not yet normalized track.
type Asset struct {
	audio.Source

	Locator string
	Format  string

	body    io.Closer
	tracker *trackingReader
}

// Close releases the decoder and the underlying fetched stream.
func (a *Asset) Close() error {
	err := a.Source.Close()
	if cerr := a.body.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// classify turns an error raised while reading the asset into a
// *TrackError, blaming the transport when it reported a failure.
func (a *Asset) classify(err error) error {
	if a.tracker.err != nil {
		return loadError(a.Locator, a.tracker.err)
	}
	return decodeError(a.Locator, err)
}

// Open fetches and decodes locator without resampling or channel mapping.
func (l *Loader) Open(ctx context.Context, locator string) (*Asset, error) {
	return l.open(ctx, locator, true)
}

func (l *Loader) open(ctx context.Context, locator string, fill bool) (*Asset, error) {
	body, err := l.fetch(ctx, locator, fill)
	if err != nil {
		return nil, loadError(locator, err)
	}

	r, tracker := track(ctx, body)
	format, dec, r, err := resolveFormat(l.registry, locator, r)
	if err != nil {
		body.Close()
		if tracker.err != nil {
			return nil, loadError(locator, tracker.err)
		}
		return nil, decodeError(locator, err)
	}

	src, err := dec.Decode(r)
	if err != nil {
		body.Close()
		if tracker.err != nil {
			return nil, loadError(locator, tracker.err)
		}
		return nil, decodeError(locator, err)
	}

	return &Asset{
		Source:  src,
		Locator: locator,
		Format:  format,
		body:    body,
		tracker: tracker,
	}, nil
}

func (l *Loader) fetcher(locator string) (Fetcher, error) {
	s := scheme(locator)

	l.mtx.RLock()
	defer l.mtx.RUnlock()

	f, ok := l.fetchers[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoFetcher, s)
	}

	return f, nil
}

// fetch returns the asset bytes, serving them from the cache when possible.
// With fill set a cache miss is read fully and stored.
func (l *Loader) fetch(ctx context.Context, locator string, fill bool) (io.ReadCloser, error) {
	f, err := l.fetcher(locator)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		data, ok, err := l.cache.Get(ctx, locator)
		switch {
		case err != nil:
			l.log.Warn("cache lookup failed", zap.String("locator", locator), zap.Error(err))
		case ok:
			l.log.Debug("cache hit", zap.String("locator", locator), zap.Int("bytes", len(data)))
			return newBytesReadCloser(data), nil
		}
	}

	rc, err := f.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	if l.cache == nil || !fill {
		return rc, nil
	}

	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", locator, err)
	}
	if err := l.cache.Set(ctx, locator, data); err != nil {
		l.log.Warn("cache store failed", zap.String("locator", locator), zap.Error(err))
	}

	return newBytesReadCloser(data), nil
}

// normalize converts src to the loader's sample rate and channel count.
func (l *Loader) normalize(src audio.Source) audio.Source {
	return audio.MapChannels(audio.Resample(src, l.rate), l.channels)
}

// Load fully decodes locator into memory.
func (l *Loader) Load(ctx context.Context, locator string) (*audio.Buffer, error) {
	started := time.Now()

	asset, err := l.open(ctx, locator, true)
	if err != nil {
		l.log.Warn("track load failed", zap.String("locator", locator), zap.Error(err))
		return nil, err
	}
	defer asset.Close()

	buf, err := audio.ReadAll(l.normalize(asset))
	if err != nil {
		err = asset.classify(err)
		l.log.Warn("track decode failed", zap.String("locator", locator), zap.Error(err))
		return nil, err
	}
	if buf.Frames() == 0 {
		return nil, decodeError(locator, errors.New("no audio frames"))
	}

	l.log.Debug("track loaded",
		zap.String("locator", locator),
		zap.String("format", asset.Format),
		zap.Int("frames", buf.Frames()),
		zap.Duration("duration", buf.Duration()),
		zap.Duration("elapsed", time.Since(started)),
	)

	return buf, nil
}
