// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/stagemix/audio"
)

const streamBlockFrames = 4096

// Stream is a track that keeps decoding in the background while it is
// played. It implements audio.Clip; Len grows until Done reports true.
type Stream struct {
	locator  string
	rate     int
	channels int

	mtx  sync.RWMutex
	data [][]float32
	done bool
	err  error

	prebuffer int
	ready     chan struct{}
	readyOnce sync.Once
	finished  chan struct{}
	cancel    context.CancelFunc
}

// Stream opens locator and returns once the prebuffer is filled or the
// asset ended. Decoding continues until the asset ends, ctx is cancelled
// or Close is called. A failure before the prebuffer fills is returned;
// later failures are reported by Err.
func (l *Loader) Stream(ctx context.Context, locator string) (*Stream, error) {
	ctx, cancel := context.WithCancel(ctx)

	asset, err := l.open(ctx, locator, false)
	if err != nil {
		cancel()
		l.log.Warn("track stream failed", zap.String("locator", locator), zap.Error(err))
		return nil, err
	}

	s := &Stream{
		locator:   locator,
		rate:      l.rate,
		channels:  l.channels,
		data:      make([][]float32, l.channels),
		prebuffer: int(l.prebuffer.Seconds() * float64(l.rate)),
		ready:     make(chan struct{}),
		finished:  make(chan struct{}),
		cancel:    cancel,
	}

	go s.fill(ctx, asset, l.normalize(asset), l.log)

	select {
	case <-s.ready:
	case <-ctx.Done():
		s.Close()
		return nil, loadError(locator, ctx.Err())
	}

	if err := s.Err(); err != nil {
		s.Close()
		l.log.Warn("track stream failed", zap.String("locator", locator), zap.Error(err))
		return nil, err
	}

	l.log.Debug("track streaming",
		zap.String("locator", locator),
		zap.String("format", asset.Format),
		zap.Int("buffered", s.Len()),
	)

	return s, nil
}

func (s *Stream) fill(ctx context.Context, asset *Asset, src audio.Source, log *zap.Logger) {
	defer close(s.finished)
	defer asset.Close()

	started := time.Now()
	buf := make([]float32, streamBlockFrames*s.channels)
	for {
		if err := ctx.Err(); err != nil {
			s.finish(loadError(s.locator, err))
			return
		}

		n, err := src.ReadSamples(buf)
		s.append(buf[:n-n%s.channels])

		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			break
		}
		if err != nil {
			s.finish(asset.classify(err))
			log.Warn("track stream interrupted", zap.String("locator", s.locator), zap.Error(err))
			return
		}
	}

	if s.Len() == 0 {
		s.finish(decodeError(s.locator, errors.New("no audio frames")))
		return
	}

	s.finish(nil)
	log.Debug("track stream complete",
		zap.String("locator", s.locator),
		zap.Int("frames", s.Len()),
		zap.Duration("elapsed", time.Since(started)),
	)
}

func (s *Stream) append(samples []float32) {
	frames := len(samples) / s.channels
	if frames == 0 {
		return
	}

	s.mtx.Lock()
	for c := range s.channels {
		for f := range frames {
			s.data[c] = append(s.data[c], samples[f*s.channels+c])
		}
	}
	reached := len(s.data[0]) >= s.prebuffer
	s.mtx.Unlock()

	if reached {
		s.readyOnce.Do(func() { close(s.ready) })
	}
}

func (s *Stream) finish(err error) {
	s.mtx.Lock()
	s.done = true
	s.err = err
	s.mtx.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *Stream) Locator() string { return s.locator }
func (s *Stream) SampleRate() int { return s.rate }
func (s *Stream) Channels() int   { return s.channels }

func (s *Stream) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.data[0])
}

func (s *Stream) Done() bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.done
}

// Err reports why decoding stopped early, if it did.
func (s *Stream) Err() error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.err
}

func (s *Stream) Sample(ch, frame int) float32 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if ch < 0 || ch >= len(s.data) {
		return 0
	}
	data := s.data[ch]
	if frame < 0 || frame >= len(data) {
		return 0
	}

	return data[frame]
}

// CopyChannel copies buffered frames under a single read lock.
func (s *Stream) CopyChannel(dst []float32, ch, start int) int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if ch < 0 || ch >= len(s.data) || start < 0 || start >= len(s.data[ch]) {
		return 0
	}

	return copy(dst, s.data[ch][start:])
}

// Seconds is the buffered length; it is the full length once Done.
func (s *Stream) Seconds() float64 {
	return float64(s.Len()) / float64(s.rate)
}

// Wait blocks until decoding stops or ctx is done.
func (s *Stream) Wait(ctx context.Context) error {
	select {
	case <-s.finished:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops decoding and waits for the background reader to exit.
func (s *Stream) Close() error {
	s.cancel()
	<-s.finished

	return nil
}
