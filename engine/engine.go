// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/stagemix/audio"
	"github.com/ik5/stagemix/clock"
	"github.com/ik5/stagemix/loader"
	"github.com/ik5/stagemix/meter"
	"github.com/ik5/stagemix/mixer"
	"github.com/ik5/stagemix/pitch"
)

// track is the engine's record of one loaded stem.
type track struct {
	desc     TrackDescriptor
	state    LoadState
	err      error
	stream   *loader.Stream
	duration float64
	strip    *mixer.Strip
	meter    *meter.Stereo
}

// session is one loaded song.
type session struct {
	id     uuid.UUID
	pitch  int
	tracks []*track
	byID   map[string]*track
	graph  *mixer.Graph
	frames int

	priority bool // priority tracks still loading
	cancel   context.CancelFunc
	done     chan struct{}
}

func (s *session) settled() int {
	n := 0
	for _, t := range s.tracks {
		if t.state == Ready || t.state == Failed {
			n++
		}
	}
	return n
}

// draining reports whether some track may still add audio.
func (s *session) draining() bool {
	for _, t := range s.tracks {
		if t.state == Loading || (t.stream != nil && !t.stream.Done()) {
			return true
		}
	}
	return false
}

// Engine plays one song at a time: it owns the track table, the mixer
// graph, the transport and the meters. All methods are safe for concurrent
// use; state is only changed by the engine's own methods and its ticker.
type Engine struct {
	opts   Options
	out    Output
	log    *zap.Logger
	loader TrackLoader
	clock  clock.Clock

	mtx          sync.Mutex
	song         *session
	transport    *clock.Transport
	cursor       int64 // next frame Read or Render produces
	masterVolume float64
	master       *meter.Stereo
	scratch      []float32
	disposed     bool

	stateListeners registry[Snapshot]
	endListeners   registry[string]

	quit chan struct{}
	wg   sync.WaitGroup
}

// New creates an engine rendering to out. A nil out behaves as NullOutput
// and a nil log discards everything.
func New(opts Options, out Output, log *zap.Logger) *Engine {
	opts = opts.withDefaults()
	if out == nil {
		out = NullOutput{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Loader == nil {
		opts.Loader = loader.New(loader.Options{
			SampleRate: opts.SampleRate,
			Channels:   2,
			Logger:     log.Named("loader"),
		})
	}

	e := &Engine{
		opts:         opts,
		out:          out,
		log:          log,
		loader:       opts.Loader,
		clock:        opts.Clock,
		transport:    clock.NewTransport(opts.Clock),
		masterVolume: 100,
		master:       meter.NewStereo(opts.Ballistics),
		quit:         make(chan struct{}),
	}

	if opts.TickInterval > 0 {
		e.wg.Add(1)
		go e.run(opts.TickInterval)
	}

	return e
}

func (e *Engine) run(interval time.Duration) {
	defer e.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.Tick()
		case <-e.quit:
			return
		}
	}
}

func (e *Engine) SampleRate() int { return e.opts.SampleRate }

// LoadTracks replaces the current song. It validates every descriptor,
// loads the first PriorityTracks tracks and returns once they are Ready or
// Failed; the rest load in the background. Track failures do not fail the
// call, they show up as Failed tracks in the state. If ctx ends before the
// priority tracks settle, LoadTracks returns its error and loading goes on.
func (e *Engine) LoadTracks(ctx context.Context, descs []TrackDescriptor, semitones int) error {
	graph := mixer.NewGraph()
	s := &session{
		id:       uuid.New(),
		pitch:    semitones,
		byID:     make(map[string]*track, len(descs)),
		graph:    graph,
		priority: true,
		done:     make(chan struct{}),
	}

	for _, d := range descs {
		if err := d.validate(); err != nil {
			return err
		}
		strip := &mixer.Strip{
			ID:      d.ID,
			Volume:  d.Volume,
			Balance: d.Balance,
			Muted:   d.Muted,
			Solo:    d.Solo,
			Regions: d.MuteRegions,
		}
		if err := graph.Add(strip); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTrack, err)
		}

		t := &track{
			desc:  d,
			state: Loading,
			strip: strip,
			meter: meter.NewStereo(e.opts.Ballistics),
		}
		s.tracks = append(s.tracks, t)
		s.byID[d.ID] = t
	}

	loadCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	e.mtx.Lock()
	if e.disposed {
		e.mtx.Unlock()
		cancel()
		return ErrDisposed
	}
	old := e.replaceLocked(s)
	graph.MasterVolume = e.masterVolume
	snap := e.snapshotLocked()
	e.mtx.Unlock()

	e.release(old)
	_ = e.out.Suspend()
	e.publish(snap)

	e.log.Info("loading song",
		zap.String("session", s.id.String()),
		zap.Int("tracks", len(s.tracks)),
		zap.Int("pitch", semitones),
	)

	k := min(e.opts.PriorityTracks, len(s.tracks))
	priority := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for _, t := range s.tracks[:k] {
			wg.Add(1)
			go func() {
				defer wg.Done()
				e.loadTrack(loadCtx, s, t)
			}()
		}
		wg.Wait()
		e.priorityDone(s)
		close(priority)

		g := new(errgroup.Group)
		g.SetLimit(e.opts.LoadConcurrency)
		for _, t := range s.tracks[k:] {
			g.Go(func() error {
				e.loadTrack(loadCtx, s, t)
				return nil
			})
		}
		_ = g.Wait()
		close(s.done)

		e.log.Info("song loaded",
			zap.String("session", s.id.String()),
			zap.Int("tracks", len(s.tracks)),
		)
	}()

	select {
	case <-priority:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for priority tracks: %w", ctx.Err())
	}
}

// replaceLocked installs s as the current song and returns the previous one.
func (e *Engine) replaceLocked(s *session) *session {
	old := e.song
	e.song = s
	e.transport.Stop()
	e.transport.SetDuration(0)
	e.cursor = 0
	e.master.Reset()
	return old
}

// release cancels the loads of a replaced song and closes its streams.
func (e *Engine) release(s *session) {
	if s == nil {
		return
	}
	s.cancel()

	for _, t := range s.tracks {
		if t.stream != nil {
			_ = t.stream.Close()
		}
	}

	e.log.Debug("song released", zap.String("session", s.id.String()))
}

func (e *Engine) priorityDone(s *session) {
	e.mtx.Lock()
	if e.song != s {
		e.mtx.Unlock()
		return
	}
	s.priority = false
	snap := e.snapshotLocked()
	e.mtx.Unlock()

	e.publish(snap)
}

func (e *Engine) strategy(s *session) Strategy {
	if s.pitch != 0 {
		return Eager
	}
	if e.opts.Strategy == Auto {
		return Streaming
	}
	return e.opts.Strategy
}

// loadTrack loads one track and records the outcome, unless the song was
// replaced in the meantime.
func (e *Engine) loadTrack(ctx context.Context, s *session, t *track) {
	started := time.Now()

	var (
		clip   audio.Clip
		stream *loader.Stream
		err    error
	)
	switch e.strategy(s) {
	case Streaming:
		stream, err = e.loader.Stream(ctx, t.desc.Source)
		if err == nil {
			clip = stream
		}
	default:
		var buf *audio.Buffer
		buf, err = e.loader.Load(ctx, t.desc.Source)
		if err == nil {
			buf, err = pitch.Shift(buf, s.pitch)
		}
		if err == nil {
			clip = buf
		}
	}

	e.mtx.Lock()
	if e.song != s || e.disposed {
		e.mtx.Unlock()
		if stream != nil {
			_ = stream.Close()
		}
		return
	}

	if err != nil {
		t.state = Failed
		t.err = err
		e.log.Warn("track failed",
			zap.String("session", s.id.String()),
			zap.String("track", t.desc.ID),
			zap.String("source", t.desc.Source),
			zap.Error(err),
		)
	} else {
		t.state = Ready
		t.stream = stream
		t.strip.Clip = clip
		e.log.Debug("track ready",
			zap.String("session", s.id.String()),
			zap.String("track", t.desc.ID),
			zap.Bool("streaming", stream != nil),
			zap.Duration("elapsed", time.Since(started)),
		)
	}
	e.refreshLocked()
	snap := e.snapshotLocked()
	e.mtx.Unlock()

	e.publish(snap)
}

// refreshLocked folds stream progress into track durations, fails tracks
// whose stream broke and updates the song length. It reports whether
// anything changed.
func (e *Engine) refreshLocked() bool {
	s := e.song
	if s == nil {
		return false
	}

	changed := false
	frames := 0
	for _, t := range s.tracks {
		if t.stream != nil {
			if err := t.stream.Err(); err != nil && t.state != Failed {
				t.state = Failed
				t.err = err
				t.strip.Clip = nil
				changed = true
				e.log.Warn("track stream failed",
					zap.String("track", t.desc.ID),
					zap.Error(err),
				)
			}
		}
		if t.strip.Clip == nil {
			continue
		}

		n := t.strip.Clip.Len()
		frames = max(frames, n)
		if d := float64(n) / float64(e.opts.SampleRate); d != t.duration {
			t.duration = d
			changed = true
		}
	}

	if frames != s.frames {
		s.frames = frames
		e.transport.SetDuration(float64(frames) / float64(e.opts.SampleRate))
		changed = true
	}

	return changed
}

// Wait blocks until every track of the current song finished loading,
// streams included, or ctx is done.
func (e *Engine) Wait(ctx context.Context) error {
	e.mtx.Lock()
	s := e.song
	e.mtx.Unlock()
	if s == nil {
		return nil
	}

	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	for _, t := range s.tracks {
		e.mtx.Lock()
		stream := t.stream
		e.mtx.Unlock()
		if stream == nil {
			continue
		}
		if err := stream.Wait(ctx); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
	}

	e.mtx.Lock()
	changed := e.song == s && e.refreshLocked()
	snap := e.snapshotLocked()
	e.mtx.Unlock()

	if changed {
		e.publish(snap)
	}

	return nil
}

// Unload stops playback and releases the current song.
func (e *Engine) Unload() {
	e.mtx.Lock()
	old := e.replaceLocked(nil)
	snap := e.snapshotLocked()
	e.mtx.Unlock()

	if old == nil {
		return
	}

	e.release(old)
	_ = e.out.Suspend()
	e.publish(snap)
}

// Dispose releases the song, stops the ticker and closes the output. The
// engine is unusable afterwards.
func (e *Engine) Dispose() error {
	e.mtx.Lock()
	if e.disposed {
		e.mtx.Unlock()
		return nil
	}
	e.disposed = true
	old := e.replaceLocked(nil)
	e.mtx.Unlock()

	close(e.quit)
	e.wg.Wait()
	e.release(old)

	e.stateListeners.clear()
	e.endListeners.clear()

	if err := e.out.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}

	return nil
}

// State returns a copy of the current state.
func (e *Engine) State() Snapshot {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		Transport:     e.transport.State(),
		TransportName: e.transport.State().String(),
		Playing:       e.transport.Playing(),
		CurrentTime:   e.transport.Position(),
		Duration:      e.transport.Duration(),
		MasterVolume:  e.masterVolume,
	}

	s := e.song
	if s == nil {
		return snap
	}

	snap.SessionID = s.id.String()
	snap.Pitch = s.pitch
	snap.Tracks = make([]TrackState, len(s.tracks))
	for i, t := range s.tracks {
		// A track without a clip, loading or failed, adds nothing to the mix.
		var gain float64
		if t.strip.Clip != nil {
			gain, _ = s.graph.EffectiveGain(t.desc.ID, snap.CurrentTime)
		}
		ts := TrackState{
			ID:            t.desc.ID,
			Name:          t.desc.Name,
			Source:        t.desc.Source,
			Volume:        t.strip.Volume,
			Balance:       t.strip.Balance,
			Muted:         t.strip.Muted,
			Solo:          t.strip.Solo,
			MuteRegions:   append(mixer.Regions(nil), t.strip.Regions...),
			LoadState:     t.state,
			Err:           t.err,
			Duration:      t.duration,
			Streaming:     t.stream != nil && !t.stream.Done(),
			EffectiveGain: gain,
		}
		if t.err != nil {
			ts.Error = t.err.Error()
		}
		if t.state == Loading {
			snap.Loading = true
		}
		snap.Tracks[i] = ts
	}

	if len(s.tracks) > 0 {
		snap.LoadingProgress = 100 * float64(s.settled()) / float64(len(s.tracks))
	} else {
		snap.LoadingProgress = 100
	}

	return snap
}

func (e *Engine) publish(snap Snapshot) {
	e.stateListeners.emit(snap)
}

// Level returns the meter reading of a track.
func (e *Engine) Level(id string) (Level, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	t, err := e.trackLocked(id)
	if err != nil {
		return Level{}, err
	}

	return levelOf(t.meter), nil
}

// MasterLevel returns the meter reading of the master bus.
func (e *Engine) MasterLevel() Level {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return levelOf(e.master)
}

// Levels returns the readings of every track keyed by id.
func (e *Engine) Levels() map[string]Level {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.song == nil {
		return map[string]Level{}
	}

	out := make(map[string]Level, len(e.song.tracks))
	for _, t := range e.song.tracks {
		out[t.desc.ID] = levelOf(t.meter)
	}
	return out
}

func (e *Engine) trackLocked(id string) (*track, error) {
	if e.song == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, id)
	}
	t, ok := e.song.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, id)
	}
	return t, nil
}
