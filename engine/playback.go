// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/stagemix/clock"
)

// Play starts or resumes playback from the current position. It does
// nothing while the priority tracks are loading, without a song or when
// already playing. It fails with ErrContextUnavailable when the output
// cannot be resumed.
func (e *Engine) Play() error {
	e.mtx.Lock()
	switch {
	case e.disposed:
		e.mtx.Unlock()
		return ErrDisposed
	case e.song == nil || e.song.priority || e.transport.Playing():
		e.mtx.Unlock()
		return nil
	}
	e.mtx.Unlock()

	// The output may pull from the engine while resuming.
	if err := e.out.Resume(e); err != nil {
		e.log.Error("output resume failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}

	e.mtx.Lock()
	if e.song == nil || !e.transport.Play() {
		e.mtx.Unlock()
		return nil
	}
	e.cursor = e.frameAt(e.transport.Position())
	e.song.graph.ClearTaps()
	e.master.Reset()
	snap := e.snapshotLocked()
	e.mtx.Unlock()

	e.log.Debug("play", zap.Float64("position", snap.CurrentTime))
	e.publish(snap)

	return nil
}

// Pause freezes the transport at the current position.
func (e *Engine) Pause() {
	e.mtx.Lock()
	if !e.transport.Pause() {
		e.mtx.Unlock()
		return
	}
	snap := e.snapshotLocked()
	e.mtx.Unlock()

	if err := e.out.Suspend(); err != nil {
		e.log.Warn("output suspend failed", zap.Error(err))
	}
	e.log.Debug("pause", zap.Float64("position", snap.CurrentTime))
	e.publish(snap)
}

// Stop returns to the start of the song and clears the meters.
func (e *Engine) Stop() {
	e.mtx.Lock()
	e.stopLocked()
	snap := e.snapshotLocked()
	e.mtx.Unlock()

	if err := e.out.Suspend(); err != nil {
		e.log.Warn("output suspend failed", zap.Error(err))
	}
	e.publish(snap)
}

func (e *Engine) stopLocked() {
	e.transport.Stop()
	e.cursor = 0
	e.resetMetersLocked()
}

func (e *Engine) resetMetersLocked() {
	e.master.Reset()
	if e.song == nil {
		return
	}
	e.song.graph.ClearTaps()
	for _, t := range e.song.tracks {
		t.meter.Reset()
	}
}

// Seek moves the transport to seconds, clamped to the song length. A
// playing song keeps playing from there.
func (e *Engine) Seek(seconds float64) {
	e.mtx.Lock()
	pos := e.transport.Seek(seconds)
	e.cursor = e.frameAt(pos)
	snap := e.snapshotLocked()
	e.mtx.Unlock()

	e.log.Debug("seek", zap.Float64("requested", seconds), zap.Float64("position", pos))
	e.publish(snap)
}

func (e *Engine) frameAt(seconds float64) int64 {
	return int64(math.Round(seconds * float64(e.opts.SampleRate)))
}

// Tick updates the meters, detects the end of the song and publishes the
// new state. The internal ticker calls it; hosts that disabled the ticker
// call it from their own loop.
func (e *Engine) Tick() {
	e.mtx.Lock()
	if e.disposed || e.song == nil {
		e.mtx.Unlock()
		return
	}

	now := e.clock.Now()
	changed := e.refreshLocked()
	ended := false

	switch {
	case e.transport.Playing():
		e.sampleLevelsLocked(now)
		if e.transport.Ended() && !e.song.draining() {
			e.stopLocked()
			ended = true
		}
		changed = true
	case e.transport.State() == clock.Paused:
		// Let the meters fall back rather than freeze.
		e.decayLevelsLocked(now)
	}

	snap := e.snapshotLocked()
	e.mtx.Unlock()

	if ended {
		if err := e.out.Suspend(); err != nil {
			e.log.Warn("output suspend failed", zap.Error(err))
		}
		e.log.Info("song ended", zap.String("session", snap.SessionID))
		e.endListeners.emit(snap.SessionID)
	}
	if changed {
		e.publish(snap)
	}
}

// sampleLevelsLocked drains the mixer taps into the meters. Muted tracks
// read zero rather than decaying.
func (e *Engine) sampleLevelsLocked(now time.Time) {
	for _, t := range e.song.tracks {
		l, r := t.strip.Tap.Take()
		if t.strip.Muted {
			t.meter.Reset()
			continue
		}
		t.meter.Update(float64(l), float64(r), now)
	}

	l, r := e.song.graph.MasterTap.Take()
	e.master.Update(float64(l), float64(r), now)
}

func (e *Engine) decayLevelsLocked(now time.Time) {
	for _, t := range e.song.tracks {
		if t.strip.Muted {
			t.meter.Reset()
			continue
		}
		t.meter.Update(0, 0, now)
	}
	e.master.Update(0, 0, now)
}

// Read implements io.Reader for the output device: interleaved stereo
// float32 little-endian. It yields silence unless playing.
func (e *Engine) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}

	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.disposed {
		return 0, io.EOF
	}

	buf := e.scratchLocked(frames * 2)
	if e.song != nil && e.transport.Playing() {
		e.song.graph.Mix(buf, e.cursor, e.opts.SampleRate)
		e.cursor += int64(frames)
	} else {
		clear(buf)
	}

	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}

	return frames * 8, nil
}

func (e *Engine) scratchLocked(n int) []float32 {
	if cap(e.scratch) < n {
		e.scratch = make([]float32, n)
	}
	return e.scratch[:n]
}

// Render mixes the next len(dst)/2 stereo frames into dst regardless of
// the transport state and returns the number of samples written. It
// returns io.EOF once the end of the song is reached; call Wait first so
// that every track is fully loaded.
func (e *Engine) Render(dst []float32) (int, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.disposed {
		return 0, ErrDisposed
	}
	if e.song == nil {
		return 0, io.EOF
	}

	e.refreshLocked()
	remaining := int64(e.song.frames) - e.cursor
	if remaining <= 0 {
		return 0, io.EOF
	}

	frames := int(min(int64(len(dst)/2), remaining))
	e.song.graph.Mix(dst[:frames*2], e.cursor, e.opts.SampleRate)
	e.cursor += int64(frames)

	if int64(frames) == remaining {
		return frames * 2, io.EOF
	}
	return frames * 2, nil
}
