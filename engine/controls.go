// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"math"

	"go.uber.org/zap"

	"github.com/ik5/stagemix/mixer"
)

func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return max(0, min(100, v))
}

// update applies fn to the strip of track id and publishes the result.
func (e *Engine) update(id string, fn func(t *track)) error {
	e.mtx.Lock()
	t, err := e.trackLocked(id)
	if err != nil {
		e.mtx.Unlock()
		return err
	}
	fn(t)
	snap := e.snapshotLocked()
	e.mtx.Unlock()

	e.publish(snap)
	return nil
}

// SetTrackVolume sets a track's volume, clamped to [0, 100].
func (e *Engine) SetTrackVolume(id string, volume float64) error {
	return e.update(id, func(t *track) {
		t.strip.Volume = clampVolume(volume)
	})
}

// SetTrackBalance sets a track's pan, clamped to [-1, 1].
func (e *Engine) SetTrackBalance(id string, balance float64) error {
	if math.IsNaN(balance) {
		balance = 0
	}
	return e.update(id, func(t *track) {
		t.strip.Balance = max(-1, min(1, balance))
	})
}

// SetTrackMute mutes or unmutes a track. Muting clears its meter.
func (e *Engine) SetTrackMute(id string, muted bool) error {
	return e.update(id, func(t *track) {
		t.strip.Muted = muted
		if muted {
			t.strip.Tap.Clear()
			t.meter.Reset()
		}
	})
}

func (e *Engine) SetTrackSolo(id string, solo bool) error {
	return e.update(id, func(t *track) {
		t.strip.Solo = solo
	})
}

// SetTrackMuteRegions replaces the mute regions of a track.
func (e *Engine) SetTrackMuteRegions(id string, regions mixer.Regions) error {
	if err := regions.Validate(); err != nil {
		return err
	}
	return e.update(id, func(t *track) {
		t.strip.Regions = append(mixer.Regions(nil), regions...)
	})
}

// SetMasterVolume sets the master bus volume, clamped to [0, 100]. It is
// kept across songs.
func (e *Engine) SetMasterVolume(volume float64) {
	e.mtx.Lock()
	e.masterVolume = clampVolume(volume)
	if e.song != nil {
		e.song.graph.MasterVolume = e.masterVolume
	}
	snap := e.snapshotLocked()
	e.mtx.Unlock()

	e.log.Debug("master volume", zap.Float64("volume", snap.MasterVolume))
	e.publish(snap)
}
