// SPDX-License-Identifier: EPL-2.0

package clock

import (
	"fmt"
	"math"
	"time"
)

type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Transport is the single time base of a song. While playing, the position
// is the wall time elapsed since start; otherwise it is frozen at paused.
// Every track is positioned from this value, none advance it.
//
// Transport is not safe for concurrent use.
type Transport struct {
	clock    Clock
	state    State
	start    time.Time // wall time at position zero while playing
	paused   float64   // frozen position in seconds
	duration float64
}

func NewTransport(c Clock) *Transport {
	if c == nil {
		c = System{}
	}
	return &Transport{clock: c}
}

func (t *Transport) State() State      { return t.state }
func (t *Transport) Playing() bool     { return t.state == Playing }
func (t *Transport) Duration() float64 { return t.duration }

// SetDuration updates the song length. A frozen position beyond the new
// length is clamped.
func (t *Transport) SetDuration(seconds float64) {
	t.duration = max(0, seconds)
	if t.state != Playing {
		t.paused = t.clamp(t.paused)
	}
}

// Position returns the current time in seconds, always within [0, Duration].
func (t *Transport) Position() float64 {
	return t.clamp(t.raw())
}

func (t *Transport) raw() float64 {
	if t.state != Playing {
		return t.paused
	}
	return t.clock.Now().Sub(t.start).Seconds()
}

// clamp bounds s to [0, Duration]; NaN maps to 0.
func (t *Transport) clamp(s float64) float64 {
	if math.IsNaN(s) {
		return 0
	}
	return max(0, min(s, t.duration))
}

// Play resumes from the frozen position. It reports false when already playing.
func (t *Transport) Play() bool {
	if t.state == Playing {
		return false
	}
	t.start = t.clock.Now().Add(-secondsToDuration(t.paused))
	t.state = Playing
	return true
}

// Pause freezes the position. It reports false when not playing.
func (t *Transport) Pause() bool {
	if t.state != Playing {
		return false
	}
	t.paused = t.Position()
	t.state = Paused
	return true
}

// Stop returns to the start of the song.
func (t *Transport) Stop() {
	t.state = Stopped
	t.paused = 0
}

// Seek moves to seconds clamped to [0, Duration] and returns the clamped
// value. A playing transport keeps playing from the new position; a stopped
// one moved off zero becomes paused there, since stopped means position 0.
func (t *Transport) Seek(seconds float64) float64 {
	pos := t.clamp(seconds)
	t.paused = pos
	switch {
	case t.state == Playing:
		t.start = t.clock.Now().Add(-secondsToDuration(pos))
	case t.state == Stopped && pos > 0:
		t.state = Paused
	}
	return pos
}

// Ended reports whether a playing transport has reached the end of the song.
func (t *Transport) Ended() bool {
	return t.state == Playing && t.raw() >= t.duration
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
