// SPDX-License-Identifier: EPL-2.0

package meter

import (
	"math"
	"time"
)

// Ballistics shapes how a meter follows its input.
type Ballistics struct {
	// Attack is the fraction of the gap to a louder input closed per update.
	Attack float64
	// Decay is the time constant of the fall towards a quieter input.
	Decay time.Duration
	// PeakHold is how long a new peak stays put before it starts to fall.
	PeakHold time.Duration
	// PeakDecay is the time constant of the peak's fall after the hold.
	PeakDecay time.Duration
}

// DefaultBallistics matches a conventional VU display polled every 100ms.
var DefaultBallistics = Ballistics{
	Attack:    0.85,
	Decay:     300 * time.Millisecond,
	PeakHold:  750 * time.Millisecond,
	PeakDecay: 1500 * time.Millisecond,
}

type Reading struct {
	Level float64 `json:"level"`
	Peak  float64 `json:"peak"`
}

// Meter turns raw signal values in [0, 1] into a display level and a held
// peak. The peak is never below the level. A Meter is not safe for
// concurrent use.
type Meter struct {
	b      Ballistics
	level  float64
	peak   float64
	last   time.Time
	peakAt time.Time
}

func New(b Ballistics) *Meter {
	return &Meter{b: b}
}

// Update feeds the value observed at now and returns the new reading. Decay
// depends on the time since the previous update, so the fall rate does not
// change with the polling cadence.
func (m *Meter) Update(v float64, now time.Time) Reading {
	v = max(0, min(1, v))

	var dt time.Duration
	if !m.last.IsZero() && now.After(m.last) {
		dt = now.Sub(m.last)
	}

	if v > m.level {
		m.level += (v - m.level) * m.b.Attack
	} else {
		m.level = v + (m.level-v)*falloff(dt, m.b.Decay)
	}

	switch {
	case m.level > m.peak:
		m.peak = m.level
		m.peakAt = now
	case dt > 0:
		// only the part of dt past the hold window counts towards the fall
		holdEnd := m.peakAt.Add(m.b.PeakHold)
		if now.After(holdEnd) {
			fall := min(dt, now.Sub(holdEnd))
			m.peak = max(m.level, m.peak*falloff(fall, m.b.PeakDecay))
		}
	}

	m.last = now

	return m.Value()
}

// Reset drops level and peak to zero immediately.
func (m *Meter) Reset() {
	m.level = 0
	m.peak = 0
	m.last = time.Time{}
	m.peakAt = time.Time{}
}

func (m *Meter) Value() Reading {
	return Reading{Level: m.level, Peak: m.peak}
}

// falloff is the fraction of a value left after dt of exponential decay.
func falloff(dt, tau time.Duration) float64 {
	if dt <= 0 {
		return 1
	}
	if tau <= 0 {
		return 0
	}
	return math.Exp(-dt.Seconds() / tau.Seconds())
}

// Stereo pairs a left and right meter.
type Stereo struct {
	L, R *Meter
}

func NewStereo(b Ballistics) *Stereo {
	return &Stereo{L: New(b), R: New(b)}
}

func (s *Stereo) Update(l, r float64, now time.Time) (Reading, Reading) {
	return s.L.Update(l, now), s.R.Update(r, now)
}

func (s *Stereo) Reset() {
	s.L.Reset()
	s.R.Reset()
}

func (s *Stereo) Value() (Reading, Reading) {
	return s.L.Value(), s.R.Value()
}
