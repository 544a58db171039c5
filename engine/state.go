// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/ik5/stagemix/clock"
	"github.com/ik5/stagemix/meter"
	"github.com/ik5/stagemix/mixer"
)

type LoadState int

const (
	Unloaded LoadState = iota
	Loading
	Ready
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

func (s LoadState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *LoadState) UnmarshalText(text []byte) error {
	for _, v := range []LoadState{Unloaded, Loading, Ready, Failed} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown load state %q", text)
}

// TrackDescriptor is what a song loader hands the engine for one track.
type TrackDescriptor struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Source      string        `json:"source"`
	Volume      float64       `json:"volume"`
	Balance     float64       `json:"balance"`
	Muted       bool          `json:"muted"`
	Solo        bool          `json:"solo"`
	MuteRegions mixer.Regions `json:"muteRegions,omitempty"`
}

func (d TrackDescriptor) validate() error {
	switch {
	case d.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidTrack)
	case d.Source == "":
		return fmt.Errorf("%w: track %q has no source", ErrInvalidTrack, d.ID)
	case d.Volume < 0 || d.Volume > 100:
		return fmt.Errorf("%w: track %q volume %v outside [0, 100]", ErrInvalidTrack, d.ID, d.Volume)
	case d.Balance < -1 || d.Balance > 1:
		return fmt.Errorf("%w: track %q balance %v outside [-1, 1]", ErrInvalidTrack, d.ID, d.Balance)
	}
	if err := d.MuteRegions.Validate(); err != nil {
		return fmt.Errorf("%w: track %q: %w", ErrInvalidTrack, d.ID, err)
	}

	return nil
}

// TrackState is the published view of one track.
type TrackState struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Source      string        `json:"source"`
	Volume      float64       `json:"volume"`
	Balance     float64       `json:"balance"`
	Muted       bool          `json:"muted"`
	Solo        bool          `json:"solo"`
	MuteRegions mixer.Regions `json:"muteRegions,omitempty"`
	LoadState   LoadState     `json:"loadState"`
	// Err holds the load failure of a Failed track.
	Err      error   `json:"-"`
	Error    string  `json:"error,omitempty"`
	Duration float64 `json:"duration"`
	// Streaming is set while a streamed track is still being decoded.
	Streaming     bool    `json:"streaming"`
	EffectiveGain float64 `json:"effectiveGain"`
}

// Snapshot is an immutable copy of the engine state. Receivers must not
// modify it; it is shared between listeners.
type Snapshot struct {
	SessionID       string       `json:"sessionId,omitempty"`
	Transport       clock.State  `json:"-"`
	TransportName   string       `json:"transport"`
	Playing         bool         `json:"isPlaying"`
	CurrentTime     float64      `json:"currentTime"`
	Duration        float64      `json:"duration"`
	MasterVolume    float64      `json:"masterVolume"`
	Pitch           int          `json:"pitch"`
	Loading         bool         `json:"isLoading"`
	LoadingProgress float64      `json:"loadingProgress"`
	Tracks          []TrackState `json:"tracks"`
}

// Track returns the state of the track with the given id.
func (s Snapshot) Track(id string) (TrackState, bool) {
	for _, t := range s.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return TrackState{}, false
}

// Level is the stereo meter reading of a track or the master bus.
type Level struct {
	Left  meter.Reading `json:"left"`
	Right meter.Reading `json:"right"`
}

func levelOf(m *meter.Stereo) Level {
	l, r := m.Value()
	return Level{Left: l, Right: r}
}
