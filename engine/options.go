// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ik5/stagemix/audio"
	"github.com/ik5/stagemix/clock"
	"github.com/ik5/stagemix/loader"
	"github.com/ik5/stagemix/meter"
)

// Strategy selects how tracks are loaded.
type Strategy int

const (
	// Auto streams tracks unless the song is pitch shifted, which needs
	// the whole track decoded first.
	Auto Strategy = iota
	Eager
	Streaming
)

func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case Eager:
		return "eager"
	case Streaming:
		return "streaming"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "eager":
		return Eager, nil
	case "streaming", "stream":
		return Streaming, nil
	default:
		return Auto, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// TrackLoader resolves locators into playable clips. *loader.Loader
// implements it.
type TrackLoader interface {
	Load(ctx context.Context, locator string) (*audio.Buffer, error)
	Stream(ctx context.Context, locator string) (*loader.Stream, error)
}

type Options struct {
	SampleRate int
	// PriorityTracks are loaded before LoadTracks returns.
	PriorityTracks int
	// LoadConcurrency bounds the background loads.
	LoadConcurrency int
	Strategy        Strategy
	// TickInterval is the cadence of time updates and level sampling. A
	// negative interval disables the internal ticker; the host then calls
	// Tick itself.
	TickInterval time.Duration
	Ballistics   meter.Ballistics
	Clock        clock.Clock
	// Loader defaults to a loader producing stereo at SampleRate.
	Loader TrackLoader
}

const (
	DefaultSampleRate      = 44100
	DefaultPriorityTracks  = 2
	DefaultLoadConcurrency = 4
	DefaultTickInterval    = 100 * time.Millisecond
)

func (o Options) withDefaults() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.PriorityTracks <= 0 {
		o.PriorityTracks = DefaultPriorityTracks
	}
	if o.LoadConcurrency <= 0 {
		o.LoadConcurrency = DefaultLoadConcurrency
	}
	if o.TickInterval == 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.Ballistics == (meter.Ballistics{}) {
		o.Ballistics = meter.DefaultBallistics
	}
	if o.Clock == nil {
		o.Clock = clock.System{}
	}

	return o
}
