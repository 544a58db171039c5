// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"

	"github.com/ik5/stagemix/audio"
)

// Strip is one track's chain: clip, fader, pan and level tap.
type Strip struct {
	ID      string
	Volume  float64 // 0..100
	Balance float64 // -1..1
	Muted   bool
	Solo    bool
	Regions Regions

	// Clip is nil while the track is loading or after it failed; a strip
	// without a clip contributes silence.
	Clip audio.Clip

	Tap Tap
}

// Graph sums strips into a stereo master bus. A Graph is not safe for
// concurrent use; the engine serializes access.
type Graph struct {
	strips []*Strip
	index  map[string]*Strip

	MasterVolume float64 // 0..100
	MasterTap    Tap

	left, right []float32 // per-strip block scratch
}

func NewGraph() *Graph {
	return &Graph{
		index:        make(map[string]*Strip),
		MasterVolume: 100,
	}
}

// Add appends a strip. Strip order is kept for snapshots; it has no effect
// on the mix.
func (g *Graph) Add(s *Strip) error {
	if s.ID == "" {
		return ErrEmptyID
	}
	if _, ok := g.index[s.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateStrip, s.ID)
	}
	if err := s.Regions.Validate(); err != nil {
		return fmt.Errorf("strip %q: %w", s.ID, err)
	}

	g.strips = append(g.strips, s)
	g.index[s.ID] = s

	return nil
}

func (g *Graph) Strip(id string) (*Strip, bool) {
	s, ok := g.index[id]
	return s, ok
}

func (g *Graph) Strips() []*Strip {
	return g.strips
}

func (g *Graph) Len() int {
	return len(g.strips)
}

// AnySolo reports whether at least one strip is soloed.
func (g *Graph) AnySolo() bool {
	for _, s := range g.strips {
		if s.Solo {
			return true
		}
	}
	return false
}

// MasterGain is the linear gain applied to the summed bus.
func (g *Graph) MasterGain() float64 {
	return g.MasterVolume / 100
}

// EffectiveGain is volume/100 × mute × solo × region factor for the strip at
// transport time t. A strip that is both muted and soloed is silent.
func (g *Graph) EffectiveGain(id string, t float64) (float64, bool) {
	s, ok := g.index[id]
	if !ok {
		return 0, false
	}
	return s.Regions.Factor(t) * g.faderGain(s, g.AnySolo()), true
}

// faderGain is the part of the effective gain that does not vary with time.
func (g *Graph) faderGain(s *Strip, anySolo bool) float64 {
	if s.Muted {
		return 0
	}
	if anySolo && !s.Solo {
		return 0
	}
	return s.Volume / 100
}

// Mix renders len(dst)/2 interleaved stereo frames starting at transport
// frame start. Frames past a clip's buffered length are silent, which covers
// tracks that ended early as well as streams that have not caught up.
func (g *Graph) Mix(dst []float32, start int64, rate int) {
	clear(dst)
	frames := len(dst) / 2
	anySolo := g.AnySolo()

	for _, s := range g.strips {
		if s.Clip == nil {
			continue
		}
		gain := float32(g.faderGain(s, anySolo))
		if gain == 0 {
			continue
		}

		left, right := g.block(s.Clip, int(start), frames)
		for f := range left {
			pos := int(start) + f
			if len(s.Regions) > 0 && s.Regions.Contains(float64(pos)/float64(rate)) {
				continue
			}

			l, r := Pan(s.Balance, left[f], right[f])
			l *= gain
			r *= gain

			s.Tap.observe(l, r)
			dst[2*f] += l
			dst[2*f+1] += r
		}
	}

	master := float32(g.MasterGain())
	for f := range frames {
		dst[2*f] *= master
		dst[2*f+1] *= master
		g.MasterTap.observe(dst[2*f], dst[2*f+1])
	}
}

// block copies up to frames frames of clip from start into the graph's
// scratch and returns the left and right channels; a mono clip returns the
// same slice twice. Both are short when the clip ends inside the block.
func (g *Graph) block(clip audio.Clip, start, frames int) ([]float32, []float32) {
	if cap(g.left) < frames {
		g.left = make([]float32, frames)
		g.right = make([]float32, frames)
	}

	left := g.left[:clip.CopyChannel(g.left[:frames], 0, start)]
	if clip.Channels() == 1 {
		return left, left
	}

	right := g.right[:clip.CopyChannel(g.right[:len(left)], 1, start)]
	return left[:len(right)], right
}

// ClearTaps drops pending peaks on every strip and the master bus.
func (g *Graph) ClearTaps() {
	for _, s := range g.strips {
		s.Tap.Clear()
	}
	g.MasterTap.Clear()
}
