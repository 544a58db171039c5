// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"sort"
)

// Region is a half-open window [Start, End) in seconds during which a track
// is silent.
type Region struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (r Region) Contains(t float64) bool {
	return t >= r.Start && t < r.End
}

// Regions is an ordered, non-overlapping list of mute windows.
type Regions []Region

// Validate checks every region is well formed and that the list is sorted
// without overlap. Touching regions ([0,1) and [1,2)) are allowed.
func (rs Regions) Validate() error {
	for i, r := range rs {
		if r.Start < 0 || r.End <= r.Start {
			return fmt.Errorf("%w: [%g, %g)", ErrInvalidRegion, r.Start, r.End)
		}
		if i > 0 && r.Start < rs[i-1].End {
			return fmt.Errorf("%w: [%g, %g) overlaps or precedes [%g, %g)",
				ErrInvalidRegion, r.Start, r.End, rs[i-1].Start, rs[i-1].End)
		}
	}

	return nil
}

// Contains reports whether t falls inside any region.
func (rs Regions) Contains(t float64) bool {
	// first region that ends after t
	i := sort.Search(len(rs), func(i int) bool { return rs[i].End > t })
	return i < len(rs) && rs[i].Start <= t
}

// Factor is 0 inside a region and 1 elsewhere. It depends only on t, so a
// seek into a region is silent immediately.
func (rs Regions) Factor(t float64) float64 {
	if rs.Contains(t) {
		return 0
	}
	return 1
}
