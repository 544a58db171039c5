// SPDX-License-Identifier: EPL-2.0

package mixer

// Tap records the absolute peak of each side of a signal between reads.
// The meter sampler drains it once per tick, so the peak window is the tick
// cadence rather than the audio block size.
type Tap struct {
	l, r float32
}

func (t *Tap) observe(l, r float32) {
	if l < 0 {
		l = -l
	}
	if r < 0 {
		r = -r
	}
	t.l = max(t.l, l)
	t.r = max(t.r, r)
}

// Take returns the peaks seen since the last call and clears them.
func (t *Tap) Take() (l, r float32) {
	l, r = t.l, t.r
	t.l, t.r = 0, 0
	return l, r
}

// Clear drops any pending peaks.
func (t *Tap) Clear() {
	t.l, t.r = 0, 0
}
