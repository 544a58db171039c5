// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

func TestPan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		balance      float64
		l, r         float32
		wantL, wantR float32
	}{
		{"centre passes through", 0, 0.3, -0.2, 0.3, -0.2},
		{"hard left folds right in", -1, 0.5, 0.25, 0.75, 0},
		{"hard right folds left in", 1, 0.5, 0.25, 0, 0.75},
		{"clamped below", -3, 0.5, 0.25, 0.75, 0},
		{"clamped above", 7, 0.5, 0.25, 0, 0.75},
		{
			"half left",
			-0.5, 1, 1,
			1 + float32(math.Cos(math.Pi/4)), float32(math.Sin(math.Pi / 4)),
		},
		{
			"half right",
			0.5, 1, 1,
			float32(math.Cos(math.Pi / 4)), 1 + float32(math.Sin(math.Pi/4)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, r := Pan(tt.balance, tt.l, tt.r)
			if !approx(l, tt.wantL) || !approx(r, tt.wantR) {
				t.Errorf("Pan(%v, %v, %v) = (%v, %v), want (%v, %v)",
					tt.balance, tt.l, tt.r, l, r, tt.wantL, tt.wantR)
			}
		})
	}
}

func TestPan_ConstantPowerMono(t *testing.T) {
	t.Parallel()

	// A signal only on the panned-towards side keeps its power
	for _, b := range []float64{0.1, 0.3, 0.6, 0.9} {
		l, r := Pan(b, 1, 0)
		if p := l*l + r*r; !approx(p, 1) {
			t.Errorf("Pan(%v) power = %v, want 1", b, p)
		}
	}
}
