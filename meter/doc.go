// SPDX-License-Identifier: EPL-2.0

// Package meter implements VU-style level ballistics.
//
// A rising input is followed quickly (Attack), a falling one decays
// exponentially in wall time (Decay). A separate peak jumps to every new
// maximum, holds for PeakHold and then decays with PeakDecay. Reset zeroes
// both, which the engine does for muted tracks and a stopped transport.
package meter
