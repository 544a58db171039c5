// SPDX-License-Identifier: EPL-2.0

// Package mixer holds the per-track signal chain and the master bus.
//
// Each Strip carries its fader state, pan, mute regions and the clip it
// plays. Graph.Mix renders a block of interleaved stereo frames at a given
// transport frame; every strip reads its clip at that same frame, so tracks
// cannot drift apart. Gain changes take effect on the next block without
// ramping.
//
// Mute regions are evaluated per frame from transport time alone:
//
//	regions := mixer.Regions{{Start: 10, End: 12.5}}
//	regions.Factor(11)   // 0
//	regions.Factor(12.5) // 1, the end is exclusive
package mixer
