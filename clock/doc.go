// SPDX-License-Identifier: EPL-2.0

// Package clock provides the playback transport and the clocks it runs on.
//
// Transport moves between Stopped, Playing and Paused. Seeking while playing
// restarts from the new position without leaving the Playing state. Tests
// drive time with Fake instead of sleeping.
package clock
