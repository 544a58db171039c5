// SPDX-License-Identifier: EPL-2.0

// Package pitch shifts decoded tracks by whole semitones.
//
// The shift is a plain resample at ratio 2^(semitones/12): a track shifted up
// an octave plays twice as fast and lasts half as long. Every track of a song
// is shifted by the same offset at load time, so the tracks stay aligned.
package pitch
