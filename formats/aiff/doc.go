// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files. Signed
// big-endian PCM at 8, 16, 24 and 32 bits is supported, with any channel
// count and sample rate. The frame count from the COMM chunk is exposed
// through audio.Lengther.
//
//	source, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not a FORM/AIFF container
//	}
//
// Inputs that cannot seek are read into memory before decoding.
package aiff
