// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio through
// github.com/jfreymuth/oggvorbis.
//
// The decoder emits float32 samples directly, so no integer conversion takes
// place. Sources from seekable inputs implement audio.Lengther; the library
// scans for the last granule position when the reader is opened.
//
//	source, err := vorbis.Decoder{}.Decode(file)
//	if errors.Is(err, vorbis.ErrInvalidData) {
//	    // not an Ogg Vorbis stream
//	}
package vorbis
