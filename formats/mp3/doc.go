// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 audio through github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so every source from this package
// reports two channels even for mono files. The channel mapper downstream
// sees a stereo source and passes it through.
//
//	source, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // errors.Is(err, mp3.ErrInvalidData)
//	}
//
// When the input implements io.Seeker the decoder scans the frame headers
// up front and the source implements audio.Lengther. Streaming inputs
// report zero frames.
package mp3
