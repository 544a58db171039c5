// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes WAV audio files.
//
// Decoding is built on github.com/go-audio/wav and accepts integer PCM at
// 8, 16, 24 or 32 bits per sample, with any channel count and sample rate.
// WAVE_FORMAT_EXTENSIBLE headers are accepted when they carry integer PCM.
//
// # Decoding WAV Files
//
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	frames := source.(audio.Lengther).Frames()
//
// Readers that cannot seek are buffered in memory first, since the RIFF
// chunk walk needs to move backwards over out of order chunks.
//
// # Writing WAV Files
//
// WriteWAV16 writes interleaved int16 samples with a canonical 44 byte
// header. The render command uses it to write mixdowns:
//
//	err := wav.WriteWAV16(file, 44100, 2, samples)
//
// # Errors
//
//   - ErrNotWavFile: the input is not a RIFF/WAVE container
//   - ErrOnlyPCMSupported: the fmt chunk is not integer PCM
//   - ErrUnsupportedBitDepth: the sample width is not 8, 16, 24 or 32
//   - ErrCorruptData: sample data could not be read
package wav
