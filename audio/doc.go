// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decode-layer primitives the playback engine
// builds on.
//
// This package contains:
//   - Source interface for streaming audio input
//   - Resampler for sample rate conversion
//   - ChannelMapper for channel-count normalization
//   - Buffer, the fully decoded form of a track
//   - Clip, the random-access view the mixer reads from
//   - Format registry and Sniff for decoder selection
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// All format decoders and processors implement this interface, allowing
// them to be chained together in processing pipelines. Sources that know
// their length up front also implement Lengther.
//
// # Decode Chain
//
// Every track goes through the same chain before it reaches the mixer:
//
//	src, _ := registry.Get("wav")
//	chain := audio.MapChannels(audio.Resample(decoded, 44100), 2)
//	buf, err := audio.ReadAll(chain)
//
// Resampling and channel mapping are properties of this layer; the mixer
// assumes every clip already runs at the engine rate with the engine's
// channel count.
//
// # Clips
//
// Buffer and the loader's streaming handle both implement Clip:
//
//	v := clip.Sample(channel, frame) // 0 outside [0, Len())
//	n := clip.CopyChannel(block, channel, frame)
//
// Mixing reads whole blocks through CopyChannel; Sample is for spot checks.
// A Clip whose Done method returns false may still grow.
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// # Error Handling
//
// Audio processing functions return io.EOF when no more data is available.
// Other errors indicate problems with the source or processing:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
package audio
