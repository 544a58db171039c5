// SPDX-License-Identifier: EPL-2.0

// Package stagemix is a multi-track playback engine for live backing tracks.
//
// A song is a set of stems (click, guide vocals, bass, keys, ...) that start
// together and play in sync. The engine loads them concurrently, mixes them
// through per-track volume, balance, mute, solo and timed mute regions, and
// feeds the result to an audio device while reporting transport state and
// level meters.
//
// # Packages
//
//   - audio: decode-layer primitives (Source, Clip, Buffer, resampling,
//     channel mapping, format registry)
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: decoders
//   - loader: fetches locators (file, http, s3) and decodes them eagerly or
//     as growing streams
//   - mixer: the per-track gain graph and the mix loop
//   - clock: the transport state machine
//   - meter: VU-style level ballistics
//   - pitch: whole-song semitone shift
//   - engine: ties everything together behind a single mutex
//   - output: oto-backed audio device
//   - song: JSON song manifests and hot reload
//   - monitor: HTTP and websocket control surface
//   - storage, cache: MinIO fetcher and Redis asset cache
//   - config, logger: environment configuration and zap logging
//
// # Quick Start
//
//	eng := engine.New(engine.Options{}, dev, log)
//	defer eng.Dispose()
//
//	s, _ := song.Load("set/opener.json")
//	if err := eng.LoadTracks(ctx, s.Tracks, s.Pitch); err != nil {
//	    return err
//	}
//	if err := eng.Play(); err != nil {
//	    return err
//	}
//
// # Offline Rendering
//
// Mixdown renders the whole song without an audio device:
//
//	_ = eng.Wait(ctx)
//	pcm16, rate, _ := stagemix.Mixdown(eng, 4096)
//	_ = wav.WriteWAV16(file, rate, 2, pcm16)
//
// See the individual subpackages for more detailed documentation.
package stagemix
