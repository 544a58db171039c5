// SPDX-License-Identifier: EPL-2.0

// Package engine plays a song made of independently loaded tracks in sync.
//
// An Engine owns one song at a time. LoadTracks replaces the current song,
// loads the first few tracks before returning and keeps loading the rest in
// the background; a track that fails to load is marked Failed and stays
// silent while the others play.
//
//	e := engine.New(engine.Options{}, out, log)
//	defer e.Dispose()
//
//	if err := e.LoadTracks(ctx, tracks, 0); err != nil { ... }
//	if err := e.Play(); errors.Is(err, engine.ErrContextUnavailable) { ... }
//
// Every track is positioned from a single transport time, so play, pause
// and seek move all tracks together and a missing track cannot shift the
// others.
//
// The output device pulls audio through Engine.Read. Offline rendering uses
// Render instead, which ignores the transport state:
//
//	_ = e.Wait(ctx)
//	for {
//	    n, err := e.Render(buf)
//	    ...
//	}
//
// State returns an immutable Snapshot; OnStateChange and OnSongEnded
// register listeners. Levels are sampled from the mixer on every Tick.
package engine
