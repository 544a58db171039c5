// SPDX-License-Identifier: EPL-2.0

// Package loader turns track locators into playable audio.
//
// A locator is a plain path, a file://, http(s):// or any other URL whose
// scheme has a registered Fetcher. The fetched bytes are decoded by the
// format implied by the locator's extension, or by sniffing the leading
// bytes when the extension is missing or unknown, and normalized to the
// loader's sample rate and channel count.
//
// Two strategies are offered:
//
//	buf, err := l.Load(ctx, "stems/vox.wav")   // whole track in memory
//	s, err := l.Stream(ctx, "stems/drums.mp3") // returns after the prebuffer
//
// Both results implement audio.Clip. A Stream keeps decoding in the
// background; its Len grows until Done reports true.
//
// Every failure is a *TrackError whose Kind is ErrLoad for fetch and read
// failures or ErrDecode for unknown formats and corrupt data:
//
//	if errors.Is(err, loader.ErrDecode) { ... }
package loader
