// SPDX-License-Identifier: EPL-2.0

package engine

import "io"

// Output is the playback device. While resumed it pulls interleaved
// float32 little-endian stereo from the reader handed to Resume.
type Output interface {
	Resume(r io.Reader) error
	Suspend() error
	Close() error
}

// NullOutput discards audio. It suits headless use, where the host drives
// rendering through Engine.Render.
type NullOutput struct{}

func (NullOutput) Resume(io.Reader) error { return nil }
func (NullOutput) Suspend() error         { return nil }
func (NullOutput) Close() error           { return nil }
