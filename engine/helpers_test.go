// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/ik5/stagemix/clock"
	"github.com/ik5/stagemix/internal/audiotest"
	"github.com/ik5/stagemix/loader"
)

const testRate = 8000

var errNetwork = errors.New("network unreachable")

func testLoader(assets map[string][]byte) *loader.Loader {
	return loader.New(loader.Options{
		SampleRate: testRate,
		Channels:   2,
		Fetchers: map[string]loader.Fetcher{
			"mem": loader.FetcherFunc(func(_ context.Context, locator string) (io.ReadCloser, error) {
				data, ok := assets[locator]
				if !ok {
					return nil, errNetwork
				}
				return io.NopCloser(bytes.NewReader(data)), nil
			}),
		},
	})
}

// tone is a mono WAV holding value for the given length.
func tone(seconds float64, value float32) []byte {
	return audiotest.ConstantWAV16(testRate, 1, int(seconds*testRate), value)
}

func desc(id string) TrackDescriptor {
	return TrackDescriptor{ID: id, Name: id, Source: "mem://" + id + ".wav", Volume: 100}
}

func newTestEngine(t *testing.T, assets map[string][]byte, opts Options, out Output) (*Engine, *clock.Fake) {
	t.Helper()

	clk := clock.NewFake(time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC))
	opts.SampleRate = testRate
	opts.TickInterval = -1
	opts.Clock = clk
	if opts.Loader == nil {
		opts.Loader = testLoader(assets)
	}

	e := New(opts, out, nil)
	t.Cleanup(func() { _ = e.Dispose() })

	return e, clk
}

func mustLoad(t *testing.T, e *Engine, descs []TrackDescriptor, semitones int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.LoadTracks(ctx, descs, semitones); err != nil {
		t.Fatalf("LoadTracks() error = %v", err)
	}
	if err := e.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func trackState(t *testing.T, snap Snapshot, id string) TrackState {
	t.Helper()

	ts, ok := snap.Track(id)
	if !ok {
		t.Fatalf("track %q missing from snapshot", id)
	}
	return ts
}

type failingOutput struct {
	NullOutput
}

func (failingOutput) Resume(io.Reader) error {
	return errors.New("no audio device")
}
