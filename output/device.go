// SPDX-License-Identifier: EPL-2.0

package output

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"go.uber.org/zap"
)

// Player is the part of oto.Player the device drives.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	Err() error
	Close() error
}

// Backend creates players pulling from a reader.
type Backend interface {
	NewPlayer(r io.Reader) (Player, error)
}

type Options struct {
	SampleRate int
	// ReadyTimeout bounds the wait for the audio hardware on first use.
	ReadyTimeout time.Duration
	Logger       *zap.Logger
}

// Device is a stereo float32 output. The hardware is opened on the first
// Resume, so constructing a Device never touches it.
type Device struct {
	backend Backend
	log     *zap.Logger

	mtx    sync.Mutex
	player Player
	reader io.Reader
	closed bool
}

// New returns a device backed by the system audio output.
func New(opts Options) *Device {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 44100
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 3 * time.Second
	}
	return NewWithBackend(&otoBackend{rate: opts.SampleRate, timeout: opts.ReadyTimeout}, opts.Logger)
}

func NewWithBackend(b Backend, log *zap.Logger) *Device {
	if log == nil {
		log = zap.NewNop()
	}
	return &Device{backend: b, log: log}
}

// Resume starts pulling from r. Switching to another reader replaces the
// player.
func (d *Device) Resume(r io.Reader) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.closed {
		return ErrClosed
	}

	if d.player != nil && d.reader != r {
		_ = d.player.Close()
		d.player = nil
	}
	if d.player == nil {
		p, err := d.backend.NewPlayer(r)
		if err != nil {
			return err
		}
		d.player = p
		d.reader = r
	}

	if err := d.player.Err(); err != nil {
		return fmt.Errorf("audio player: %w", err)
	}

	d.player.Play()
	d.log.Debug("output resumed")

	return nil
}

// Suspend pauses the player, keeping it for the next Resume.
func (d *Device) Suspend() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.player == nil || !d.player.IsPlaying() {
		return nil
	}
	d.player.Pause()
	d.log.Debug("output suspended")

	return nil
}

func (d *Device) Close() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.player == nil {
		return nil
	}
	if err := d.player.Close(); err != nil {
		return fmt.Errorf("closing player: %w", err)
	}

	return nil
}

// oto allows a single context per process.
var (
	otoOnce  sync.Once
	otoCtx   *oto.Context
	otoReady chan struct{}
	otoErr   error
)

type otoBackend struct {
	rate    int
	timeout time.Duration
}

func (b *otoBackend) NewPlayer(r io.Reader) (Player, error) {
	otoOnce.Do(func() {
		otoCtx, otoReady, otoErr = oto.NewContext(b.rate, 2, oto.FormatFloat32LE)
	})
	if otoErr != nil {
		return nil, fmt.Errorf("opening audio context: %w", otoErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	select {
	case <-otoReady:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w after %s", ErrNotReady, b.timeout)
	}

	return otoCtx.NewPlayer(r), nil
}
