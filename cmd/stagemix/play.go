// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/stagemix/engine"
	"github.com/ik5/stagemix/monitor"
	"github.com/ik5/stagemix/output"
	"github.com/ik5/stagemix/song"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		monitorAddr string
		watch       bool
		loop        bool
	)

	cmd := &cobra.Command{
		Use:   "play <manifest>",
		Short: "Play a song manifest on the default audio device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if monitorAddr == "" {
				monitorAddr = a.cfg.MonitorAddr
			}
			return a.play(ctx, args[0], monitorAddr, watch, loop)
		},
	}

	cmd.Flags().StringVar(&monitorAddr, "monitor", "", "serve the monitor API on this address (overrides STAGEMIX_MONITOR_ADDR)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the manifest when it changes")
	cmd.Flags().BoolVar(&loop, "loop", false, "start over when the song ends instead of exiting")

	return cmd
}

func (a *app) play(ctx context.Context, path, monitorAddr string, watch, loop bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := song.Load(path)
	if err != nil {
		return err
	}

	ld, closeLoader, err := a.newLoader(ctx)
	if err != nil {
		return err
	}
	defer closeLoader()

	dev := output.New(output.Options{
		SampleRate: a.cfg.SampleRate,
		Logger:     a.log.Named("output"),
	})
	defer dev.Close()

	eng := engine.New(a.cfg.EngineOptions(ld), dev, a.log.Named("engine"))
	defer eng.Dispose()

	eng.OnSongEnded(func(sessionID string) {
		a.log.Info("song ended", zap.String("session", sessionID))
		if !loop {
			cancel()
			return
		}
		eng.Seek(0)
		if err := eng.Play(); err != nil {
			a.log.Error("restart failed", zap.Error(err))
			cancel()
		}
	})

	if err := a.start(ctx, eng, s); err != nil {
		return err
	}

	errs := make(chan error, 2)

	if monitorAddr != "" {
		srv := monitor.New(eng, a.log.Named("monitor"))
		go func() {
			a.log.Info("monitor listening", zap.String("addr", monitorAddr))
			errs <- srv.ListenAndServe(ctx, monitorAddr)
		}()
	}

	if watch {
		go func() {
			errs <- song.Watch(ctx, path, song.DefaultDebounce, func(s *song.Song, err error) {
				if err != nil {
					a.log.Warn("manifest reload failed", zap.String("path", path), zap.Error(err))
					return
				}
				a.log.Info("manifest changed, reloading", zap.String("title", s.Title))
				if err := a.start(ctx, eng, s); err != nil {
					a.log.Error("reload failed", zap.Error(err))
				}
			})
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errs:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	eng.Stop()
	return nil
}

// start loads s and begins playback once the priority tracks are ready.
func (a *app) start(ctx context.Context, eng *engine.Engine, s *song.Song) error {
	a.log.Info("loading song",
		zap.String("title", s.Title),
		zap.Int("tracks", len(s.Tracks)),
		zap.Int("pitch", s.Pitch),
	)

	if err := eng.LoadTracks(ctx, s.Tracks, s.Pitch); err != nil {
		return err
	}

	for _, t := range eng.State().Tracks {
		if t.Err != nil {
			a.log.Warn("track failed", zap.String("track", t.ID), zap.Error(t.Err))
		}
	}

	return eng.Play()
}
