// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/stagemix"
	"github.com/ik5/stagemix/engine"
	"github.com/ik5/stagemix/formats/wav"
	"github.com/ik5/stagemix/song"
)

func newRenderCmd(a *app) *cobra.Command {
	var bufferSize int

	cmd := &cobra.Command{
		Use:   "render <manifest> <out.wav>",
		Short: "Mix a song manifest down to a stereo 16-bit WAV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.Context(), args[0], args[1], bufferSize, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&bufferSize, "buffer", 4096, "render buffer size in samples")

	return cmd
}

func (a *app) render(ctx context.Context, path, outPath string, bufferSize int, w io.Writer) error {
	s, err := song.Load(path)
	if err != nil {
		return err
	}

	ld, closeLoader, err := a.newLoader(ctx)
	if err != nil {
		return err
	}
	defer closeLoader()

	opts := a.cfg.EngineOptions(ld)
	// Offline: no device, no ticker, and every track fully decoded.
	opts.TickInterval = -1
	opts.Strategy = engine.Eager

	eng := engine.New(opts, nil, a.log.Named("engine"))
	defer eng.Dispose()

	if err := eng.LoadTracks(ctx, s.Tracks, s.Pitch); err != nil {
		return err
	}
	if err := eng.Wait(ctx); err != nil {
		return err
	}

	for _, t := range eng.State().Tracks {
		if t.Err != nil {
			a.log.Warn("track failed, rendering without it", zap.String("track", t.ID), zap.Error(t.Err))
		}
	}

	pcm16, rate, err := stagemix.Mixdown(eng, bufferSize)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	if err := wav.WriteWAV16(f, rate, 2, pcm16); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outPath, err)
	}

	a.log.Info("rendered",
		zap.String("title", s.Title),
		zap.String("out", outPath),
		zap.Float64("seconds", float64(len(pcm16)/2)/float64(rate)),
	)
	fmt.Fprintf(w, "%s: %.2fs at %d Hz\n", outPath, float64(len(pcm16)/2)/float64(rate), rate)

	return nil
}
