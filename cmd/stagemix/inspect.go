// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ik5/stagemix/audio"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <locator>",
		Short: "Print the format, rate, channels and length of an audio locator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspect(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
}

func (a *app) inspect(ctx context.Context, locator string, w io.Writer) error {
	ld, closeLoader, err := a.newLoader(ctx)
	if err != nil {
		return err
	}
	defer closeLoader()

	asset, err := ld.Open(ctx, locator)
	if err != nil {
		return err
	}
	defer asset.Close()

	var frames int64
	if l, ok := asset.Source.(audio.Lengther); ok {
		frames = l.Frames()
	}
	if frames <= 0 {
		// Unknown up front; decode to count.
		buf, err := audio.ReadAll(asset.Source)
		if err != nil {
			return err
		}
		frames = int64(buf.Frames())
	}

	rate := asset.SampleRate()
	fmt.Fprintf(w, "locator:  %s\n", asset.Locator)
	fmt.Fprintf(w, "format:   %s\n", asset.Format)
	fmt.Fprintf(w, "rate:     %d Hz\n", rate)
	fmt.Fprintf(w, "channels: %d\n", asset.Channels())
	fmt.Fprintf(w, "frames:   %d\n", frames)
	fmt.Fprintf(w, "duration: %.3fs\n", float64(frames)/float64(rate))

	return nil
}
