// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/stagemix/cache"
	"github.com/ik5/stagemix/config"
	"github.com/ik5/stagemix/loader"
	"github.com/ik5/stagemix/logger"
	"github.com/ik5/stagemix/storage"
)

// app carries what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	envFile string
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "stagemix",
		Short:         "stagemix plays multi-track backing songs in sync.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var files []string
			if a.envFile != "" {
				files = append(files, a.envFile)
			}

			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			if level, _ := cmd.Flags().GetString("log-level"); level != "" {
				cfg.Log.Level = level
			}
			cfg.Log.Console = cmd.ErrOrStderr()

			log, err := logger.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}

			a.cfg = cfg
			a.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env", "", "env file to read STAGEMIX_* settings from (default .env)")
	root.PersistentFlags().String("log-level", "", "override STAGEMIX_LOG_LEVEL")

	root.AddCommand(newPlayCmd(a), newRenderCmd(a), newInspectCmd(a))

	return root
}

// Execute executes the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLoader builds the track loader, adding the s3 scheme when MinIO is
// configured and the asset cache when Redis is. The returned cleanup closes
// whatever was opened.
func (a *app) newLoader(ctx context.Context) (*loader.Loader, func(), error) {
	opts := a.cfg.LoaderOptions()
	opts.Logger = a.log.Named("loader")
	cleanup := func() {}

	if a.cfg.Redis.Addr != "" {
		c, err := cache.New(ctx, a.cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		opts.Cache = c
		cleanup = func() { _ = c.Close() }
		a.log.Info("asset cache enabled", zap.String("addr", a.cfg.Redis.Addr))
	}

	ld := loader.New(opts)

	if a.cfg.Minio.Endpoint != "" {
		f, err := storage.NewMinioFetcher(a.cfg.Minio)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connecting to minio: %w", err)
		}
		ld.Register("s3", f)
		a.log.Info("s3 locators enabled", zap.String("endpoint", a.cfg.Minio.Endpoint))
	}

	return ld, cleanup, nil
}
