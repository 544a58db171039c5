// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ik5/stagemix/cache"
	"github.com/ik5/stagemix/engine"
	"github.com/ik5/stagemix/loader"
	"github.com/ik5/stagemix/logger"
	"github.com/ik5/stagemix/meter"
	"github.com/ik5/stagemix/storage"
)

const prefix = "STAGEMIX_"

type Config struct {
	SampleRate      int
	TickInterval    time.Duration
	PriorityTracks  int
	LoadConcurrency int
	LoadStrategy    string
	StreamPrebuffer time.Duration
	Meter           meter.Ballistics
	Log             logger.Config
	Minio           storage.Config
	Redis           cache.Options
	MonitorAddr     string
}

// Load reads the given .env files, or ./.env when none are named, then the
// environment. Missing files are ignored and variables already set in the
// environment win.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg := &Config{
		SampleRate:      getEnvInt("SAMPLE_RATE", engine.DefaultSampleRate),
		TickInterval:    getEnvDuration("TICK_INTERVAL", engine.DefaultTickInterval),
		PriorityTracks:  getEnvInt("PRIORITY_TRACKS", engine.DefaultPriorityTracks),
		LoadConcurrency: getEnvInt("LOAD_CONCURRENCY", engine.DefaultLoadConcurrency),
		LoadStrategy:    getEnv("LOAD_STRATEGY", "auto"),
		StreamPrebuffer: getEnvDuration("STREAM_PREBUFFER", 2*time.Second),
		Meter: meter.Ballistics{
			Attack:    getEnvFloat("METER_ATTACK", meter.DefaultBallistics.Attack),
			Decay:     getEnvDuration("METER_DECAY", meter.DefaultBallistics.Decay),
			PeakHold:  getEnvDuration("METER_PEAK_HOLD", meter.DefaultBallistics.PeakHold),
			PeakDecay: getEnvDuration("METER_PEAK_DECAY", meter.DefaultBallistics.PeakDecay),
		},
		Log: logger.Config{
			Level:      getEnv("LOG_LEVEL", "info"),
			OutputPath: getEnv("LOG_FILE", ""),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 28),
			Compress:   getEnvBool("LOG_COMPRESS", false),
		},
		Minio: storage.Config{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			Region:    getEnv("MINIO_REGION", "us-east-1"),
		},
		Redis: cache.Options{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("CACHE_TTL", 24*time.Hour),
			MaxBytes: getEnvInt("CACHE_MAX_BYTES", 256<<20),
		},
		MonitorAddr: getEnv("MONITOR_ADDR", ""),
	}

	if _, err := engine.ParseStrategy(cfg.LoadStrategy); err != nil {
		return nil, fmt.Errorf("%sLOAD_STRATEGY: %w", prefix, err)
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%sSAMPLE_RATE must be positive, got %d", prefix, cfg.SampleRate)
	}

	return cfg, nil
}

// LoaderOptions configures a track loader producing stereo at the engine
// rate. Fetchers and the cache are wired by the caller.
func (c *Config) LoaderOptions() loader.Options {
	return loader.Options{
		SampleRate: c.SampleRate,
		Channels:   2,
		Prebuffer:  c.StreamPrebuffer,
	}
}

// EngineOptions translates the configuration for engine.New.
func (c *Config) EngineOptions(l engine.TrackLoader) engine.Options {
	strategy, _ := engine.ParseStrategy(c.LoadStrategy)

	return engine.Options{
		SampleRate:      c.SampleRate,
		PriorityTracks:  c.PriorityTracks,
		LoadConcurrency: c.LoadConcurrency,
		Strategy:        strategy,
		TickInterval:    c.TickInterval,
		Ballistics:      c.Meter,
		Loader:          l,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(prefix + key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(prefix + key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(prefix + key); exists {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(prefix + key); exists {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(prefix + key); exists {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return fallback
}
