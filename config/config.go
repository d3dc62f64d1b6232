// SPDX-License-Identifier: EPL-2.0

// Package config holds engine settings and loads them from the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrack/formats/ffmpeg"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// CacheDir receives the canonical PCM artifacts. It is created when
	// missing.
	CacheDir string

	// DeviceRate is the output device sample rate.
	DeviceRate int
	// DeviceBuffer is the device callback period.
	DeviceBuffer time.Duration
	// ResampleQuality is passed to the device resampler (1-64).
	ResampleQuality int

	// IngestSampleRate resamples every opened file; 0 keeps the native rate.
	IngestSampleRate int
	IngestMono       bool
	// IngestWorkers bounds concurrent open and export operations.
	IngestWorkers int

	// FFmpegPath decodes extensions without a native decoder. Empty
	// disables the fallback.
	FFmpegPath string

	LogLevel logrus.Level
}

// Default returns the configuration used when no environment overrides
// are set.
func Default() Config {
	return Config{
		CacheDir:         filepath.Join(os.TempDir(), "audtrack"),
		DeviceRate:       44100,
		DeviceBuffer:     100 * time.Millisecond,
		ResampleQuality:  4,
		IngestSampleRate: 0,
		IngestMono:       false,
		IngestWorkers:    2,
		FFmpegPath:       ffmpeg.DefaultBinary,
		LogLevel:         logrus.InfoLevel,
	}
}

// Load starts from Default and applies AUDTRACK_* environment variables.
// Unparsable numbers keep their defaults; the result is validated.
func Load() (Config, error) {
	def := Default()

	cfg := Config{
		CacheDir:         envStr("AUDTRACK_CACHE_DIR", def.CacheDir),
		DeviceRate:       envInt("AUDTRACK_DEVICE_RATE", def.DeviceRate),
		DeviceBuffer:     time.Duration(envInt("AUDTRACK_DEVICE_BUFFER_MS", int(def.DeviceBuffer/time.Millisecond))) * time.Millisecond,
		ResampleQuality:  envInt("AUDTRACK_RESAMPLE_QUALITY", def.ResampleQuality),
		IngestSampleRate: envInt("AUDTRACK_INGEST_RATE", def.IngestSampleRate),
		IngestMono:       envBool("AUDTRACK_INGEST_MONO", def.IngestMono),
		IngestWorkers:    envInt("AUDTRACK_INGEST_WORKERS", def.IngestWorkers),
		FFmpegPath:       def.FFmpegPath,
		LogLevel:         def.LogLevel,
	}

	// An explicitly empty AUDTRACK_FFMPEG disables the fallback.
	if v, ok := os.LookupEnv("AUDTRACK_FFMPEG"); ok {
		cfg.FFmpegPath = v
	}

	if v := os.Getenv("AUDTRACK_LOG_LEVEL"); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: AUDTRACK_LOG_LEVEL: %v", ErrInvalid, err)
		}
		cfg.LogLevel = lvl
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks ranges and normalizes CacheDir, expanding a leading ~.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CacheDir) == "" {
		return fmt.Errorf("%w: cache dir is empty", ErrInvalid)
	}
	dir, err := homedir.Expand(c.CacheDir)
	if err != nil {
		return fmt.Errorf("%w: cache dir: %v", ErrInvalid, err)
	}
	c.CacheDir = filepath.Clean(dir)

	switch {
	case c.DeviceRate <= 0:
		return fmt.Errorf("%w: device rate %d", ErrInvalid, c.DeviceRate)
	case c.DeviceBuffer <= 0:
		return fmt.Errorf("%w: device buffer %s", ErrInvalid, c.DeviceBuffer)
	case c.ResampleQuality < 1 || c.ResampleQuality > 64:
		return fmt.Errorf("%w: resample quality %d", ErrInvalid, c.ResampleQuality)
	case c.IngestSampleRate < 0:
		return fmt.Errorf("%w: ingest rate %d", ErrInvalid, c.IngestSampleRate)
	case c.IngestWorkers <= 0:
		return fmt.Errorf("%w: ingest workers %d", ErrInvalid, c.IngestWorkers)
	}

	return nil
}

// Logger returns a logrus logger at LogLevel.
func (c Config) Logger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(c.LogLevel)
	return log
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
