// Package config holds the runtime settings shared by the command line
// tools.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/engine"
)

// Environment variables read by FromEnv.
const (
	EnvDepth    = "CHESSPLAY_DEPTH"
	EnvSeed     = "CHESSPLAY_SEED"
	EnvDataDir  = "CHESSPLAY_DATA_DIR"
	EnvLogLevel = "CHESSPLAY_LOG_LEVEL"
	EnvPretty   = "CHESSPLAY_LOG_PRETTY"
	EnvTimeout  = "CHESSPLAY_TIMEOUT"
)

// MaxDepth bounds the configured search depth.
const MaxDepth = 8

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the settings for one run.
type Config struct {
	// Search
	Depth   int
	Seed    int64 // 0 seeds from the clock
	Timeout time.Duration

	// Storage; empty selects storage.DefaultDataDir
	DataDir string

	// Logging
	LogLevel string
	Pretty   bool
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Depth:    engine.DefaultDepth,
		LogLevel: "info",
		Pretty:   true,
	}
}

// FromEnv overlays variables read through getenv onto c. Unset variables
// leave the existing value alone.
func (c Config) FromEnv(getenv func(string) string) (Config, error) {
	if v := getenv(EnvDepth); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvDepth, v, err)
		}
		c.Depth = d
	}
	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvSeed, v, err)
		}
		c.Seed = seed
	}
	if v := getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvPretty); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvPretty, v, err)
		}
		c.Pretty = pretty
	}
	if v := getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvTimeout, v, err)
		}
		c.Timeout = d
	}
	return c, nil
}

// Validate reports the first setting that is out of range.
func (c Config) Validate() error {
	if c.Depth < 1 || c.Depth > MaxDepth {
		return fmt.Errorf("%w: depth %d not in [1,%d]", ErrInvalidConfig, c.Depth, MaxDepth)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %v", ErrInvalidConfig, c.Timeout)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// EngineOptions translates the search settings into engine options.
func (c Config) EngineOptions(log zerolog.Logger) []engine.Option {
	opts := []engine.Option{engine.WithDepth(c.Depth), engine.WithLogger(log)}
	if c.Seed != 0 {
		opts = append(opts, engine.WithSeed(c.Seed))
	}
	return opts
}
