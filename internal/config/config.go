// Package config provides configuration for the microloop runtime.
//
// Configuration is layered: built-in defaults, then an optional TOML file,
// then MICROLOOP_* environment variables. Later layers win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "MICROLOOP_"

// Config is the root configuration.
type Config struct {
	Queue QueueConfig `toml:"queue"`
	Loop  LoopConfig  `toml:"loop"`
	Sim   SimConfig   `toml:"sim"`
	Trace TraceConfig `toml:"trace"`
}

// QueueConfig configures the event queue.
type QueueConfig struct {
	// Capacity is the fixed slot count of the event queue.
	Capacity int `toml:"capacity"`
}

// LoopConfig configures the dispatch loop.
type LoopConfig struct {
	// IdleWaitUS is the sleep on an empty queue, in microseconds.
	IdleWaitUS int `toml:"idle_wait_us"`
}

// SimConfig configures stimulus replay.
type SimConfig struct {
	// Timeline is the path to a JSON stimulus timeline. Empty disables
	// replay.
	Timeline string `toml:"timeline"`
}

// TraceConfig configures the event trace recorder.
type TraceConfig struct {
	// Enabled turns trace recording on.
	Enabled bool `toml:"enabled"`

	// Path is where the JSON trace is written on shutdown.
	Path string `toml:"path"`

	// Limit caps the number of recorded events; zero means unlimited.
	Limit int `toml:"limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Queue: QueueConfig{Capacity: 16},
		Loop:  LoopConfig{IdleWaitUS: 500},
		Trace: TraceConfig{Path: "microloop-trace.json", Limit: 1024},
	}
}

// IdleWait returns the loop idle wait as a duration.
func (c LoopConfig) IdleWait() time.Duration {
	return time.Duration(c.IdleWaitUS) * time.Microsecond
}

// Load builds the configuration from defaults, the TOML file at path (a
// missing file is not an error), and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays MICROLOOP_* environment variables.
func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvPrefix + "QUEUE_CAPACITY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sQUEUE_CAPACITY: %w", EnvPrefix, err)
		}
		cfg.Queue.Capacity = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "IDLE_WAIT_US"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sIDLE_WAIT_US: %w", EnvPrefix, err)
		}
		cfg.Loop.IdleWaitUS = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "TIMELINE"); ok {
		cfg.Sim.Timeline = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "TRACE"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sTRACE: %w", EnvPrefix, err)
		}
		cfg.Trace.Enabled = enabled
	}
	if v, ok := os.LookupEnv(EnvPrefix + "TRACE_PATH"); ok {
		cfg.Trace.Path = v
	}
	return nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.Queue.Capacity < 1 {
		return fmt.Errorf("%w: queue capacity %d", ErrInvalidCapacity, c.Queue.Capacity)
	}
	if c.Loop.IdleWaitUS < 1 {
		return fmt.Errorf("%w: idle wait %dus", ErrInvalidIdleWait, c.Loop.IdleWaitUS)
	}
	if c.Trace.Limit < 0 {
		return fmt.Errorf("%w: trace limit %d", ErrInvalidTraceLimit, c.Trace.Limit)
	}
	return nil
}
