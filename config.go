package goStats

import (
	"errors"
	"time"

	"github.com/MrEthical07/goStats/internal/conductor"
	"github.com/MrEthical07/goStats/statlog"
)

// Config defines a public type used by goStats APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Conductor  ConductorConfig  `toml:"conductor"`
	StatLogger StatLoggerConfig `toml:"stat_logger"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Logging    LoggingConfig    `toml:"logging"`
}

/*
====================================
CONDUCTOR CONFIG
====================================
*/

// ConductorConfig selects and sizes the conductor.
//
// Impl names a factory registered with RegisterConductor; "default" is the
// ring conductor and "disabled" turns every call into a no-op.
type ConductorConfig struct {
	Impl     string        `toml:"impl"`
	RingSize int           `toml:"ring_size"` // power of two >= 2
	MaxIdle  time.Duration `toml:"max_idle"`  // scheduler sleep bound
}

/*
====================================
STAT LOGGER CONFIG
====================================
*/

// StatLoggerConfig selects the sink that receives tracker snapshots.
//
// Impl names a factory in the statlog registry. Targets lists the sinks
// fanned out to when Impl is "multi". Sub-configs apply only to their sink.
type StatLoggerConfig struct {
	Impl    string   `toml:"impl"`
	Name    string   `toml:"name"`
	Targets []string `toml:"targets"`

	StatsD     statlog.StatsDConfig     `toml:"statsd"`
	JSON       statlog.JSONConfig       `toml:"json"`
	Redis      statlog.RedisConfig      `toml:"redis"`
	SQLite     statlog.SQLiteConfig     `toml:"sqlite"`
	Prometheus statlog.PrometheusConfig `toml:"prometheus"`
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goStats APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool `toml:"enabled"`
	EnableLatencyHistograms bool `toml:"enable_latency_histograms"`
}

/*
====================================
LOGGING CONFIG
====================================
*/

// LoggingConfig controls the default structured logger built by Build.
// Messages logged with Limit() are capped at RateLimitBurst per
// RateLimitWindow for each call site; a zero burst disables the cap.
type LoggingConfig struct {
	Level           string        `toml:"level"` // emerg..trace, or "disabled"
	RateLimitWindow time.Duration `toml:"rate_limit_window"`
	RateLimitBurst  int           `toml:"rate_limit_burst"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Conductor: ConductorConfig{
			Impl:     ConductorDefault,
			RingSize: 4096,
			MaxIdle:  conductor.DefaultMaxIdle,
		},
		StatLogger: StatLoggerConfig{
			Impl: "stderr",
			Name: "stats",
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
		Logging: LoggingConfig{
			Level:           "info",
			RateLimitWindow: DefaultRateLimitWindow,
			RateLimitBurst:  DefaultRateLimitBurst,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.StatLogger.Targets != nil {
		out.StatLogger.Targets = append([]string(nil), cfg.StatLogger.Targets...)
	}
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate returns the first problem found; it does not check that Impl
// names are registered, which Build does.
func (c *Config) Validate() error {
	// Conductor
	if c.Conductor.Impl == "" {
		return errors.New("Conductor Impl must be set")
	}
	if c.Conductor.RingSize < 2 || c.Conductor.RingSize&(c.Conductor.RingSize-1) != 0 {
		return ErrInvalidRingSize
	}
	if c.Conductor.MaxIdle <= 0 {
		return errors.New("Conductor MaxIdle must be > 0")
	}

	// Stat logger
	if c.StatLogger.Impl == "" {
		return errors.New("StatLogger Impl must be set")
	}
	if c.StatLogger.Impl == "multi" && len(c.StatLogger.Targets) == 0 {
		return errors.New("StatLogger Targets must be set when Impl is multi")
	}
	if c.StatLogger.StatsD.PacketSize < 0 {
		return errors.New("StatLogger StatsD PacketSize must be >= 0")
	}
	if c.StatLogger.StatsD.Backlog < 0 {
		return errors.New("StatLogger StatsD Backlog must be >= 0")
	}
	if c.StatLogger.Redis.Timeout < 0 || c.StatLogger.Redis.TTL < 0 {
		return errors.New("StatLogger Redis Timeout and TTL must be >= 0")
	}
	if c.StatLogger.SQLite.BatchSize < 0 || c.StatLogger.SQLite.FlushInterval < 0 {
		return errors.New("StatLogger SQLite BatchSize and FlushInterval must be >= 0")
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Enabled")
	}

	// Logging
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.RateLimitBurst < 0 {
		return errors.New("Logging RateLimitBurst must be >= 0")
	}
	if c.Logging.RateLimitBurst > 0 && c.Logging.RateLimitWindow <= 0 {
		return errors.New("Logging RateLimitWindow must be > 0 when RateLimitBurst is set")
	}
	return nil
}
