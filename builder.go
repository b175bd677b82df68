package goStats

import (
	"errors"

	"github.com/MrEthical07/goStats/internal/conductor"
	"github.com/MrEthical07/goStats/statlog"
	"github.com/google/uuid"
	"github.com/joeycumines/logiface"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
)

// Builder defines a public type used by goStats APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	statLogger StatLogger
	log        *logiface.Logger[logiface.Event]
	redis      redis.UniversalClient
	meter      metric.Meter
	clock      Clock

	built bool
}

// New describes the new operation and its observable behavior.
//
// New returns a Builder holding DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig replaces the whole configuration with a copy of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStatLogger supplies the sink directly, bypassing StatLogger.Impl. The
// engine takes ownership and closes it on Close.
func (b *Builder) WithStatLogger(l StatLogger) *Builder {
	b.statLogger = l
	return b
}

// WithLogger replaces the default stumpy logger built from Logging.
func (b *Builder) WithLogger(log *logiface.Logger[logiface.Event]) *Builder {
	b.log = log
	return b
}

// WithRedis provides the client used by the "redis" stat logger. The caller
// keeps ownership of the client.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithMeter provides the meter used by the "otel" stat logger.
func (b *Builder) WithMeter(meter metric.Meter) *Builder {
	b.meter = meter
	return b
}

// WithClock replaces the scheduler time source.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build validates the configuration, opens the stat logger unless one was
// supplied, and starts the conductor. A Builder can be built once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	b.built = true

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := b.log
	if log == nil {
		l, err := NewLogger(cfg.Logging, nil)
		if err != nil {
			return nil, err
		}
		log = l
	}

	instanceID := uuid.NewString()
	metrics := NewMetrics(cfg.Metrics)

	// -------- STAT LOGGER --------
	statLogger := b.statLogger
	opened := false
	if statLogger == nil {
		l, err := statlog.Open(cfg.StatLogger.Impl, statlog.Options{
			Name:        cfg.StatLogger.Name,
			Instance:    instanceID,
			Log:         log,
			Targets:     cfg.StatLogger.Targets,
			StatsD:      cfg.StatLogger.StatsD,
			JSON:        cfg.StatLogger.JSON,
			Redis:       cfg.StatLogger.Redis,
			SQLite:      cfg.StatLogger.SQLite,
			Prometheus:  cfg.StatLogger.Prometheus,
			RedisClient: b.redis,
			Meter:       b.meter,
		})
		if err != nil {
			return nil, err
		}
		statLogger = l
		opened = true
	}

	// -------- CONDUCTOR --------
	clock := b.clock
	if clock == nil {
		clock = conductor.SystemClock{}
	}
	c, err := openConductor(cfg.Conductor, ConductorDeps{
		StatLogger: statLogger,
		Log:        log,
		Metrics:    metrics,
		Clock:      clock,
	})
	if err != nil {
		if opened {
			err = errors.Join(err, statLogger.Close())
		}
		return nil, err
	}

	log.Debug().
		Str("instance", instanceID).
		Str("conductor", cfg.Conductor.Impl).
		Str("stat_logger", cfg.StatLogger.Impl).
		Log("stats engine built")

	return &Engine{
		config:     cfg,
		conductor:  c,
		log:        log,
		metrics:    metrics,
		instanceID: instanceID,
	}, nil
}
