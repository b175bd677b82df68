package statlog

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/MrEthical07/goStats/stat"
	"github.com/joeycumines/logiface"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
)

// Options carries everything a Factory may need. Fields irrelevant to the
// selected sink are ignored.
type Options struct {
	// Name labels the sink in text output and structured logs.
	Name string
	// Instance identifies the producing process in JSON, Redis and SQLite
	// output.
	Instance string
	// Writer overrides the destination of the "json" sink.
	Writer io.Writer
	// Log is the structured logger used by the "log" sink and for sink
	// diagnostics.
	Log *logiface.Logger[logiface.Event]
	// Targets lists the sink names fanned out to by "multi".
	Targets []string

	StatsD     StatsDConfig
	JSON       JSONConfig
	Redis      RedisConfig
	SQLite     SQLiteConfig
	Prometheus PrometheusConfig

	RedisClient redis.UniversalClient
	Meter       metric.Meter
}

// Factory builds a stat logger from opts.
type Factory func(opts Options) (stat.Logger, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func init() {
	Register("stderr", func(o Options) (stat.Logger, error) { return NewWriter(os.Stderr, o.Name), nil })
	Register("stdout", func(o Options) (stat.Logger, error) { return NewWriter(os.Stdout, o.Name), nil })
	Register("log", func(o Options) (stat.Logger, error) { return NewStructured(o.Log, o.Name), nil })
	Register("none", func(Options) (stat.Logger, error) { return Discard{}, nil })
	Register("json", openJSON)
	Register("statsd", func(o Options) (stat.Logger, error) { return NewStatsD(o.StatsD, o.Log), nil })
	Register("redis", func(o Options) (stat.Logger, error) { return NewRedis(o.RedisClient, o.Redis, o.Instance) })
	Register("sqlite", func(o Options) (stat.Logger, error) { return OpenSQLite(o.SQLite, o.Instance, o.Log) })
	Register("prometheus", func(o Options) (stat.Logger, error) { return NewPrometheus(o.Prometheus), nil })
	Register("otel", func(o Options) (stat.Logger, error) { return NewOTel(o.Meter, o.Name) })
	Register("multi", openMulti)
}

// Register adds or replaces a named factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if f == nil {
		delete(registry, name)
		return
	}
	registry[name] = f
}

// Names lists registered sink names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Open builds the sink registered under name.
func Open(name string, opts Options) (stat.Logger, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLogger, name)
	}
	l, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("open stat logger %q: %w", name, err)
	}
	return l, nil
}

func openMulti(o Options) (stat.Logger, error) {
	children := make([]stat.Logger, 0, len(o.Targets))
	for _, target := range o.Targets {
		if target == "multi" {
			_ = NewMulti(children...).Close()
			return nil, ErrNestedMulti
		}
		child, err := Open(target, o)
		if err != nil {
			_ = NewMulti(children...).Close()
			return nil, err
		}
		children = append(children, child)
	}
	return NewMulti(children...), nil
}

// Discard drops every snapshot.
type Discard struct{}

func (Discard) Log(stat.ID, stat.Tracker, time.Time) error { return nil }
func (Discard) Close() error                                { return nil }
