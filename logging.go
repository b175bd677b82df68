package goStats

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// ParseLevel maps a syslog-style level keyword to a logiface level. The empty
// string means info.
func ParseLevel(s string) (logiface.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disabled", "off", "none":
		return logiface.LevelDisabled, nil
	case "emerg", "emergency":
		return logiface.LevelEmergency, nil
	case "alert":
		return logiface.LevelAlert, nil
	case "crit", "critical":
		return logiface.LevelCritical, nil
	case "err", "error":
		return logiface.LevelError, nil
	case "warning", "warn":
		return logiface.LevelWarning, nil
	case "notice":
		return logiface.LevelNotice, nil
	case "", "info", "informational":
		return logiface.LevelInformational, nil
	case "debug":
		return logiface.LevelDebug, nil
	case "trace":
		return logiface.LevelTrace, nil
	default:
		return logiface.LevelDisabled, fmt.Errorf("unknown log level %q", s)
	}
}

// Default per-call-site cap for messages logged with Limit().
const (
	DefaultRateLimitWindow = time.Minute
	DefaultRateLimitBurst  = 20
)

// NewLogger builds the default JSON logger writing to w, or stderr when w is
// nil. Limit() calls are capped per call site when cfg.RateLimitBurst > 0.
func NewLogger(cfg LoggingConfig, w io.Writer) (*logiface.Logger[logiface.Event], error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	opts := []logiface.Option[*stumpy.Event]{
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	}
	if cfg.RateLimitBurst > 0 && cfg.RateLimitWindow > 0 {
		opts = append(opts, stumpy.L.WithCategoryRateLimits(map[time.Duration]int{
			cfg.RateLimitWindow: cfg.RateLimitBurst,
		}))
	}
	return stumpy.L.New(opts...).Logger(), nil
}
