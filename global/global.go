package global

import (
	"errors"
	"sync"

	goStats "github.com/MrEthical07/goStats"
)

// ErrInitialized is returned by Init when an engine is already installed.
var ErrInitialized = errors.New("global stats engine already initialized")

var (
	mu     sync.Mutex
	engine *goStats.Engine
)

// Init builds an engine from cfg and installs it.
func Init(cfg goStats.Config) (*goStats.Engine, error) {
	mu.Lock()
	defer mu.Unlock()

	if engine != nil {
		return nil, ErrInitialized
	}
	e, err := goStats.New().WithConfig(cfg).Build()
	if err != nil {
		return nil, err
	}
	engine = e
	return e, nil
}

// Get returns the installed engine, building one from the environment on
// first use. It never returns nil.
func Get() *goStats.Engine {
	mu.Lock()
	defer mu.Unlock()

	if engine != nil {
		return engine
	}

	cfg, err := goStats.ConfigFromEnv()
	if err == nil {
		engine, err = goStats.New().WithConfig(cfg).Build()
	}
	if err != nil {
		engine = disabled(err)
	}
	return engine
}

func disabled(cause error) *goStats.Engine {
	cfg := goStats.DefaultConfig()
	cfg.Conductor.Impl = goStats.ConductorDisabled
	cfg.StatLogger.Impl = "none"

	log, _ := goStats.NewLogger(cfg.Logging, nil)
	log.Err().
		Err(cause).
		Log("stats engine init failed, recording is disabled")

	e, err := goStats.New().WithConfig(cfg).WithLogger(log).Build()
	if err != nil {
		// Only reachable if the built-in disabled conductor was unregistered.
		panic(err)
	}
	return e
}

// Close closes the installed engine and clears it, allowing Init or Get to
// install a new one.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if engine == nil {
		return nil
	}
	err := engine.Close()
	engine = nil
	return err
}
