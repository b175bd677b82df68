package goStats

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// EnvConfigPath names a TOML file read by ConfigFromEnv.
	EnvConfigPath = "GOSTATS_CONFIG"
	// EnvEnabled set to a false value forces the disabled conductor.
	EnvEnabled = "GOSTATS_ENABLED"
)

// LoadConfig decodes a TOML file over DefaultConfig and validates the result.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return finishDecode(cfg, md, path)
}

// ParseConfig is LoadConfig for in-memory TOML.
func ParseConfig(data []byte) (Config, error) {
	cfg := defaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return finishDecode(cfg, md, "")
}

func finishDecode(cfg Config, md toml.MetaData, source string) (Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys %s", source, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", source, err)
	}
	return cfg, nil
}

// ConfigFromEnv loads the file named by GOSTATS_CONFIG, or DefaultConfig when
// unset, then applies GOSTATS_ENABLED.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()
	if path := os.Getenv(EnvConfigPath); path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if raw := os.Getenv(EnvEnabled); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvEnabled, err)
		}
		if !enabled {
			cfg.Conductor.Impl = ConductorDisabled
		}
	}
	return cfg, nil
}
