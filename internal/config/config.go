// Package config loads console settings from the environment with an
// optional YAML file overlay. Precedence: defaults < environment < file;
// command-line flags are applied last by the caller.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBase         string `env:"SHADOWNET_API_BASE" envDefault:"http://127.0.0.1:8000" yaml:"api_base"`
	TimeoutSeconds  int    `env:"SHADOWNET_TIMEOUT_SECONDS" envDefault:"30" yaml:"timeout_seconds"`
	AlertTTLSeconds int    `env:"SHADOWNET_ALERT_TTL_SECONDS" envDefault:"15" yaml:"alert_ttl_seconds"`
	ArchiveDB       string `env:"SHADOWNET_ARCHIVE_DB" yaml:"archive_db"`
	DebugLog        string `env:"SHADOWNET_DEBUG_LOG" yaml:"debug_log"`
	AltScreen       bool   `env:"SHADOWNET_ALT_SCREEN" envDefault:"true" yaml:"alt_screen"`
}

// Load parses the environment and, when path is non-empty, overlays the YAML
// file on top. Unknown file keys are rejected.
func Load(path string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) AlertTTL() time.Duration {
	if c.AlertTTLSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.AlertTTLSeconds) * time.Second
}
