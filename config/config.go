// Package config loads the engine's fixed-at-build memory budgets (§5) and
// CORS/logging toggles from a YAML file, the way
// nishisan-dev-n-backup/internal/config loads AgentConfig/ServerConfig:
// a plain struct with yaml tags, a Load(path) that reads and
// unmarshals the file and fills defaults for zero fields.
package config

import (
	"fmt"
	"os"

	units "github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

// Config holds the §5 memory budgets plus the CORS/logging knobs §6/§9
// mention. Size fields accept human-readable strings ("64kb", "1mb") parsed
// with docker/go-units, the same library docker-compose and model-runner
// use for byte-size flags.
type Config struct {
	MaxConnections int    `yaml:"max_connections"`
	MaxHeadLen     string `yaml:"max_head_len"`
	MaxSendBuff    string `yaml:"max_sendbuff_len"`
	MaxPostLen     string `yaml:"max_post_len"`
	MaxBacklog     string `yaml:"max_backlog_size"`
	MaxCORSToken   int    `yaml:"max_cors_token_len"`
	CORSEnabled    bool   `yaml:"cors_enabled"`
	LogLevel       string `yaml:"log_level"`

	// Resolved holds the parsed byte values after Load or ResolveDefaults
	// runs.
	Resolved Budgets `yaml:"-"`
}

// Budgets are the resolved, numeric forms of the size fields above — what
// the engine actually allocates against.
type Budgets struct {
	MaxConnections int
	MaxHeadLen     int
	MaxSendBuff    int
	MaxPostLen     int
	MaxBacklog     int
	MaxCORSToken   int
}

// Default returns the engine's built-in budgets, used when no config file
// is given or a field is left zero.
func Default() Config {
	return Config{
		MaxConnections: 8,
		MaxHeadLen:     "1kb",
		MaxSendBuff:    "2kb",
		MaxPostLen:     "16kb",
		MaxBacklog:     "4kb",
		MaxCORSToken:   128,
		CORSEnabled:    false,
		LogLevel:       "info",
	}
}

// Load reads and unmarshals a YAML config file, filling any zero-valued
// field from Default(), then resolves size strings into Resolved.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolveDefaults parses the human-readable size fields into Resolved. It
// is exposed for callers that build a Config programmatically (e.g.
// config.Default()) instead of through Load, which resolves automatically.
func (c *Config) ResolveDefaults() error { return c.resolve() }

// resolve parses the human-readable size fields into Resolved.
func (c *Config) resolve() error {
	var err error
	if c.Resolved.MaxSendBuff, err = sizeOrDefault(c.MaxSendBuff); err != nil {
		return fmt.Errorf("max_sendbuff_len: %w", err)
	}
	if c.Resolved.MaxHeadLen, err = sizeOrDefault(c.MaxHeadLen); err != nil {
		return fmt.Errorf("max_head_len: %w", err)
	}
	if c.Resolved.MaxPostLen, err = sizeOrDefault(c.MaxPostLen); err != nil {
		return fmt.Errorf("max_post_len: %w", err)
	}
	if c.Resolved.MaxBacklog, err = sizeOrDefault(c.MaxBacklog); err != nil {
		return fmt.Errorf("max_backlog_size: %w", err)
	}
	c.Resolved.MaxConnections = c.MaxConnections
	c.Resolved.MaxCORSToken = c.MaxCORSToken
	return nil
}

func sizeOrDefault(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
