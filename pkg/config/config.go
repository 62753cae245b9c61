package config

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// DefaultCapacity matches the largest TCP receive window, the size the
// buffer was first sized for.
const DefaultCapacity = 1<<16 - 1

type Config struct {
	Buffer  BufferConfig  `yaml:"buffer"`
	Log     LogConfig     `yaml:"log"`
	Shell   ShellConfig   `yaml:"shell"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type BufferConfig struct {
	Capacity int `yaml:"capacity"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

type ShellConfig struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file,omitempty"`
}

type MetricsConfig struct {
	// Addr is where /metrics is served; empty disables the server.
	Addr string `yaml:"addr,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Buffer: BufferConfig{Capacity: DefaultCapacity},
		Log:    LogConfig{Level: "info", Format: "text"},
		Shell:  ShellConfig{Prompt: "> "},
	}
}

// Load reads a YAML file on top of Default. An empty path returns Default.
// The result is not validated; callers apply overrides first and then call
// Validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := Parse(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes data into cfg, keeping any field the document leaves out.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "parse error")
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Buffer.Capacity <= 0 {
		return errors.Errorf("buffer.capacity must be positive, got %d", c.Buffer.Capacity)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unknown log.level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}
