package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the tagdump configuration. A YAML file supplies the base
// values; flags given on the command line override them.
type Config struct {
	// Output is "text", "yaml" or "cbor".
	Output string `yaml:"output"`

	Strict     bool `yaml:"strict"`
	Properties bool `yaml:"properties"`
	Sum        bool `yaml:"sum"`
	Blocks     bool `yaml:"blocks"`

	// LogLevel is a slog level name for parse warnings on stderr.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Output:     "text",
		Properties: true,
		LogLevel:   "warn",
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the YAML decoder cannot.
func (c Config) Validate() error {
	switch c.Output {
	case "text", "yaml", "cbor":
	default:
		return fmt.Errorf("unknown output format %q (want text, yaml or cbor)", c.Output)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
