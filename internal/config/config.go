// Package config handles configuration loading and validation for sisyphus.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	DataFile  string    `yaml:"data_file"`
	Separator string    `yaml:"separator"`
	Divider   string    `yaml:"divider"`
	Indent    string    `yaml:"indent"`
	Log       LogConfig `yaml:"log"`
}

// LogConfig controls where structured logs go.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty means stderr
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataFile:  "data.txt",
		Separator: " | ",
		Divider:   "-----------------------------",
		Indent:    "    ",
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads configuration from path. If path is empty or doesn't exist, the
// defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// defaults
		default:
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
// Indent is left alone: an empty indent is a valid choice.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if strings.TrimSpace(c.DataFile) == "" {
		c.DataFile = defaults.DataFile
	}
	if c.Separator == "" {
		c.Separator = defaults.Separator
	}
	if c.Divider == "" {
		c.Divider = defaults.Divider
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_file", c.DataFile, notDirectory),
		criterio.Run("separator", c.Separator, usableSeparator),
		criterio.Run("log.level", c.Log.Level, logLevel),
		criterio.Run("log.file", c.Log.File, notDirectory),
	)
}

func notDirectory(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil // created on first save
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}

// usableSeparator rejects separators that would collide with record content.
// Dates are written as yyyy-MM-dd HH:mm and the done flag as 0 or 1, so none
// of their characters may appear in the separator.
func usableSeparator(sep string) error {
	if strings.TrimSpace(sep) == "" {
		return fmt.Errorf("must contain a non-space character")
	}
	if strings.ContainsAny(sep, "\r\n") {
		return fmt.Errorf("must not contain a line break")
	}
	if strings.ContainsAny(sep, "0123456789-:") {
		return fmt.Errorf("must not contain digits, '-' or ':' (they occur in dates)")
	}
	return nil
}

func logLevel(level string) error {
	if _, err := zerolog.ParseLevel(level); err != nil {
		return fmt.Errorf("unknown level %q", level)
	}
	return nil
}
