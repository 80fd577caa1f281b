// Package config loads dmiinfo settings from a single file named on the
// command line. There is no discovery and no environment override; the
// file is optional and command-line flags take precedence over it.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/autobrr/go-dmi/internal/dmi"
)

// Config holds the settings shared by the config file and the flags.
type Config struct {
	// Output is the report format name (text, json, yaml, cbor, xml, csv, html).
	Output string `yaml:"output" json:"output"`

	// Lenient skips malformed text chunks instead of failing the file.
	Lenient bool `yaml:"lenient" json:"lenient"`

	// MaxDescriptionBytes caps the decoded Description size.
	MaxDescriptionBytes int64 `yaml:"max_description_bytes" json:"max_description_bytes"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Chunks lists the PNG chunk table instead of analyzing metadata.
	Chunks bool `yaml:"chunks" json:"chunks"`
}

func Default() *Config {
	return &Config{
		Output:              string(dmi.FormatText),
		MaxDescriptionBytes: dmi.DefaultMaxDescriptionBytes,
		LogLevel:            "warn",
	}
}

// Load reads path over the defaults. The format is chosen by extension:
// .yaml and .yml are YAML, .json and .jsonc are JSON with comments and
// trailing commas allowed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q (use .yaml, .yml, .json or .jsonc)", path, filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := dmi.ParseFormat(c.Output); err != nil {
		return err
	}
	if c.MaxDescriptionBytes <= 0 {
		return fmt.Errorf("max_description_bytes must be positive, got %d", c.MaxDescriptionBytes)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Chunks {
		switch format, _ := dmi.ParseFormat(c.Output); format {
		case dmi.FormatText, dmi.FormatJSON, dmi.FormatYAML, dmi.FormatCBOR:
		default:
			return dmi.ErrChunkFormat
		}
	}
	return nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

// Format returns the validated output format.
func (c *Config) Format() dmi.Format {
	format, _ := dmi.ParseFormat(c.Output)
	return format
}

// Options converts the parse settings for the dmi package.
func (c *Config) Options(logger *slog.Logger) dmi.Options {
	return dmi.Options{
		Lenient:             c.Lenient,
		MaxDescriptionBytes: c.MaxDescriptionBytes,
		Logger:              logger,
	}
}
