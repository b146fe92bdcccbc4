// Package config loads runtime settings from an optional YAML file and the
// environment, then validates them against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// History backends.
const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
)

// Config holds the settings shared by every command.
type Config struct {
	RegistryPath   string `yaml:"registry_path" json:"registry_path" env:"REGISTRY_PATH"`
	HistoryPath    string `yaml:"history_path" json:"history_path" env:"HISTORY_PATH"`
	HistoryBackend string `yaml:"history_backend" json:"history_backend" env:"HISTORY_BACKEND"`
	LogLevel       string `yaml:"log_level" json:"log_level" env:"DONUTS_LOG_LEVEL"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		RegistryPath:   "./registry.csv",
		HistoryPath:    "./history.db",
		HistoryBackend: BackendSQLite,
		LogLevel:       "info",
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then environment variables. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true) // Reject unknown fields
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv overrides fields of target from environment variables named by
// their env tags. Unset variables leave fields untouched.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks c against the embedded schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	v := schema.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level returns LogLevel as a slog.Level. Unknown values map to info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
