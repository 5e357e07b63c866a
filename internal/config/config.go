// Package config loads taskdeck settings from an optional YAML file and
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "taskdeck.yaml"
	DefaultDataFile   = "todo_data.json"

	EnvConfigFile    = "TASKDECK_CONFIG"
	EnvDataFile      = "TASKDECK_DATA_FILE"
	EnvStorageFormat = "TASKDECK_STORAGE_FORMAT"
	EnvLogLevel      = "TASKDECK_LOG_LEVEL"
)

// Config holds all application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig says where and how the directory snapshot is kept.
type StorageConfig struct {
	Path   string `yaml:"path" validate:"required"`
	Format string `yaml:"format" validate:"required,oneof=json yaml"`
}

// LogConfig controls operator logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level" validate:"required,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"required,oneof=text json logfmt"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Path: DefaultDataFile, Format: "json"},
		Log:     LogConfig{Level: "warn", Format: "text"},
	}
}

// Load builds the configuration in priority order: defaults, config file,
// environment. getenv is usually os.Getenv.
//
// The config file is TASKDECK_CONFIG if set (it must then exist), otherwise
// taskdeck.yaml in the working directory if present.
func Load(getenv func(string) string) (*Config, error) {
	cfg := Default()

	path := getenv(EnvConfigFile)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := loadFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	applyEnv(cfg, getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvDataFile)); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(getenv(EnvStorageFormat)); v != "" {
		cfg.Storage.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
