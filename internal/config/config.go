// Package config loads runtime settings from an optional YAML file and
// FORMDOC_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

type Config struct {
	HTTP  HTTPConfig  `yaml:"http"`
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
	Theme ThemeConfig `yaml:"theme"`
	Form  FormConfig  `yaml:"form"`
}

type HTTPConfig struct {
	Addr            string `yaml:"addr"`
	MaxRequestBytes int64  `yaml:"max_request_bytes"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ThemeConfig points at a go-theme manifest file. Empty means no theme.
type ThemeConfig struct {
	Manifest string `yaml:"manifest"`
	Variant  string `yaml:"variant"`
}

// FormConfig points at a preset file of label and metadata overrides applied
// to every form. HumanizeLabels turns ids left as labels into words, so
// "nome_cliente" is shown as "Nome Cliente".
type FormConfig struct {
	Preset         string `yaml:"preset"`
	HumanizeLabels bool   `yaml:"humanize_labels"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		HTTP:  HTTPConfig{Addr: ":8080", MaxRequestBytes: 8 << 20},
		Store: StoreConfig{Driver: DriverSQLite, DSN: "file:formdoc.db?cache=shared&mode=rwc"},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads path when it is not empty, then applies environment overrides
// and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the store driver and log level.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == DriverSQLite && strings.TrimSpace(c.Store.DSN) == "" {
		return errors.New("config: sqlite store requires a dsn")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTP.Addr = getEnv("FORMDOC_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.Store.Driver = getEnv("FORMDOC_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DSN = getEnv("FORMDOC_STORE_DSN", cfg.Store.DSN)
	cfg.Log.Level = getEnv("FORMDOC_LOG_LEVEL", cfg.Log.Level)
	cfg.Theme.Manifest = getEnv("FORMDOC_THEME_MANIFEST", cfg.Theme.Manifest)
	cfg.Theme.Variant = getEnv("FORMDOC_THEME_VARIANT", cfg.Theme.Variant)
	cfg.Form.Preset = getEnv("FORMDOC_FORM_PRESET", cfg.Form.Preset)

	if raw := getEnv("FORMDOC_HTTP_MAX_REQUEST_BYTES", ""); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("config: FORMDOC_HTTP_MAX_REQUEST_BYTES: %w", err)
		}
		cfg.HTTP.MaxRequestBytes = n
	}
	if raw := getEnv("FORMDOC_LOG_DEVELOPMENT", ""); raw != "" {
		dev, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: FORMDOC_LOG_DEVELOPMENT: %w", err)
		}
		cfg.Log.Development = dev
	}
	if raw := getEnv("FORMDOC_FORM_HUMANIZE_LABELS", ""); raw != "" {
		humanize, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: FORMDOC_FORM_HUMANIZE_LABELS: %w", err)
		}
		cfg.Form.HumanizeLabels = humanize
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
