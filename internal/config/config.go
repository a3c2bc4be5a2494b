package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Redis    RedisConfig    `yaml:"redis"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Log      LogConfig      `yaml:"log"`
	Scenario ScenarioConfig `yaml:"scenario"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// AuthConfig.Required makes every civ-scoped route check X-Civ-Key.
type AuthConfig struct {
	Required bool `yaml:"required"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" validate:"oneof=memory postgres"`
	DSN    string `yaml:"dsn" validate:"required_if=Driver postgres"`
	// Migrate applies the embedded SQL migrations on start.
	Migrate bool `yaml:"migrate"`
}

// SnapshotConfig selects where per-turn snapshots go. An empty BadgerPath
// keeps them in postgres when that driver is active, or drops them.
type SnapshotConfig struct {
	BadgerPath     string  `yaml:"badger_path"`
	InMemory       bool    `yaml:"in_memory"`
	GCDiscardRatio float64 `yaml:"gc_discard_ratio" validate:"gte=0,lt=1"`
}

type RedisConfig struct {
	URL    string `yaml:"url" validate:"omitempty,url"`
	Stream string `yaml:"stream"`
	Group  string `yaml:"group"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Exporter    string  `yaml:"exporter" validate:"oneof=none stdout"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type ScenarioConfig struct {
	// Path of the universe seed YAML loaded at start.
	Path string `yaml:"path"`
}

func Default() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080"},
		Storage:  StorageConfig{Driver: StorageMemory},
		Snapshot: SnapshotConfig{GCDiscardRatio: 0.5},
		Redis:    RedisConfig{Stream: "diplomacy_events", Group: "diplomacy_observers"},
		Metrics:  MetricsConfig{Addr: ":9090"},
		Tracing:  TracingConfig{Exporter: "none", SampleRatio: 1},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load layers the YAML file at path (optional) and BOTF2_* environment
// variables over the defaults, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var configValidator = validator.New()

func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}

	str("BOTF2_ADDR", &cfg.Server.Addr)
	boolean("BOTF2_AUTH_REQUIRED", &cfg.Auth.Required)
	str("BOTF2_STORAGE", &cfg.Storage.Driver)
	str("BOTF2_DB_DSN", &cfg.Storage.DSN)
	boolean("BOTF2_DB_MIGRATE", &cfg.Storage.Migrate)
	str("BOTF2_BADGER_PATH", &cfg.Snapshot.BadgerPath)
	str("BOTF2_REDIS_URL", &cfg.Redis.URL)
	str("BOTF2_REDIS_STREAM", &cfg.Redis.Stream)
	str("BOTF2_METRICS_ADDR", &cfg.Metrics.Addr)
	boolean("BOTF2_TRACING", &cfg.Tracing.Enabled)
	str("BOTF2_TRACING_EXPORTER", &cfg.Tracing.Exporter)
	float("BOTF2_TRACING_SAMPLE_RATIO", &cfg.Tracing.SampleRatio)
	str("BOTF2_LOG_LEVEL", &cfg.Log.Level)
	str("BOTF2_LOG_FORMAT", &cfg.Log.Format)
	str("BOTF2_SCENARIO", &cfg.Scenario.Path)
	return errors.Join(errs...)
}

func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
