package bimindex

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/bimindex/elementindex"
	"github.com/hupe1980/bimindex/keyparam"
	"github.com/hupe1980/bimindex/resource"
)

// Environment variables overriding file configuration.
const (
	EnvBatchSize = "BIMINDEX_BATCH_SIZE"
	EnvWorkers   = "BIMINDEX_WORKERS"
	EnvLogLevel  = "BIMINDEX_LOG_LEVEL"
)

// Config is the file form of the engine settings.
type Config struct {
	// BatchSize is the number of elements resolved between progress reports.
	BatchSize int `yaml:"batch_size" validate:"gte=1,lte=100000"`

	// Workers is the number of goroutines resolving one batch.
	Workers int `yaml:"workers" validate:"gte=1,lte=1024"`

	// ResolvesPerSec caps store record resolutions. 0 means unlimited.
	ResolvesPerSec int64 `yaml:"resolves_per_sec" validate:"gte=0"`

	// LogLevel is one of debug, info, warn, error. Empty keeps the current logger.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// LogFormat is text or json.
	LogFormat string `yaml:"log_format" validate:"omitempty,oneof=text json"`

	// LocalePacks are YAML key parameter pattern files merged into the default table.
	LocalePacks []string `yaml:"locale_packs" validate:"dive,required"`
}

var configValidate = validator.New()

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		BatchSize: elementindex.DefaultBatchSize,
		Workers:   1,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads a YAML configuration on top of DefaultConfig.
// Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads the configuration at path, applies environment
// overrides and validates the result. A missing file yields the defaults.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		data = nil
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := LoadConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBatchSize); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvBatchSize, err)
		}
		c.BatchSize = n
	}
	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvWorkers, err)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	return nil
}

// Table returns the default key parameter table extended with the configured
// locale packs.
func (c *Config) Table() (*keyparam.Table, error) {
	t := keyparam.Default()
	for _, path := range c.LocalePacks {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: locale pack: %w", ErrInvalidConfig, err)
		}
		err = t.Load(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: locale pack %s: %w", ErrInvalidConfig, path, err)
		}
	}
	return t, nil
}

func (c *Config) logger() *Logger {
	var level slog.Level
	switch c.LogLevel {
	case "":
		return nil
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if c.LogFormat == "json" {
		return NewJSONLogger(level)
	}
	return NewTextLogger(level)
}

// Options converts the configuration into options.
//
// Example:
//
//	cfg, err := bimindex.LoadConfigFile("bimindex.yaml")
//	if err != nil {
//	    return err
//	}
//	opts, err := cfg.Options()
//	if err != nil {
//	    return err
//	}
//	m := bimindex.Open(st, id, opts...)
func (c *Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts := []Option{
		WithBatchSize(c.BatchSize),
		WithWorkers(c.Workers),
	}
	if c.ResolvesPerSec > 0 || c.Workers > 1 {
		opts = append(opts, WithResourceController(resource.NewController(resource.Config{
			MaxWorkers:     int64(c.Workers),
			ResolvesPerSec: c.ResolvesPerSec,
		})))
	}
	if len(c.LocalePacks) > 0 {
		t, err := c.Table()
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithKeyParamTable(t))
	}
	if l := c.logger(); l != nil {
		opts = append(opts, WithLogger(l))
	}
	return opts, nil
}
