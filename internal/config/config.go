// Package config loads vlist configuration from files, the environment and
// defaults, and maps it onto engine options.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	virtual "github.com/grindlemire/go-virtual"
)

// EnvPrefix prefixes every environment variable read by Load,
// e.g. VLIST_ENGINE_AHEAD_MARGIN.
const EnvPrefix = "VLIST"

// Config is the complete vlist configuration.
type Config struct {
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
}

// EngineConfig holds the windowing parameters.
type EngineConfig struct {
	AheadMargin  int `mapstructure:"ahead_margin" yaml:"ahead_margin"`
	BehindMargin int `mapstructure:"behind_margin" yaml:"behind_margin"`
	InitialCount int `mapstructure:"initial_count" yaml:"initial_count"`
	MaxHidden    int `mapstructure:"max_hidden" yaml:"max_hidden"`
}

// LoggerConfig configures the CLI logger.
type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	// -- Engine --
	v.SetDefault("engine.ahead_margin", virtual.DefaultAheadMargin)
	v.SetDefault("engine.behind_margin", virtual.DefaultBehindMargin)
	v.SetDefault("engine.initial_count", virtual.DefaultInitialCount)
	v.SetDefault("engine.max_hidden", 0)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
}

// NewDefaultConfig returns the configuration made of defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// Defaults always validate.
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return cfg
}

// NewViper returns a viper instance with defaults registered and environment
// variables bound. When path is empty it searches for vlist.yaml or
// vlist.toml in the working directory.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("vlist")
		v.AddConfigPath(".")
	}
	return v
}

// Load reads the configuration file, if any, and returns the validated
// configuration. A missing file is only an error when path names it.
func Load(path string) (*Config, error) {
	v := NewViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper decodes and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Engine.AheadMargin < 0 {
		return fmt.Errorf("engine.ahead_margin must not be negative")
	}
	if c.Engine.BehindMargin < 0 {
		return fmt.Errorf("engine.behind_margin must not be negative")
	}
	if c.Engine.InitialCount <= 0 {
		return fmt.Errorf("engine.initial_count must be a positive integer")
	}
	if c.Engine.MaxHidden < 0 {
		return fmt.Errorf("engine.max_hidden must not be negative")
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the logger configuration.
func (l *LoggerConfig) Validate() error {
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("unknown level %q", l.Level)
	}
	switch l.Format {
	case "console", "json":
	default:
		return fmt.Errorf("format must be console or json, got %q", l.Format)
	}
	if l.File != "" && l.MaxSize <= 0 {
		return fmt.Errorf("max_size must be a positive integer when a file is set")
	}
	return nil
}

// EngineOptions converts the engine section into registry options.
func (c *Config) EngineOptions() []virtual.Option {
	return []virtual.Option{
		virtual.WithMargins(c.Engine.AheadMargin, c.Engine.BehindMargin),
		virtual.WithInitialCount(c.Engine.InitialCount),
		virtual.WithMaxHidden(c.Engine.MaxHidden),
	}
}
