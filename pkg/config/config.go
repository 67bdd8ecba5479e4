// Package config loads tlstr settings from a YAML file and TLSTR_* environment
// variables.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"typelib-go/pkg/strsplit"
	"typelib-go/pkg/transform"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Delimiter        string `mapstructure:"delimiter"`
	SplitMode        string `mapstructure:"split_mode"`
	Compression      string `mapstructure:"compression"` // none, gzip, zstd
	CompressionLevel int    `mapstructure:"compression_level"`
	MaxBuffer        int    `mapstructure:"max_buffer"` // 0 means no ceiling
	LogDB            string `mapstructure:"log_db"`     // empty keeps logs on stderr
	LogLevel         string `mapstructure:"log_level"`
	ConfigFile       string `mapstructure:"config_file"`
}

func DefaultConfig() *Config {
	return &Config{
		Delimiter:        ",",
		SplitMode:        strsplit.KeepText.String(),
		Compression:      "none",
		CompressionLevel: 3,
		MaxBuffer:        0,
		LogLevel:         "info",
		ConfigFile:       "tlstr",
	}
}

// LoadConfig reads configuration from file (or the default search paths when
// file is empty), then the environment, over DefaultConfig. A missing config
// file is not an error.
func LoadConfig(file string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetDefault("delimiter", cfg.Delimiter)
	v.SetDefault("split_mode", cfg.SplitMode)
	v.SetDefault("compression", cfg.Compression)
	v.SetDefault("compression_level", cfg.CompressionLevel)
	v.SetDefault("max_buffer", cfg.MaxBuffer)
	v.SetDefault("log_db", cfg.LogDB)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("config_file", cfg.ConfigFile)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(cfg.ConfigFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/typelib-go/")
		v.AddConfigPath("$HOME/.typelib-go")
	}
	v.SetEnvPrefix("TLSTR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		cfg.ConfigFile = used
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field holds a value the tools can act on.
func (c *Config) Validate() error {
	if c.Delimiter == "" {
		return fmt.Errorf("%w: delimiter must not be empty", ErrInvalidConfig)
	}
	if _, err := strsplit.ParseMode(c.SplitMode); err != nil {
		return fmt.Errorf("%w: split_mode: %v", ErrInvalidConfig, err)
	}
	if _, err := transform.ByName(c.Compression, c.CompressionLevel); err != nil {
		return fmt.Errorf("%w: compression: %v", ErrInvalidConfig, err)
	}
	if c.MaxBuffer < 0 {
		return fmt.Errorf("%w: max_buffer must be >= 0, got %d", ErrInvalidConfig, c.MaxBuffer)
	}
	return nil
}
