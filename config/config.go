/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"dirpx.dev/verbridge/apis"
)

const (
	// DefaultAutoSeal represents the default for AutoSeal.
	// Sealing stays an explicit call unless enabled.
	DefaultAutoSeal = false
	// DefaultVerifyTags represents the default for VerifyTags.
	DefaultVerifyTags = true
	// DefaultLogLevel represents the default for LogLevel.
	DefaultLogLevel = "info"
	// DefaultLogFormat represents the default for LogFormat.
	DefaultLogFormat = "json"
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		AutoSeal:   DefaultAutoSeal,
		VerifyTags: DefaultVerifyTags,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithAutoSeal sets the AutoSeal option.
func WithAutoSeal(seal bool) Option {
	return func(c *apis.Config) {
		c.AutoSeal = seal
	}
}

// WithVerifyTags sets the VerifyTags option.
func WithVerifyTags(verify bool) Option {
	return func(c *apis.Config) {
		c.VerifyTags = verify
	}
}

// WithLogLevel sets the LogLevel option.
// An empty level resets to the default.
func WithLogLevel(level string) Option {
	return func(c *apis.Config) {
		if level == "" {
			level = DefaultLogLevel
		}
		c.LogLevel = level
	}
}

// WithLogFormat sets the LogFormat option.
// An empty format resets to the default.
func WithLogFormat(format string) Option {
	return func(c *apis.Config) {
		if format == "" {
			format = DefaultLogFormat
		}
		c.LogFormat = format
	}
}

// Load reads configuration from the YAML file at path with VERBRIDGE_*
// environment overrides. Keys missing from the file keep their defaults.
func Load(path string) (apis.Config, error) {
	cfg := DefaultConfig()
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return apis.Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return apis.Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML data on top of the defaults and then applies
// VERBRIDGE_* environment overrides.
func Parse(data []byte) (apis.Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return apis.Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return apis.Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return apis.Config{}, err
	}
	return cfg, nil
}

// Validate checks the logging fields of cfg.
func Validate(cfg apis.Config) error {
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log_format %q: want json or console", cfg.LogFormat)
	}
	return nil
}

// NewLogger builds a zap logger for cfg: the production preset for "json"
// and the development preset for "console", both at cfg.LogLevel.
func NewLogger(cfg apis.Config) (*zap.Logger, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	level, _ := zapcore.ParseLevel(cfg.LogLevel)

	logConfig := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		logConfig = zap.NewDevelopmentConfig()
	}
	logConfig.Level = zap.NewAtomicLevelAt(level)
	return logConfig.Build()
}
