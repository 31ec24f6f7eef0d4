// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/jsmod/jsmod/pkg/jsmod"
	"github.com/jsmod/jsmod/pkg/platform"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of loader diagnostics.
	LogLevel string

	// InvalidLogLevelError reports an unknown LogLevel.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError reports a field that passed the schema but is
	// still unusable.
	InvalidConfigError struct {
		Field string
		Err   error
	}

	// Config is the jsmod configuration.
	Config struct {
		ModulePath       []string      `json:"module_path" yaml:"module_path" mapstructure:"module_path"`
		NativeDir        string        `json:"native_dir" yaml:"native_dir" mapstructure:"native_dir"`
		Manifest         string        `json:"manifest" yaml:"manifest" mapstructure:"manifest"`
		MaxAliasRestarts int           `json:"max_alias_restarts" yaml:"max_alias_restarts" mapstructure:"max_alias_restarts"`
		Preload          []string      `json:"preload" yaml:"preload" mapstructure:"preload"`
		History          HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
		Log              LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
		UI               UIConfig      `json:"ui" yaml:"ui" mapstructure:"ui"`
	}

	// HistoryConfig controls the loaded-module history file.
	HistoryConfig struct {
		Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
		File    string `json:"file" yaml:"file" mapstructure:"file"`
	}

	// LogConfig controls diagnostics.
	LogConfig struct {
		Level LogLevel `json:"level" yaml:"level" mapstructure:"level"`
	}

	// UIConfig controls CLI presentation.
	UIConfig struct {
		Verbose bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	}
)

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (expected debug, info, warn or error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config field %s: %v", e.Field, e.Err)
}

func (e *InvalidConfigError) Unwrap() []error { return []error{ErrInvalidConfig, e.Err} }

// Validate returns an *InvalidLogLevelError for unknown levels.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// String returns the level name.
func (l LogLevel) String() string { return string(l) }

// Validate checks constraints the schema cannot express.
func (c *Config) Validate() error {
	if err := c.Log.Level.Validate(); err != nil {
		return &InvalidConfigError{Field: "log.level", Err: err}
	}
	if c.MaxAliasRestarts < 0 {
		return &InvalidConfigError{Field: "max_alias_restarts", Err: fmt.Errorf("must not be negative, got %d", c.MaxAliasRestarts)}
	}
	if c.Manifest == "" {
		return &InvalidConfigError{Field: "manifest", Err: errors.New("must not be empty")}
	}
	if platform.IsWindowsReservedName(c.Manifest) {
		return &InvalidConfigError{Field: "manifest", Err: fmt.Errorf("%q is a reserved file name on Windows", c.Manifest)}
	}
	return nil
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		ModulePath:       []string{},
		NativeDir:        jsmod.DefaultNativeDir,
		Manifest:         jsmod.DefaultManifestName,
		MaxAliasRestarts: jsmod.DefaultMaxAliasRestarts,
		Preload:          []string{},
		History:          HistoryConfig{Enabled: true},
		Log:              LogConfig{Level: LogLevelWarn},
	}
}
