// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jsmod/jsmod/internal/issue"
	"github.com/jsmod/jsmod/pkg/cueutil"
	"github.com/jsmod/jsmod/pkg/jsmod"
	"github.com/jsmod/jsmod/pkg/platform"

	"github.com/spf13/viper"
	"mvdan.cc/sh/v3/shell"
)

const (
	// AppName is the application name.
	AppName = "jsmod"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the jsmod configuration directory: %APPDATA% on
// Windows, ~/Library/Application Support on macOS and $XDG_CONFIG_HOME
// (default ~/.config) elsewhere.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var dir string
	switch runtime.GOOS {
	case platform.Windows:
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, "Library", "Application Support")
	default:
		dir = os.Getenv("XDG_CONFIG_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(dir, AppName), nil
}

// FilePath returns the config file inside dir, or inside ConfigDir when dir
// is empty.
func FilePath(dir string) (string, error) {
	dir, err := configDirWithOverride(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions reads the first config file found (explicit path, config
// directory, working directory) over the defaults. No file is not an error.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("module_path", defaults.ModulePath)
	v.SetDefault("native_dir", defaults.NativeDir)
	v.SetDefault("manifest", defaults.Manifest)
	v.SetDefault("max_alias_restarts", defaults.MaxAliasRestarts)
	v.SetDefault("preload", defaults.Preload)
	v.SetDefault("history.enabled", defaults.History.Enabled)
	v.SetDefault("history.file", defaults.History.File)
	v.SetDefault("log.level", string(defaults.Log.Level))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	path, err := locate(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the #Config schema").
				WithSuggestion("Run 'jsmod config show' to see the effective configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	return &cfg, path, nil
}

// locate picks the config file to read, or "" when none exists.
func locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'jsmod config init' to create a default file").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	path, err := FilePath(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if fileExists(path) {
		return path, nil
	}
	if local := ConfigFileName + "." + ConfigFileExt; fileExists(local) {
		return local, nil
	}
	return "", nil
}

func configDirWithOverride(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// v. Fields stay optional, so concreteness is not required.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	values, err := cueutil.DecodeMap(configSchema, data, "#Config",
		cueutil.WithConcrete(false), cueutil.WithFilename(path))
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Expand performs shell-style $VAR and ${VAR} expansion using getenv.
func Expand(s string, getenv func(string) string) (string, error) {
	if !strings.Contains(s, "$") {
		return s, nil
	}
	out, err := shell.Expand(s, getenv)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", s, err)
	}
	return out, nil
}

// SearchRoots applies root precedence: JSMOD_MODULE_PATH, then the expanded
// module_path entries, then jsmod.DefaultModuleRoot.
func (c *Config) SearchRoots(getenv func(string) string) ([]string, error) {
	if list := getenv(jsmod.EnvModulePath); list != "" {
		return jsmod.SplitRoots(list), nil
	}
	if len(c.ModulePath) == 0 {
		return []string{jsmod.DefaultModuleRoot}, nil
	}
	roots := make([]string, 0, len(c.ModulePath))
	for _, r := range c.ModulePath {
		exp, err := Expand(r, getenv)
		if err != nil {
			return nil, &InvalidConfigError{Field: "module_path", Err: err}
		}
		if exp != "" {
			roots = append(roots, exp)
		}
	}
	return roots, nil
}

// HistoryPath returns the expanded history file, defaulting to
// ~/.jsmod_modules.
func (c *Config) HistoryPath(getenv func(string) string) (string, error) {
	if c.History.File == "" {
		return jsmod.DefaultHistoryPath(getenv)
	}
	p, err := Expand(c.History.File, getenv)
	if err != nil {
		return "", &InvalidConfigError{Field: "history.file", Err: err}
	}
	return p, nil
}

// NativeDirPath returns the expanded native module directory.
func (c *Config) NativeDirPath(getenv func(string) string) (string, error) {
	p, err := Expand(c.NativeDir, getenv)
	if err != nil {
		return "", &InvalidConfigError{Field: "native_dir", Err: err}
	}
	return p, nil
}

// CreateDefaultConfig writes a default config file into dir (ConfigDir when
// empty) unless one exists, and returns its path and whether it was created.
func CreateDefaultConfig(dir string) (string, bool, error) {
	path, err := FilePath(dir)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, true, nil
}

// GenerateCUE renders cfg as a config file.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// jsmod configuration\n")
	sb.WriteString("// JSMOD_MODULE_PATH overrides module_path when set.\n\n")

	sb.WriteString("module_path: [")
	for i, r := range cfg.ModulePath {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", r)
	}
	sb.WriteString("]\n")

	fmt.Fprintf(&sb, "native_dir: %q\n", cfg.NativeDir)
	fmt.Fprintf(&sb, "manifest: %q\n", cfg.Manifest)
	fmt.Fprintf(&sb, "max_alias_restarts: %d\n", cfg.MaxAliasRestarts)

	sb.WriteString("preload: [")
	for i, p := range cfg.Preload {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", p)
	}
	sb.WriteString("]\n")

	sb.WriteString("\nhistory: {\n")
	fmt.Fprintf(&sb, "\tenabled: %v\n", cfg.History.Enabled)
	if cfg.History.File != "" {
		fmt.Fprintf(&sb, "\tfile: %q\n", cfg.History.File)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
