// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/jsmod/jsmod/internal/config"
	"github.com/jsmod/jsmod/internal/engine"
	"github.com/jsmod/jsmod/pkg/jsmod"
)

type (
	// ConfigProvider loads configuration for a command invocation.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Loaded, error)
	}

	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives an App and builds a session from it.
	App struct {
		Config ConfigProvider
		Getenv func(string) string
		stdout io.Writer
		stderr io.Writer
		flags  rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Getenv func(string) string
		Stdout io.Writer
		Stderr io.Writer
	}

	rootFlags struct {
		verbose    bool
		debug      bool
		configPath string
		baseDir    string
		format     string
		modulePath []string
		preload    []string
	}

	// session is the per-invocation loader context: one engine table, one
	// loader, and the history it records into.
	session struct {
		cfg     *config.Config
		cfgPath string
		logger  *log.Logger
		table   *engine.Table
		loader  *jsmod.Loader
		history *jsmod.History
	}
)

// NewApp creates an App, filling nil dependencies with defaults.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}

	return &App{
		Config: deps.Config,
		Getenv: deps.Getenv,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfig loads the configuration selected by --config.
func (a *App) loadConfig(ctx context.Context) (*config.Loaded, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
}

// newSession loads configuration and builds a loader over a fresh reference
// engine. With preload set, the --module flags and the config preload list
// are loaded before returning.
func (a *App) newSession(ctx context.Context, preload bool) (*session, error) {
	loaded, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	cfg := loaded.Config
	if cfg.UI.Verbose {
		a.flags.verbose = true
	}

	logger := a.newLogger(cfg)

	roots, err := a.roots(cfg)
	if err != nil {
		return nil, err
	}
	nativeDir, err := cfg.NativeDirPath(a.Getenv)
	if err != nil {
		return nil, err
	}

	reg := jsmod.NewRegistry()
	if err := engine.RegisterDefaults(reg); err != nil {
		return nil, err
	}
	tbl := engine.New(engine.WithLogger(logger))

	opts := []jsmod.Option{
		jsmod.WithRegistry(reg),
		jsmod.WithRoots(roots...),
		jsmod.WithGetenv(a.Getenv),
		jsmod.WithNativeDir(nativeDir),
		jsmod.WithManifestName(cfg.Manifest),
		jsmod.WithMaxAliasRestarts(cfg.MaxAliasRestarts),
		jsmod.WithLogger(logger),
		// The command reports the cycle and exits with its own code.
		jsmod.WithFatalHandler(func(*jsmod.CircularDependencyError) {}),
	}
	if a.flags.baseDir != "" {
		dir, err := filepath.Abs(a.flags.baseDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, jsmod.WithBaseDir(dir))
	}

	s := &session{cfg: cfg, cfgPath: loaded.Path, logger: logger, table: tbl}
	if cfg.History.Enabled {
		path, err := cfg.HistoryPath(a.Getenv)
		if err != nil {
			return nil, err
		}
		s.history = jsmod.NewHistory(path)
		if err := s.history.Restore(); err != nil {
			logger.Debug("history not restored", "path", path, "err", err)
		}
		opts = append(opts, jsmod.WithHistory(s.history))
	}

	l, err := jsmod.New(tbl, opts...)
	if err != nil {
		return nil, err
	}
	tbl.SetImporter(l)
	s.loader = l

	if preload {
		for _, spec := range append(append([]string(nil), cfg.Preload...), a.flags.preload...) {
			if _, err := l.Load(spec, ""); err != nil {
				return nil, describe("preload module", spec, l, err)
			}
		}
	}
	return s, nil
}

func (a *App) newLogger(cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: "jsmod"})
	level, err := log.ParseLevel(cfg.Log.Level.String())
	if err != nil {
		level = log.WarnLevel
	}
	if a.flags.debug {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

// roots returns --module-path when given, else the config precedence chain.
func (a *App) roots(cfg *config.Config) ([]string, error) {
	if len(a.flags.modulePath) == 0 {
		return cfg.SearchRoots(a.Getenv)
	}
	var roots []string
	for _, entry := range a.flags.modulePath {
		roots = append(roots, jsmod.SplitRoots(entry)...)
	}
	return roots, nil
}

// saveHistory persists the history file. Failures are logged, never fatal.
func (s *session) saveHistory() {
	if s.history == nil {
		return
	}
	if err := s.history.Save(); err != nil {
		s.logger.Warn("history not saved", "path", s.history.Path(), "err", err)
	}
}
