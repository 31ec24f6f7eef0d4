// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"os"

	"github.com/charmbracelet/log"
)

// DefaultMaxAliasRestarts bounds alias redirection per top-level resolution.
const DefaultMaxAliasRestarts = 8

// Option configures a Loader.
type Option func(*Loader)

// WithFileSystem replaces the host filesystem.
func WithFileSystem(fsys FileSystem) Option {
	return func(l *Loader) { l.fs = fsys }
}

// WithRegistry sets the builtin registry. A loader without one has no builtins.
func WithRegistry(r *Registry) Option {
	return func(l *Loader) { l.registry = r }
}

// WithRoots sets the search roots explicitly, bypassing EnvModulePath.
func WithRoots(roots ...string) Option {
	return func(l *Loader) { l.roots = append([]string{}, roots...) }
}

// WithGetenv sets the environment accessor used for EnvModulePath and the
// home directory.
func WithGetenv(getenv func(string) string) Option {
	return func(l *Loader) { l.getenv = getenv }
}

// WithBaseDir anchors relative paths. Defaults to the working directory.
func WithBaseDir(dir string) Option {
	return func(l *Loader) { l.baseDir = dir }
}

// WithNativeDir sets the directory relative native library names join.
func WithNativeDir(dir string) Option {
	return func(l *Loader) { l.nativeDir = dir }
}

// WithManifestName changes the manifest file name looked up for aliases.
func WithManifestName(name string) Option {
	return func(l *Loader) { l.manifestName = name }
}

// WithMaxAliasRestarts caps alias-driven restarts per resolution.
func WithMaxAliasRestarts(n int) Option {
	return func(l *Loader) { l.maxRestarts = n }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithHistory records every successful Load in h.
func WithHistory(h *History) Option {
	return func(l *Loader) { l.history = h }
}

// WithFatalHandler replaces the circular-dependency handler. The default
// logs the stack and exits the process with status 1. When the handler
// returns, the loader returns the error without handing out a module.
func WithFatalHandler(fn func(*CircularDependencyError)) Option {
	return func(l *Loader) { l.fatal = fn }
}

// NewLogger returns the default loader logger writing to stderr.
func NewLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "jsmod"})
	logger.SetLevel(log.WarnLevel)
	return logger
}

func defaultFatal(logger *log.Logger) func(*CircularDependencyError) {
	return func(err *CircularDependencyError) {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
