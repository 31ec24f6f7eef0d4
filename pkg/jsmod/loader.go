// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jsmod/jsmod/internal/dag"
)

// state is a step of the resolution pipeline.
type state int

const (
	stateStart state = iota
	stateStripScheme
	stateDataURI
	stateGuard
	stateBuiltin
	stateAlias
	stateClassify
	stateSearch
	stateDirect
	stateDispatch
	stateNotFound
)

var stateNames = [...]string{
	stateStart:       "START",
	stateStripScheme: "STRIP_SCHEME",
	stateDataURI:     "DATA_URI",
	stateGuard:       "GUARD",
	stateBuiltin:     "BUILTIN",
	stateAlias:       "ALIAS",
	stateClassify:    "CLASSIFY",
	stateSearch:      "SEARCH",
	stateDirect:      "DIRECT",
	stateDispatch:    "DISPATCH",
	stateNotFound:    "NOT_FOUND",
}

func (s state) String() string { return stateNames[s] }

type (
	// Loader resolves specifiers and materializes modules for one script
	// context.
	Loader struct {
		engine   Engine
		fs       FileSystem
		registry *Registry
		builtins map[string]*builtinState
		failed   map[string]bool

		stack     Stack
		manifests manifestCache
		graph     *dag.Graph
		history   *History

		roots        []string
		getenv       func(string) string
		baseDir      string
		nativeDir    string
		manifestName string
		maxRestarts  int

		logger *log.Logger
		fatal  func(*CircularDependencyError)
	}

	// resolution is the working state of one top-level Resolve call.
	resolution struct {
		requested string
		current   string
		chain     []string
		pushed    int

		kind    Kind
		path    string
		builtin Builtin
	}
)

// New creates a Loader driving engine.
func New(engine Engine, opts ...Option) (*Loader, error) {
	if engine == nil {
		return nil, errors.New("jsmod: nil engine")
	}
	l := &Loader{
		engine:       engine,
		fs:           OSFileSystem{},
		builtins:     make(map[string]*builtinState),
		failed:       make(map[string]bool),
		graph:        dag.New(),
		getenv:       os.Getenv,
		nativeDir:    DefaultNativeDir,
		manifestName: DefaultManifestName,
		maxRestarts:  DefaultMaxAliasRestarts,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.registry == nil {
		l.registry = NewRegistry()
	}
	if l.logger == nil {
		l.logger = NewLogger()
	}
	if l.fatal == nil {
		l.fatal = defaultFatal(l.logger)
	}
	if l.roots == nil {
		l.roots = RootsFromEnv(l.getenv)
	}
	if l.baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("jsmod: resolve working directory: %w", err)
		}
		l.baseDir = wd
	}
	if !filepath.IsAbs(l.baseDir) {
		abs, err := filepath.Abs(l.baseDir)
		if err != nil {
			return nil, fmt.Errorf("jsmod: resolve base directory: %w", err)
		}
		l.baseDir = abs
	}
	l.baseDir = filepath.Clean(l.baseDir)
	return l, nil
}

// Roots returns the search roots in probe order.
func (l *Loader) Roots() []string { return append([]string(nil), l.roots...) }

// BaseDir returns the directory relative paths are anchored at.
func (l *Loader) BaseDir() string { return l.baseDir }

// Registry returns the builtin registry.
func (l *Loader) Registry() *Registry { return l.registry }

// Resolve runs spec through the full pipeline and returns the engine's
// module for it. A miss returns a *MissError. A circular dependency invokes
// the fatal handler.
func (l *Loader) Resolve(spec string) (Module, error) {
	r := &resolution{requested: spec, current: spec}
	defer l.release(r)

	st := stateStart
	for {
		l.logger.Debug("resolve", "state", st, "specifier", r.current)

		switch st {
		case stateStart:
			st = stateStripScheme

		case stateStripScheme:
			r.current = TrimScheme(r.current)
			if IsDataURI(r.current) {
				st = stateDataURI
			} else {
				st = stateGuard
			}

		case stateDataURI:
			return l.loadDataURI(r.current)

		case stateGuard:
			if err := l.enter(r, r.current); err != nil {
				return nil, err
			}
			st = stateBuiltin

		case stateBuiltin:
			st = stateAlias
			if HasSeparator(r.current) {
				continue
			}
			if b, ok := l.registry.Lookup(r.current); ok {
				r.kind, r.builtin = b.Kind(), b
				st = stateDispatch
			}

		case stateAlias:
			target, ok := l.alias(r.current)
			if !ok {
				st = stateClassify
				continue
			}
			if err := l.redirect(r, target); err != nil {
				return nil, err
			}
			st = stateStart

		case stateClassify:
			if IsExplicit(r.current) {
				st = stateDirect
			} else {
				st = stateSearch
			}

		case stateSearch:
			st = l.found(r, l.search)

		case stateDirect:
			st = l.found(r, l.direct)

		case stateDispatch:
			return l.dispatch(r)

		case stateNotFound:
			l.logger.Debug("module not found", "specifier", r.requested, "last", r.current)
			return nil, &MissError{Specifier: r.requested}
		}
	}
}

// found runs a path strategy and picks the next state.
func (l *Loader) found(r *resolution, strategy func(string) (string, bool)) state {
	p, ok := strategy(r.current)
	if !ok {
		return stateNotFound
	}
	r.path = p
	r.kind = FileKind(p)
	return stateDispatch
}

// redirect records an alias hop, rejecting revisits and runaway chains
// before the guard could mistake them for a circular dependency.
func (l *Loader) redirect(r *resolution, target string) error {
	if len(r.chain) == 0 {
		r.chain = append(r.chain, r.current)
	}
	for _, seen := range r.chain {
		if seen == target {
			return &AliasLoopError{Specifier: r.requested, Chain: append(r.chain, target), Limit: l.maxRestarts}
		}
	}
	r.chain = append(r.chain, target)
	if len(r.chain)-1 > l.maxRestarts {
		return &AliasLoopError{Specifier: r.requested, Chain: r.chain, Limit: l.maxRestarts}
	}
	l.logger.Debug("alias", "from", r.current, "to", target)
	r.current = target
	return nil
}

// enter pushes spec on the load stack, or reports a circular dependency
// when it is already in flight.
func (l *Loader) enter(r *resolution, spec string) error {
	if l.stack.Contains(spec) {
		err := &CircularDependencyError{
			Specifier: spec,
			Stack:     append(l.stack.Frames(), spec),
		}
		l.fatal(err)
		return err
	}
	l.stack.Push(spec)
	r.pushed++
	return nil
}

// release pops every frame r pushed.
func (l *Loader) release(r *resolution) {
	for ; r.pushed > 0; r.pushed-- {
		l.stack.Pop()
	}
}

// FileKind classifies a resolved file path by suffix.
func FileKind(p string) Kind {
	switch {
	case strings.HasSuffix(p, JSONSuffix):
		return KindJSON
	case IsNative(p):
		return KindNative
	default:
		return KindSource
	}
}

// dispatch materializes a resolved module. File-backed kinds reuse an
// existing module table entry of the same name.
func (l *Loader) dispatch(r *resolution) (Module, error) {
	switch r.kind {
	case KindBuiltinNative, KindBuiltinBytecode:
		return l.instantiate(r.builtin)
	}

	if m, ok := l.reusable(r.path); ok {
		l.logger.Debug("reusing module", "path", r.path)
		return m, nil
	}
	if r.path != r.current {
		if err := l.enter(r, r.path); err != nil {
			return nil, err
		}
	}

	l.logger.Debug("materialize", "kind", r.kind, "path", r.path)
	var (
		m   Module
		err error
	)
	switch r.kind {
	case KindJSON:
		m, err = l.loadJSON(r.path)
	case KindNative:
		m, err = l.loadNative(r.path)
	default:
		m, err = l.loadSource(r.path)
	}
	if err != nil {
		l.failed[r.path] = true
		return nil, err
	}
	delete(l.failed, r.path)
	return m, nil
}

// instantiate returns the cached handle of a builtin, creating it on the
// first request. The handle is cached for bytecode entries too, so their
// top-level body never runs twice.
func (l *Loader) instantiate(b Builtin) (Module, error) {
	if st, ok := l.builtins[b.Name]; ok && st.initialized {
		return st.handle, nil
	}

	var (
		m   Module
		err error
	)
	switch b.Kind() {
	case KindBuiltinNative:
		m, err = b.Init(l.engine, b.Name)
		if err != nil {
			return nil, fmt.Errorf("init builtin %s: %w", b.Name, err)
		}
		if err := l.engine.Evaluate(m); err != nil {
			l.discard(m)
			return nil, fmt.Errorf("evaluate builtin %s: %w", b.Name, err)
		}
	default:
		m, err = l.engine.ReadBytecode(b.Bytecode)
		if err != nil {
			return nil, fmt.Errorf("read builtin %s: %w", b.Name, err)
		}
		if err := l.engine.Evaluate(m); err != nil {
			l.discard(m)
			return nil, fmt.Errorf("evaluate builtin %s: %w", b.Name, err)
		}
		l.engine.Rename(m, b.Name)
	}

	l.builtins[b.Name] = &builtinState{handle: m, initialized: true}
	l.logger.Debug("instantiated builtin", "name", b.Name, "kind", b.Kind())
	return m, nil
}

func (l *Loader) loadSource(path string) (Module, error) {
	src, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", path, err)
	}
	m, err := l.engine.Compile(path, src)
	if err != nil {
		return nil, fmt.Errorf("compile module %s: %w", path, err)
	}
	if err := l.engine.Evaluate(m); err != nil {
		l.discard(m)
		return nil, fmt.Errorf("evaluate module %s: %w", path, err)
	}
	return m, nil
}

func (l *Loader) loadJSON(path string) (Module, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", path, err)
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, &DecodeError{Specifier: path, Kind: KindJSON, Err: err}
	}
	m, err := l.engine.Synthesize(path, value)
	if err != nil {
		return nil, fmt.Errorf("synthesize module %s: %w", path, err)
	}
	return m, nil
}

func (l *Loader) loadNative(path string) (Module, error) {
	nl, ok := l.engine.(NativeLoader)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNativeUnsupported, path)
	}
	return nl.LoadNative(path)
}

// lookup finds the newest entry named name in the engine's module table.
func (l *Loader) lookup(name string) (Module, bool) {
	mods := l.engine.Modules()
	for i := len(mods) - 1; i >= 0; i-- {
		if mods[i].Name() == name {
			return mods[i], true
		}
	}
	return nil, false
}

// reusable returns the table entry for name unless its last
// materialization failed. Engines without Discarder keep the partial
// module in their table, so it must never be handed out again.
func (l *Loader) reusable(name string) (Module, bool) {
	if l.failed[name] {
		return nil, false
	}
	return l.lookup(name)
}

// discard drops a module whose top-level body did not complete.
func (l *Loader) discard(m Module) {
	if d, ok := l.engine.(Discarder); ok {
		d.Discard(m)
	}
}

// find scans the module table from start. A negative start counts back
// from the end of the table.
func (l *Loader) find(name string, start int) (Module, int, bool) {
	mods := l.engine.Modules()
	if start < 0 {
		start += len(mods)
	}
	if start < 0 {
		start = 0
	}
	for i := start; i < len(mods); i++ {
		if mods[i].Name() == name {
			return mods[i], i, true
		}
	}
	return nil, -1, false
}
