// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/jsmod/jsmod/pkg/jsmod"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrForeignModule is returned when a module created by another engine is
// handed to a Table.
var ErrForeignModule = errors.New("module does not belong to this engine")

type (
	// Importer resolves nested imports. *jsmod.Loader satisfies it.
	Importer interface {
		Import(importer, spec string) (jsmod.Module, error)
	}

	// Function is a callable export declared in module source.
	Function struct {
		Module string
		Name   string
	}

	// Module is a compiled unit in a Table.
	Module struct {
		table *Table
		name  string

		imports []importDecl
		body    []statement

		exports    map[string]any
		def        any
		hasDefault bool
		evals      int
	}

	// Table is the module table of one script context.
	Table struct {
		mods     []*Module
		importer Importer
		globals  map[string]any
		calls    []string
		logger   *log.Logger
	}

	// Option configures a Table.
	Option func(*Table)
)

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Table) { t.logger = l }
}

// New creates an empty Table. Call SetImporter before evaluating modules
// that import others.
func New(opts ...Option) *Table {
	t := &Table{globals: make(map[string]any)}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	return t
}

// SetImporter wires nested import resolution.
func (t *Table) SetImporter(i Importer) { t.importer = i }

// String returns "module#name", the form calls are recorded in.
func (f *Function) String() string { return f.Module + "#" + f.Name }

// MarshalText renders f as its String form in structured output.
func (f *Function) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// Name returns the module table key.
func (m *Module) Name() string { return m.name }

// Evaluations counts how often the top-level body ran.
func (m *Module) Evaluations() int { return m.evals }

// Default returns the default export.
func (m *Module) Default() (any, bool) { return m.def, m.hasDefault }

// Exports returns the named exports.
func (m *Module) Exports() map[string]any { return maps.Clone(m.exports) }

// Imports lists the specifiers m imports, in source order.
func (m *Module) Imports() []string {
	out := make([]string, len(m.imports))
	for i, imp := range m.imports {
		out[i] = imp.spec
	}
	return out
}

// namespace is the object a "* as" import binds.
func (m *Module) namespace() map[string]any {
	ns := maps.Clone(m.exports)
	if ns == nil {
		ns = make(map[string]any)
	}
	if m.hasDefault {
		ns["default"] = m.def
	}
	return ns
}

func (t *Table) add(m *Module) *Module {
	m.table = t
	t.mods = append(t.mods, m)
	return m
}

func (t *Table) own(jm jsmod.Module) (*Module, error) {
	m, ok := jm.(*Module)
	if !ok || m.table != t {
		return nil, fmt.Errorf("%w: %s", ErrForeignModule, jm.Name())
	}
	return m, nil
}

// Compile parses src and registers it under name.
func (t *Table) Compile(name string, src []byte) (jsmod.Module, error) {
	m, err := parse(name, src)
	if err != nil {
		return nil, err
	}
	t.logger.Debug("compiled", "module", name, "imports", len(m.imports), "exports", len(m.exports))
	return t.add(m), nil
}

// ReadBytecode decodes a blob produced by Precompile and compiles it under
// the name stored in the blob.
func (t *Table) ReadBytecode(blob []byte) (jsmod.Module, error) {
	name, src, err := DecodeBytecode(blob)
	if err != nil {
		return nil, err
	}
	return t.Compile(name, src)
}

// Synthesize registers a module whose default export is value. Map values
// also contribute their keys as named exports.
func (t *Table) Synthesize(name string, value any) (jsmod.Module, error) {
	m := &Module{name: name, def: value, hasDefault: true}
	if obj, ok := value.(map[string]any); ok {
		m.exports = maps.Clone(obj)
	}
	return t.add(m), nil
}

// Rename changes the name of m.
func (t *Table) Rename(jm jsmod.Module, name string) {
	if m, err := t.own(jm); err == nil {
		m.name = name
	}
}

// Discard removes m from the table. The loader calls it when the top-level
// body of m failed.
func (t *Table) Discard(jm jsmod.Module) {
	m, err := t.own(jm)
	if err != nil {
		return
	}
	t.mods = slices.DeleteFunc(t.mods, func(x *Module) bool { return x == m })
	t.logger.Debug("discarded", "module", m.name)
}

// Modules returns the module table in creation order.
func (t *Table) Modules() []jsmod.Module {
	out := make([]jsmod.Module, len(t.mods))
	for i, m := range t.mods {
		out[i] = m
	}
	return out
}

// Evaluate links the imports of m through the importer and runs its
// statements.
func (t *Table) Evaluate(jm jsmod.Module) error {
	m, err := t.own(jm)
	if err != nil {
		return err
	}
	m.evals++

	scope := make(map[string]any)
	for _, imp := range m.imports {
		dep, err := t.link(m, imp.spec)
		if err != nil {
			return err
		}
		if err := imp.bind(scope, dep); err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}
	}
	for _, st := range m.body {
		if err := st.exec(t, scope); err != nil {
			return fmt.Errorf("%s:%d: %w", m.name, st.line, err)
		}
	}
	return nil
}

func (t *Table) link(m *Module, spec string) (*Module, error) {
	if t.importer == nil {
		return nil, fmt.Errorf("%s: cannot import %q: no importer", m.name, spec)
	}
	jm, err := t.importer.Import(m.name, spec)
	if err != nil {
		return nil, err
	}
	return t.own(jm)
}

// Global returns a value assigned to the global object.
func (t *Table) Global(name string) (any, bool) {
	v, ok := t.globals[name]
	return v, ok
}

// Globals returns a copy of the global object.
func (t *Table) Globals() map[string]any { return maps.Clone(t.globals) }

// Calls lists the functions invoked so far as "module#name".
func (t *Table) Calls() []string { return append([]string(nil), t.calls...) }

func (t *Table) call(v any) error {
	switch fn := v.(type) {
	case *Function:
		t.calls = append(t.calls, fn.String())
		return nil
	case func():
		fn()
		return nil
	default:
		return fmt.Errorf("value of type %T is not a function", v)
	}
}
