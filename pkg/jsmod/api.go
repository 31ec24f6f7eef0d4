// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"fmt"
	"path/filepath"
)

// Locate resolves spec to a file path without loading it. Builtins and data
// URIs are not files and always miss.
func (l *Loader) Locate(spec string) (string, bool) {
	spec = TrimScheme(StripSentinels(spec))
	if IsDataURI(spec) {
		return "", false
	}
	if !HasSeparator(spec) {
		if _, ok := l.registry.Lookup(spec); ok {
			return "", false
		}
	}

	seen := map[string]bool{spec: true}
	for hops := 0; hops <= l.maxRestarts; hops++ {
		target, ok := l.alias(spec)
		if !ok || seen[target] {
			break
		}
		seen[target] = true
		spec = TrimScheme(target)
	}

	if IsExplicit(spec) {
		return l.direct(spec)
	}
	return l.search(spec)
}

// Load resolves spec and exposes the module globally as described by its
// sentinel prefixes and key (see ParseGlue). Successful loads are recorded
// in the history when one is configured.
func (l *Loader) Load(spec, key string) (Module, error) {
	g := ParseGlue(spec, key)
	m, err := l.Resolve(g.Specifier)
	if err != nil {
		return nil, err
	}
	if err := l.bind(g, m); err != nil {
		return nil, fmt.Errorf("bind %s: %w", g.Specifier, err)
	}
	l.graph.AddNode(m.Name())
	if l.history != nil {
		l.history.Add(g.Specifier)
	}
	return m, nil
}

// bind exposes m through the engine's Binder, or evaluates the glue script
// when the engine has none. A failing default-export import is retried as
// a namespace import.
func (l *Loader) bind(g Glue, m Module) error {
	if b, ok := l.engine.(Binder); ok {
		return b.Bind(g, m)
	}

	glue := g
	glue.Specifier = m.Name()
	err := l.evalGlue(glue.Script(false))
	if err == nil {
		return nil
	}
	l.logger.Debug("glue retry with namespace import", "specifier", g.Specifier, "error", err)
	return l.evalGlue(glue.Script(true))
}

func (l *Loader) evalGlue(src string) error {
	m, err := l.engine.Compile(GlueModuleName, []byte(src))
	if err != nil {
		return err
	}
	return l.engine.Evaluate(m)
}

// Find returns an already loaded module named spec, scanning the module
// table from start. Sentinel prefixes are ignored. Find never loads.
func (l *Loader) Find(spec string, start int) (Module, bool) {
	m, _, ok := l.find(StripSentinels(spec), start)
	return m, ok
}

// FindIndex is Find returning the table index, or -1. A negative start
// counts back from the end, and the result is then reported relative to
// the end as well.
func (l *Loader) FindIndex(spec string, start int) int {
	_, i, ok := l.find(StripSentinels(spec), start)
	if !ok {
		return -1
	}
	if start < 0 {
		return i - len(l.engine.Modules())
	}
	return i
}

// Import is the engine's hook for nested imports: normalize against the
// importer, reuse a loaded module of that name, otherwise resolve. Edges
// between real modules are recorded for LoadOrder; glue imports are not.
func (l *Loader) Import(importer, spec string) (Module, error) {
	name := l.Normalize(importer, spec)
	m, ok := l.reusable(name)
	if !ok {
		var err error
		if m, err = l.Resolve(name); err != nil {
			return nil, err
		}
	}
	if importer == "" || importer == GlueModuleName {
		l.graph.AddNode(m.Name())
	} else {
		l.graph.AddEdge(m.Name(), importer)
	}
	return m, nil
}

// LoadOrder returns every module seen by Import, dependencies first. Cyclic
// imports yield a *dag.CycleError.
func (l *Loader) LoadOrder() ([]string, error) {
	return l.graph.TopologicalSort()
}

// Dependents returns the modules that imported name, in first-seen order.
func (l *Loader) Dependents(name string) []string {
	return l.graph.Dependents(name)
}

// Scripts returns the load stack, bottom to top.
func (l *Loader) Scripts() []string {
	return l.stack.Frames()
}

// ScriptFile returns the absolute path of the innermost file being loaded,
// or "" when no file is in flight.
func (l *Loader) ScriptFile() string {
	frames := l.stack.Frames()
	for i := len(frames) - 1; i >= 0; i-- {
		if filepath.IsAbs(frames[i]) {
			return frames[i]
		}
	}
	return ""
}

// ScriptDir is the directory of ScriptFile.
func (l *Loader) ScriptDir() string {
	if f := l.ScriptFile(); f != "" {
		return filepath.Dir(f)
	}
	return ""
}

// Builtins lists the registered builtin names and whether each has been
// instantiated in this loader.
func (l *Loader) Builtins() map[string]bool {
	out := make(map[string]bool, l.registry.Len())
	for _, b := range l.registry.Entries() {
		st, ok := l.builtins[b.Name]
		out[b.Name] = ok && st.initialized
	}
	return out
}
