// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"fmt"
	"sync"

	"golang.org/x/exp/slices"
)

type (
	// NativeInit produces the module handle of a native builtin.
	NativeInit func(e Engine, name string) (Module, error)

	// Builtin is a module compiled into the binary. Exactly one of Init and
	// Bytecode is set.
	Builtin struct {
		Name     string
		Init     NativeInit
		Bytecode []byte
	}

	// Registry is the append-only table of builtin definitions. It is safe
	// to share between loaders once populated; instantiation state lives in
	// each Loader.
	Registry struct {
		mu      sync.RWMutex
		entries []Builtin
	}

	// builtinState is the per-context instantiation record of a builtin.
	builtinState struct {
		handle      Module
		initialized bool
	}
)

// Kind returns KindBuiltinNative or KindBuiltinBytecode.
func (b Builtin) Kind() Kind {
	if b.Init != nil {
		return KindBuiltinNative
	}
	return KindBuiltinBytecode
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterNative appends a builtin backed by a Go initializer.
func (r *Registry) RegisterNative(name string, init NativeInit) error {
	if init == nil {
		return fmt.Errorf("builtin %q: nil initializer", name)
	}
	return r.add(Builtin{Name: name, Init: init})
}

// RegisterBytecode appends a builtin backed by a precompiled blob.
func (r *Registry) RegisterBytecode(name string, blob []byte) error {
	if len(blob) == 0 {
		return fmt.Errorf("builtin %q: empty bytecode", name)
	}
	return r.add(Builtin{Name: name, Bytecode: slices.Clone(blob)})
}

func (r *Registry) add(b Builtin) error {
	if b.Name == "" {
		return fmt.Errorf("builtin: empty name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexLocked(b.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateBuiltin, b.Name)
	}
	r.entries = append(r.entries, b)
	return nil
}

// Lookup finds a builtin by exact, case-sensitive name.
func (r *Registry) Lookup(name string) (Builtin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexLocked(name); i >= 0 {
		return r.entries[i], true
	}
	return Builtin{}, false
}

// linear scan; the table holds a handful of entries
func (r *Registry) indexLocked(name string) int {
	for i := range r.entries {
		if r.entries[i].Name == name {
			return i
		}
	}
	return -1
}

// Entries returns the registered builtins in registration order.
func (r *Registry) Entries() []Builtin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entries)
}

// Len returns the number of registered builtins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
