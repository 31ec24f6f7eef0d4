// SPDX-License-Identifier: MPL-2.0

package jsmod

// Kind selects how a resolved module is materialized.
type Kind int

const (
	// KindBuiltinNative is a registry entry backed by a Go initializer.
	KindBuiltinNative Kind = iota + 1
	// KindBuiltinBytecode is a registry entry backed by a precompiled blob.
	KindBuiltinBytecode
	// KindSource is a script file on disk.
	KindSource
	// KindNative is a native library file on disk.
	KindNative
	// KindJSON is a JSON document exposed as a module.
	KindJSON
	// KindDataURI is an inline data: module.
	KindDataURI
)

// String returns the kind name used in logs and CLI output.
func (k Kind) String() string {
	switch k {
	case KindBuiltinNative:
		return "builtin-native"
	case KindBuiltinBytecode:
		return "builtin-bytecode"
	case KindSource:
		return "source"
	case KindNative:
		return "native"
	case KindJSON:
		return "json"
	case KindDataURI:
		return "data-uri"
	default:
		return "unknown"
	}
}

type (
	// Module is an engine-owned compiled unit. Its Name is the key the
	// engine's module table uses.
	Module interface {
		Name() string
	}

	// Engine is the script engine capability the loader drives. The engine
	// owns the module table; Modules lists it in load order.
	Engine interface {
		// Compile registers src under name without running it.
		Compile(name string, src []byte) (Module, error)
		// ReadBytecode decodes a precompiled blob and links its imports.
		ReadBytecode(blob []byte) (Module, error)
		// Evaluate runs the top-level body of m.
		Evaluate(m Module) error
		// Rename changes the name m reports in the module table.
		Rename(m Module, name string)
		// Synthesize registers a module whose default export is value.
		Synthesize(name string, value any) (Module, error)
		// Modules returns the module table in load order.
		Modules() []Module
	}

	// NativeLoader is implemented by engines that can load native libraries.
	NativeLoader interface {
		LoadNative(path string) (Module, error)
	}

	// Discarder is implemented by engines that can drop a module from
	// their table after its evaluation failed.
	Discarder interface {
		Discard(m Module)
	}

	// Binder is implemented by engines that expose a loaded module to the
	// global scope directly instead of evaluating glue script text.
	Binder interface {
		Bind(g Glue, m Module) error
	}
)
