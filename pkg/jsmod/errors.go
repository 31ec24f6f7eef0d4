// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

var (
	// ErrModuleNotFound is returned when every resolution strategy misses.
	ErrModuleNotFound = errors.New("module not found")

	// ErrDecode is returned for malformed data URIs and JSON documents.
	ErrDecode = errors.New("module decode failed")

	// ErrCircularDependency marks a specifier requested while it is still loading.
	ErrCircularDependency = errors.New("circular module dependency")

	// ErrAliasLoop is returned when alias redirection does not terminate.
	ErrAliasLoop = errors.New("module alias loop")

	// ErrManifest is returned when the project manifest cannot be parsed.
	ErrManifest = errors.New("invalid package manifest")

	// ErrDuplicateBuiltin is returned when a builtin name is registered twice.
	ErrDuplicateBuiltin = errors.New("builtin module already registered")

	// ErrNativeUnsupported is returned when a native library resolves but the
	// engine cannot load native code.
	ErrNativeUnsupported = errors.New("engine cannot load native modules")
)

type (
	// MissError reports a specifier that no strategy could resolve.
	MissError struct {
		Specifier string
	}

	// DecodeError reports a malformed inline or JSON module.
	DecodeError struct {
		Specifier string
		Kind      Kind
		Err       error
	}

	// CircularDependencyError reports re-entrant resolution of Specifier.
	// Stack holds the load stack in push order, ending with the offending
	// specifier.
	CircularDependencyError struct {
		Specifier string
		Stack     []string
	}

	// AliasLoopError reports alias redirection that revisits a specifier or
	// exceeds the restart limit.
	AliasLoopError struct {
		Specifier string
		Chain     []string
		Limit     int
	}

	// ManifestError reports a manifest that exists but failed to parse.
	ManifestError struct {
		Path string
		Err  error
	}
)

func (e *MissError) Error() string {
	return fmt.Sprintf("module not found: '%s'", e.Specifier)
}

// Unwrap returns ErrModuleNotFound for errors.Is.
func (e *MissError) Unwrap() error { return ErrModuleNotFound }

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s module '%s': %v", e.Kind, e.Specifier, e.Err)
}

// Unwrap exposes both ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }

// Error lists the stack top to bottom, each frame annotated with its push index.
func (e *CircularDependencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "circular module dependency '%s' from:", e.Specifier)
	for i := len(e.Stack) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "\n%d: %s", i, e.Stack[i])
	}
	return b.String()
}

// Unwrap returns ErrCircularDependency for errors.Is.
func (e *CircularDependencyError) Unwrap() error { return ErrCircularDependency }

func (e *AliasLoopError) Error() string {
	chain := strings.Join(e.Chain, " -> ")
	if n := len(e.Chain); n > 0 && slices.Index(e.Chain, e.Chain[n-1]) < n-1 {
		return fmt.Sprintf("alias loop for '%s': %s", e.Specifier, chain)
	}
	return fmt.Sprintf("alias redirection for '%s' exceeded %d restarts: %s", e.Specifier, e.Limit, chain)
}

// Unwrap returns ErrAliasLoop for errors.Is.
func (e *AliasLoopError) Unwrap() error { return ErrAliasLoop }

func (e *ManifestError) Error() string {
	return fmt.Sprintf("load manifest %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrManifest and the underlying cause.
func (e *ManifestError) Unwrap() []error { return []error{ErrManifest, e.Err} }
