// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"strings"

	"github.com/jsmod/jsmod/pkg/platform"
)

const (
	// FileScheme is stripped from the front of a specifier before resolution.
	FileScheme = "file://"
	// DataScheme marks an inline module.
	DataScheme = "data:"

	// ScriptSuffix is the plain script file suffix.
	ScriptSuffix = ".js"
	// IndexSuffix turns a directory name into its index script.
	IndexSuffix = "/index.js"
	// JSONSuffix marks a document synthesized into a module.
	JSONSuffix = ".json"
)

// NativeSuffix is the dynamic-library suffix of the host platform.
var NativeSuffix = platform.HostSharedLibrarySuffix()

// Suffixes returns the probing candidates in priority order: native
// library, plain script, directory index.
func Suffixes() []string {
	return []string{NativeSuffix, ScriptSuffix, IndexSuffix}
}

// IsExplicit reports whether spec names a path rather than a search-path
// entry: it contains a separator, or a '.' before any separator.
func IsExplicit(spec string) bool {
	return strings.ContainsAny(spec, "./\\")
}

// IsBare is the negation of IsExplicit.
func IsBare(spec string) bool {
	return !IsExplicit(spec)
}

// HasSeparator reports whether spec contains a path separator.
func HasSeparator(spec string) bool {
	return strings.ContainsAny(spec, "/\\")
}

// HasSuffix reports whether spec already ends in one of Suffixes.
func HasSuffix(spec string) bool {
	_, ok := MatchSuffix(spec)
	return ok
}

// MatchSuffix returns the first suffix, in priority order, that spec ends with.
func MatchSuffix(spec string) (string, bool) {
	for _, sfx := range Suffixes() {
		if strings.HasSuffix(spec, sfx) {
			return sfx, true
		}
	}
	return "", false
}

// IsNative reports whether spec names a native library.
func IsNative(spec string) bool {
	return strings.HasSuffix(spec, NativeSuffix)
}

// IsDataURI reports whether spec is an inline data: module.
func IsDataURI(spec string) bool {
	return strings.HasPrefix(spec, DataScheme)
}

// TrimScheme removes a leading file:// prefix.
func TrimScheme(spec string) string {
	return strings.TrimPrefix(spec, FileScheme)
}
