// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"strings"

	"github.com/jsmod/jsmod/pkg/fspath"
	"github.com/jsmod/jsmod/pkg/types"
)

// EnvModulePath names the environment variable holding search roots.
const EnvModulePath = "JSMOD_MODULE_PATH"

// DefaultModuleRoot is the search root used when EnvModulePath is unset.
// Override at build time with -ldflags "-X ...jsmod.DefaultModuleRoot=...".
var DefaultModuleRoot = "/usr/local/lib/jsmod"

// DefaultNativeDir is where relative native library names are anchored
// during normalization.
var DefaultNativeDir = "/usr/local/lib/jsmod/native"

// SplitRoots splits a root list on ';', ':' or newline, dropping empty entries.
func SplitRoots(list string) []string {
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == ';' || r == ':' || r == '\n'
	})
	roots := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			roots = append(roots, f)
		}
	}
	return roots
}

// RootsFromEnv returns the roots named by EnvModulePath, or DefaultModuleRoot
// when the variable is unset or empty.
func RootsFromEnv(getenv func(string) string) []string {
	if list := getenv(EnvModulePath); list != "" {
		return SplitRoots(list)
	}
	return []string{DefaultModuleRoot}
}

// candidates returns the names to test for base: base alone when it already
// carries a suffix, otherwise base plus each suffix in priority order.
func candidates(base string) []string {
	if HasSuffix(base) {
		return []string{base}
	}
	out := make([]string, 0, len(Suffixes()))
	for _, sfx := range Suffixes() {
		out = append(out, base+sfx)
	}
	return out
}

// probe tests each suffix candidate of p, relative paths anchored at the
// loader's base directory, and returns the first existing file.
func (l *Loader) probe(p string) (string, bool) {
	for _, c := range candidates(p) {
		abs := l.absolute(c)
		if isFile(l.fs, abs) {
			return abs, true
		}
	}
	return "", false
}

// search walks the roots for a bare specifier. Suffixes form the outer
// loop, so every root is tried with the highest-priority suffix before any
// root is tried with the next one.
func (l *Loader) search(spec string) (string, bool) {
	for _, c := range candidates(spec) {
		for _, root := range l.roots {
			p := fspath.JoinStr(types.FilesystemPath(root), c)
			abs := l.absolute(string(p))
			l.logger.Debug("search", "root", root, "candidate", abs)
			if isFile(l.fs, abs) {
				return abs, true
			}
		}
	}
	return "", false
}

// direct resolves an explicit path: the literal path first, then suffix
// probing when it carries no recognized suffix.
func (l *Loader) direct(spec string) (string, bool) {
	abs := l.absolute(spec)
	if isFile(l.fs, abs) {
		return abs, true
	}
	if HasSuffix(spec) {
		return "", false
	}
	return l.probe(spec)
}

// absolute anchors p at the base directory and collapses dot segments.
func (l *Loader) absolute(p string) string {
	return string(fspath.Absolute(types.FilesystemPath(l.baseDir), types.FilesystemPath(p)))
}
