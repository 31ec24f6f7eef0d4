// SPDX-License-Identifier: MPL-2.0

// Package fspath provides lexical path arithmetic over types.FilesystemPath.
// Nothing here touches the filesystem: "." and ".." segments are collapsed
// purely by string manipulation and symlinks are never dereferenced.
package fspath

import (
	"path/filepath"
	"strings"

	"github.com/jsmod/jsmod/pkg/types"
)

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr joins a typed base path with raw string segments such as a
// module specifier or a manifest file name.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Clean collapses "." segments and resolves ".." against the preceding
// segment. Leading ".." segments of a relative path are kept.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// Absolute anchors p at base when p is relative and returns the cleaned
// result. base is expected to be absolute.
func Absolute(base, p types.FilesystemPath) types.FilesystemPath {
	if IsAbs(p) {
		return Clean(p)
	}
	return Clean(Join(base, p))
}

// Rel returns target relative to base using forward slashes, or false when
// target does not live under base.
func Rel(base, target types.FilesystemPath) (string, bool) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// IsDotRelative reports whether s starts with "./" or "../" (or the
// platform separator equivalents).
func IsDotRelative(s string) bool {
	for _, prefix := range []string{"./", "../", "." + string(filepath.Separator), ".." + string(filepath.Separator)} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
