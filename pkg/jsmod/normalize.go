// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"path/filepath"

	"github.com/jsmod/jsmod/pkg/fspath"
	"github.com/jsmod/jsmod/pkg/types"
)

// Normalize computes the canonical module name for spec imported from
// importer. It only joins, collapses, and suffix-probes paths; search roots
// and manifest aliases are never consulted, so the result depends on
// nothing but the two arguments and the files present.
//
// Only importers named by an absolute or dot-relative path anchor relative
// specifiers. Builtins, data URI identities such as "text/javascript", and
// names like "<internal>" have no directory.
func (l *Loader) Normalize(importer, spec string) string {
	spec = TrimScheme(spec)
	if IsDataURI(spec) {
		return spec
	}
	if IsBare(spec) {
		if _, ok := l.registry.Lookup(spec); ok {
			return spec
		}
	}

	var file string
	switch {
	case fspath.IsDotRelative(spec) && anchors(importer):
		dir := filepath.Dir(l.absolute(importer))
		file = string(fspath.Absolute(types.FilesystemPath(dir), types.FilesystemPath(spec)))
	case IsNative(spec) && !filepath.IsAbs(spec):
		file = string(fspath.JoinStr(types.FilesystemPath(l.nativeDir), spec))
	case IsExplicit(spec) && !filepath.IsAbs(spec) && isFile(l.fs, l.absolute(spec)):
		file = l.absolute(spec)
	}

	if IsExplicit(spec) && !HasSuffix(spec) {
		base := file
		if base == "" {
			base = spec
		}
		if p, ok := l.probe(base); ok {
			file = p
		}
	}

	if file == "" {
		file = spec
	}
	l.logger.Debug("normalize", "importer", importer, "specifier", spec, "result", file)
	return file
}

// anchors reports whether importer names a file whose directory relative
// specifiers are joined to.
func anchors(importer string) bool {
	return filepath.IsAbs(importer) || fspath.IsDotRelative(importer)
}
