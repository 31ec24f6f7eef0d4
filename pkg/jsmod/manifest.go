// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	_ "embed"
	"path/filepath"
	"strings"

	"github.com/jsmod/jsmod/pkg/cueutil"
	"github.com/jsmod/jsmod/pkg/fspath"
	"github.com/jsmod/jsmod/pkg/types"
)

// DefaultManifestName is the manifest file looked up from the base directory upward.
const DefaultManifestName = "package.json"

//go:embed manifest_schema.cue
var manifestSchema []byte

type (
	// Manifest is the decoded project manifest.
	Manifest struct {
		Name    string            `json:"name"`
		Version string            `json:"version"`
		Main    string            `json:"main"`
		Type    string            `json:"type"`
		Aliases map[string]string `json:"_moduleAliases"`

		// Path is the manifest file the values came from.
		Path string `json:"-"`
	}

	// manifestCache loads the manifest at most once per loader. A failed
	// load is remembered and never retried.
	manifestCache struct {
		loaded   bool
		manifest *Manifest
		err      error
	}
)

// ParseManifest validates data against the manifest schema.
func ParseManifest(path string, data []byte) (*Manifest, error) {
	result, err := cueutil.ParseAndDecode[Manifest](manifestSchema, data, "#Manifest",
		cueutil.WithFilename(path))
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	m := result.Value
	m.Path = path
	return m, nil
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// Alias returns the replacement for spec. An absolute spec is first made
// relative to the manifest directory, and a leading "./" is stripped.
// Relative replacement targets are anchored at the manifest directory.
func (m *Manifest) Alias(spec string) (string, bool) {
	if len(m.Aliases) == 0 {
		return "", false
	}

	key := spec
	if filepath.IsAbs(key) {
		rel, ok := fspath.Rel(types.FilesystemPath(m.Dir()), types.FilesystemPath(key))
		if !ok {
			return "", false
		}
		key = rel
	}
	key = strings.TrimPrefix(filepath.ToSlash(key), "./")

	target, ok := m.Aliases[key]
	if !ok || target == "" {
		return "", false
	}
	if fspath.IsDotRelative(target) {
		target = string(fspath.JoinStr(types.FilesystemPath(m.Dir()), target))
	}
	return target, true
}

// manifest returns the nearest manifest, loading it on first use.
func (l *Loader) manifest() (*Manifest, error) {
	if l.manifests.loaded {
		return l.manifests.manifest, l.manifests.err
	}
	l.manifests.loaded = true

	path, ok := l.findManifest()
	if !ok {
		return nil, nil
	}
	data, err := l.fs.ReadFile(path)
	if err != nil {
		l.manifests.err = &ManifestError{Path: path, Err: err}
		return nil, l.manifests.err
	}
	m, err := ParseManifest(path, data)
	if err != nil {
		l.manifests.err = err
		l.logger.Warn("ignoring package manifest", "path", path, "error", err)
		return nil, err
	}
	l.manifests.manifest = m
	l.logger.Debug("loaded package manifest", "path", path, "aliases", len(m.Aliases))
	return m, nil
}

// findManifest walks from the base directory to the filesystem root.
func (l *Loader) findManifest() (string, bool) {
	dir := l.baseDir
	for {
		candidate := filepath.Join(dir, l.manifestName)
		if isFile(l.fs, candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Manifest exposes the loaded manifest, or nil when none was found or it
// failed to parse.
func (l *Loader) Manifest() *Manifest {
	m, _ := l.manifest()
	return m
}

// alias applies manifest redirection to spec. Native library specifiers
// are never aliased.
func (l *Loader) alias(spec string) (string, bool) {
	if IsNative(spec) {
		return "", false
	}
	m, err := l.manifest()
	if err != nil || m == nil {
		return "", false
	}
	return m.Alias(spec)
}
