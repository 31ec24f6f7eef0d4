// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"path/filepath"
	"testing"
)

func TestLoader_Normalize(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	r := NewRegistry()
	_ = r.RegisterBytecode("util", []byte("u"))
	mfs := newMemFS(map[string]string{
		"/proj/package.json":     `{"_moduleAliases": {"foo": "./lib/foo.js"}}`,
		"/proj/src/b.js":         "",
		"/proj/src/dir/index.js": "",
		"/proj/lib/c.js":         "",
		"/proj/local.js":         "",
	})
	l, _ := newTestLoader(t, &fakeEngine{}, WithRegistry(r), WithFileSystem(mfs),
		WithBaseDir("/proj"), WithRoots("/proj/lib"), WithNativeDir("/opt/native"))

	tests := []struct {
		name     string
		importer string
		spec     string
		want     string
	}{
		{"builtin unchanged", "/proj/src/a.js", "util", "util"},
		{"sibling", "/proj/src/a.js", "./b.js", "/proj/src/b.js"},
		{"sibling probed", "/proj/src/a.js", "./b", "/proj/src/b.js"},
		{"directory index", "/proj/src/a.js", "./dir", "/proj/src/dir/index.js"},
		{"parent", "/proj/src/a.js", "../lib/c.js", "/proj/lib/c.js"},
		{"dot segments collapse", "/proj/src/a.js", "./x/../b.js", "/proj/src/b.js"},
		{"missing relative keeps joined path", "/proj/src/a.js", "./nope.js", "/proj/src/nope.js"},
		{"native joins native dir", "/proj/src/a.js", "ext" + NativeSuffix, filepath.Join("/opt/native", "ext"+NativeSuffix)},
		{"existing relative made absolute", "<internal>", "local.js", "/proj/local.js"},
		{"internal importer does not anchor", "<internal>", "./local", "/proj/local.js"},
		{"data URI identity does not anchor", "text/javascript", "./local", "/proj/local.js"},
		{"builtin importer does not anchor", "util", "./local.js", "/proj/local.js"},
		{"bare name never searched", "/proj/src/a.js", "c", "c"},
		{"alias never applied", "/proj/src/a.js", "foo", "foo"},
		{"file scheme stripped", "/proj/src/a.js", "file:///proj/lib/c.js", "/proj/lib/c.js"},
	}

	for _, tt := range tests {
		if got := l.Normalize(tt.importer, tt.spec); got != tt.want {
			t.Errorf("%s: Normalize(%q, %q) = %q, want %q", tt.name, tt.importer, tt.spec, got, tt.want)
		}
	}
	if len(mfs.reads) != 0 {
		t.Errorf("Normalize read files: %v", mfs.reads)
	}
}

func TestLoader_NormalizeDeterministic(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	mfs := newMemFS(map[string]string{"/proj/src/b.js": ""})
	l, _ := newTestLoader(t, &fakeEngine{}, WithFileSystem(mfs), WithBaseDir("/proj"))

	first := l.Normalize("/proj/src/a.js", "./b")
	for range 3 {
		if got := l.Normalize("/proj/src/a.js", "./b"); got != first {
			t.Fatalf("Normalize() not stable: %q vs %q", got, first)
		}
	}
	if len(mfs.reads) != 0 {
		t.Errorf("Normalize read files: %v", mfs.reads)
	}
}
