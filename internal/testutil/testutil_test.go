// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	WriteTree(t, dir, map[string]string{
		"a.js":           "export default 1;\n",
		"lib/deep/b.js":  "",
		"pkg/index.json": "{}",
	})

	for name, want := range map[string]string{"a.js": "export default 1;\n", "lib/deep/b.js": "", "pkg/index.json": "{}"} {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestMustChdir(t *testing.T) {
	// Not parallel: changes the process working directory.
	original, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	restore := MustChdir(t, dir)
	if wd, _ := os.Getwd(); wd != dir {
		t.Errorf("Getwd() = %q, want %q", wd, dir)
	}
	restore()
	if wd, _ := os.Getwd(); wd != original {
		t.Errorf("after restore Getwd() = %q, want %q", wd, original)
	}
}

func TestMustSetenv(t *testing.T) {
	// Not parallel: changes the process environment.
	const key = "JSMOD_TESTUTIL_UNSET"
	if _, ok := os.LookupEnv(key); ok {
		t.Skipf("%s already set", key)
	}

	restore := MustSetenv(t, key, "value")
	if got := os.Getenv(key); got != "value" {
		t.Errorf("Getenv(%s) = %q", key, got)
	}
	restore()
	if _, ok := os.LookupEnv(key); ok {
		t.Errorf("%s still set after restore", key)
	}
}
