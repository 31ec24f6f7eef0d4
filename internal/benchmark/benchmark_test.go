// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/jsmod/jsmod/internal/config"
	"github.com/jsmod/jsmod/internal/engine"
	"github.com/jsmod/jsmod/internal/testutil"
	"github.com/jsmod/jsmod/pkg/jsmod"
)

const (
	// sampleManifest is a representative package.json with aliases.
	sampleManifest = `{
	"name": "bench-app",
	"version": "1.0.0",
	"main": "main.js",
	"type": "module",
	"dependencies": {"left-pad": "^1.3.0"},
	"_moduleAliases": {
		"@app": "./src",
		"@lib/fmt": "./src/lib/fmt.js",
		"config": "./config.json"
	}
}`

	sampleConfig = `
module_path: ["/opt/js", "$HOME/js", "/usr/local/lib/js"]
native_dir: "$HOME/.jsmod/native"
max_alias_restarts: 8
preload: ["std", "*console"]
history: {enabled: true, file: "$HOME/.jsmod_modules"}
log: level: "warn"
`
)

// sampleTree is a small application with nested relative imports, a
// builtin import, a JSON import and a bare import found on a search root.
var sampleTree = map[string]string{
	"app/main.js":      "import util from './lib/util';\nimport cfg from '../config.json';\nimport greet from 'greet';\nimport * as std from 'std';\nexport default function main() {}\n",
	"app/lib/util.js":  "import { format } from 'util';\nimport fmt from './fmt';\nexport default 'util';\n",
	"app/lib/fmt.js":   "export const width = 80;\nexport default function fmt() {}\n",
	"config.json":      `{"debug": false, "level": 3}`,
	"roots/d/greet.js": "export default function greet() {}\n",
	"roots/a/.keep":    "",
	"roots/b/.keep":    "",
	"roots/c/.keep":    "",
}

func newLoader(b *testing.B, dir string) (*engine.Table, *jsmod.Loader) {
	b.Helper()
	reg := jsmod.NewRegistry()
	if err := engine.RegisterDefaults(reg); err != nil {
		b.Fatalf("RegisterDefaults failed: %v", err)
	}
	tbl := engine.New()
	roots := make([]string, 0, 4)
	for _, r := range []string{"a", "b", "c", "d"} {
		roots = append(roots, filepath.Join(dir, "roots", r))
	}
	l, err := jsmod.New(tbl,
		jsmod.WithRegistry(reg),
		jsmod.WithBaseDir(dir),
		jsmod.WithRoots(roots...),
		jsmod.WithGetenv(func(string) string { return "" }),
		jsmod.WithLogger(log.New(io.Discard)),
	)
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	tbl.SetImporter(l)
	return tbl, l
}

// BenchmarkManifestParsing benchmarks CUE validation of package manifests.
// This exercises the hot path in pkg/cueutil/parse.go.
func BenchmarkManifestParsing(b *testing.B) {
	data := []byte(sampleManifest)

	b.ResetTimer()
	for b.Loop() {
		if _, err := jsmod.ParseManifest("package.json", data); err != nil {
			b.Fatalf("ParseManifest failed: %v", err)
		}
	}
}

// BenchmarkConfigLoad benchmarks config decoding through CUE and viper.
func BenchmarkConfigLoad(b *testing.B) {
	dir := b.TempDir()
	testutil.WriteTree(b, dir, map[string]string{"config.cue": sampleConfig})
	provider := config.NewProvider()
	opts := config.LoadOptions{ConfigDirPath: dir}

	b.ResetTimer()
	for b.Loop() {
		if _, err := provider.Load(context.Background(), opts); err != nil {
			b.Fatalf("Load failed: %v", err)
		}
	}
}

// BenchmarkSearch benchmarks bare-specifier scanning. The module lives on
// the last root, so every suffix is probed on every earlier root.
func BenchmarkSearch(b *testing.B) {
	dir := b.TempDir()
	testutil.WriteTree(b, dir, sampleTree)
	_, l := newLoader(b, dir)

	b.ResetTimer()
	for b.Loop() {
		if _, ok := l.Locate("greet"); !ok {
			b.Fatal("greet not found")
		}
	}
}

// BenchmarkNormalize benchmarks import normalization with suffix probing.
func BenchmarkNormalize(b *testing.B) {
	dir := b.TempDir()
	testutil.WriteTree(b, dir, sampleTree)
	_, l := newLoader(b, dir)
	importer := filepath.Join(dir, "app", "main.js")
	specs := []string{"./lib/util", "./lib/fmt.js", "../config.json", "util", "greet"}

	b.ResetTimer()
	for b.Loop() {
		for _, spec := range specs {
			_ = l.Normalize(importer, spec)
		}
	}
}

// BenchmarkBytecodeDecode benchmarks decoding of a precompiled builtin.
func BenchmarkBytecodeDecode(b *testing.B) {
	blob, err := engine.Precompile("events", []byte("import { format } from 'util';\nexport function emit(type) {}\nexport default function EventEmitter() {}\n"))
	if err != nil {
		b.Fatalf("Precompile failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, _, err := engine.DecodeBytecode(blob); err != nil {
			b.Fatalf("DecodeBytecode failed: %v", err)
		}
	}
}

// BenchmarkFullPipeline benchmarks loading a module graph into a fresh
// context: resolution, compilation, nested imports and glue binding.
func BenchmarkFullPipeline(b *testing.B) {
	dir := b.TempDir()
	testutil.WriteTree(b, dir, sampleTree)

	b.ResetTimer()
	for b.Loop() {
		_, l := newLoader(b, dir)
		if _, err := l.Load("./app/main.js", ""); err != nil {
			b.Fatalf("Load failed: %v", err)
		}
		if _, err := l.LoadOrder(); err != nil {
			b.Fatalf("LoadOrder failed: %v", err)
		}
	}
}

// BenchmarkFindIndex benchmarks module table scans in a populated context.
func BenchmarkFindIndex(b *testing.B) {
	dir := b.TempDir()
	files := make(map[string]string, 64)
	for i := range 64 {
		files[fmt.Sprintf("mods/m%02d.js", i)] = "export default 1;\n"
	}
	testutil.WriteTree(b, dir, files)
	_, l := newLoader(b, dir)
	for i := range 64 {
		if _, err := l.Resolve(fmt.Sprintf("./mods/m%02d.js", i)); err != nil {
			b.Fatalf("Resolve failed: %v", err)
		}
	}
	last := filepath.Join(dir, "mods", "m63.js")

	b.ResetTimer()
	for b.Loop() {
		if l.FindIndex(last, 0) < 0 || l.FindIndex(last, -1) != -1 {
			b.Fatal("m63 not found at the end of the table")
		}
	}
}
