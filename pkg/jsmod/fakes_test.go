// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jsmod/jsmod/pkg/platform"
)

type (
	fakeModule struct {
		name  string
		src   string
		value any
		evals int
	}

	// fakeEngine keeps a module table and counts work; onEvaluate lets a
	// test re-enter the loader the way nested imports do.
	fakeEngine struct {
		mods       []*fakeModule
		compiles   int
		onEvaluate func(m *fakeModule) error
	}

	memFS struct {
		files map[string]string
		stats []string
		reads []string
	}

	memInfo struct {
		name string
		size int64
		dir  bool
	}
)

func (m *fakeModule) Name() string { return m.name }

func (e *fakeEngine) add(m *fakeModule) *fakeModule {
	e.mods = append(e.mods, m)
	return m
}

func (e *fakeEngine) Compile(name string, src []byte) (Module, error) {
	e.compiles++
	return e.add(&fakeModule{name: name, src: string(src)}), nil
}

func (e *fakeEngine) ReadBytecode(blob []byte) (Module, error) {
	return e.add(&fakeModule{name: "<bytecode>", src: string(blob)}), nil
}

func (e *fakeEngine) Evaluate(m Module) error {
	fm := m.(*fakeModule)
	fm.evals++
	if e.onEvaluate != nil {
		return e.onEvaluate(fm)
	}
	return nil
}

func (e *fakeEngine) Rename(m Module, name string) { m.(*fakeModule).name = name }

func (e *fakeEngine) Synthesize(name string, value any) (Module, error) {
	return e.add(&fakeModule{name: name, value: value}), nil
}

func (e *fakeEngine) Modules() []Module {
	out := make([]Module, len(e.mods))
	for i, m := range e.mods {
		out[i] = m
	}
	return out
}

func (e *fakeEngine) named(name string) *fakeModule {
	for _, m := range e.mods {
		if m.name == name {
			return m
		}
	}
	return nil
}

func newMemFS(files map[string]string) *memFS {
	return &memFS{files: files}
}

func (f *memFS) Stat(name string) (fs.FileInfo, error) {
	f.stats = append(f.stats, name)
	if data, ok := f.files[name]; ok {
		return memInfo{name: filepath.Base(name), size: int64(len(data))}, nil
	}
	prefix := strings.TrimSuffix(name, "/") + "/"
	for p := range f.files {
		if strings.HasPrefix(p, prefix) {
			return memInfo{name: filepath.Base(name), dir: true}, nil
		}
	}
	return nil, fs.ErrNotExist
}

func (f *memFS) ReadFile(name string) ([]byte, error) {
	f.reads = append(f.reads, name)
	if data, ok := f.files[name]; ok {
		return []byte(data), nil
	}
	return nil, fs.ErrNotExist
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return i.dir }
func (i memInfo) Sys() any           { return nil }

func (i memInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

// newTestLoader builds a quiet loader whose fatal handler records instead
// of exiting.
func newTestLoader(t *testing.T, eng Engine, opts ...Option) (*Loader, *[]*CircularDependencyError) {
	t.Helper()
	var fatals []*CircularDependencyError
	base := []Option{
		WithLogger(log.New(io.Discard)),
		WithGetenv(func(string) string { return "" }),
		WithRoots(),
		WithFatalHandler(func(err *CircularDependencyError) { fatals = append(fatals, err) }),
	}
	l, err := New(eng, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &fatals
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == platform.Windows {
		t.Skip("in-memory fixtures use POSIX paths")
	}
}
