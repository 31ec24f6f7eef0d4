// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"encoding/base64"
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestNew_NilEngine(t *testing.T) {
	t.Parallel()
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) should fail")
	}
}

func TestLoader_ResolveSource(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	mfs := newMemFS(map[string]string{"/work/lib/a.js": "export const a = 1"})
	eng := &fakeEngine{}
	l, _ := newTestLoader(t, eng, WithFileSystem(mfs), WithBaseDir("/work"))

	m, err := l.Resolve("./lib/a")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if m.Name() != "/work/lib/a.js" {
		t.Errorf("module name = %q", m.Name())
	}
	if got := m.(*fakeModule); got.src != "export const a = 1" || got.evals != 1 {
		t.Errorf("module = %+v", got)
	}
	if l.stack.Len() != 0 {
		t.Errorf("load stack not empty after success: %v", l.Scripts())
	}
}

func TestLoader_FileSchemeStripped(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	mfs := newMemFS(map[string]string{"/opt/x.js": ""})
	l, _ := newTestLoader(t, &fakeEngine{}, WithFileSystem(mfs), WithBaseDir("/work"))

	m, err := l.Resolve("file:///opt/x.js")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if m.Name() != "/opt/x.js" {
		t.Errorf("module name = %q", m.Name())
	}
}

func TestLoader_MissError(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	eng := &fakeEngine{}
	l, _ := newTestLoader(t, eng, WithFileSystem(newMemFS(nil)), WithBaseDir("/work"), WithRoots("/lib"))

	for _, spec := range []string{"ghost", "./ghost", "ghost.js"} {
		_, err := l.Resolve(spec)
		if !errors.Is(err, ErrModuleNotFound) {
			t.Fatalf("Resolve(%q) error = %v, want ErrModuleNotFound", spec, err)
		}
		var miss *MissError
		if !errors.As(err, &miss) || miss.Specifier != spec {
			t.Errorf("MissError = %+v", miss)
		}
	}
	if len(eng.mods) != 0 || l.stack.Len() != 0 {
		t.Errorf("a miss must not mutate state: mods=%d stack=%v", len(eng.mods), l.Scripts())
	}
	if _, ok := l.Locate("ghost"); ok {
		t.Error("Locate(ghost) should miss")
	}
}

func TestLoader_CircularDependency(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	mfs := newMemFS(map[string]string{"/lib/x.js": "import 'x'"})
	eng := &fakeEngine{}
	l, fatals := newTestLoader(t, eng, WithFileSystem(mfs), WithBaseDir("/work"), WithRoots("/lib"))

	var nested error
	eng.onEvaluate = func(m *fakeModule) error {
		_, nested = l.Import(m.name, "x")
		return nested
	}

	_, err := l.Resolve("x")
	if !errors.Is(err, ErrCircularDependency) {
		t.Fatalf("Resolve() error = %v, want ErrCircularDependency", err)
	}
	if len(*fatals) != 1 {
		t.Fatalf("fatal handler called %d times, want 1", len(*fatals))
	}

	cde := (*fatals)[0]
	want := []string{"x", "/lib/x.js", "x"}
	if !reflect.DeepEqual(cde.Stack, want) {
		t.Errorf("Stack = %v, want %v", cde.Stack, want)
	}
	msg := cde.Error()
	if !strings.HasPrefix(msg, "circular module dependency 'x' from:") {
		t.Errorf("message = %q", msg)
	}
	if strings.Index(msg, "2: x") > strings.Index(msg, "0: x") {
		t.Errorf("stack should be listed top to bottom: %q", msg)
	}
	if l.stack.Len() != 0 {
		t.Errorf("stack not unwound after failure: %v", l.Scripts())
	}
}

func TestLoader_ReuseExistingInstance(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	mfs := newMemFS(map[string]string{"/work/a.js": ""})
	eng := &fakeEngine{}
	l, _ := newTestLoader(t, eng, WithFileSystem(mfs), WithBaseDir("/work"))

	first, err := l.Resolve("./a.js")
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.Resolve("/work/a.js")
	if err != nil {
		t.Fatal(err)
	}
	if first != second || eng.compiles != 1 {
		t.Errorf("expected reuse, got compiles=%d same=%v", eng.compiles, first == second)
	}
}

// discardingEngine is a fakeEngine that drops failed modules from its table.
type discardingEngine struct {
	*fakeEngine
	discarded []string
}

func (e *discardingEngine) Discard(m Module) {
	e.discarded = append(e.discarded, m.Name())
	e.mods = slices.DeleteFunc(e.mods, func(x *fakeModule) bool { return x == m })
}

func TestLoader_FailedEvaluationNotReused(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	errBody := errors.New("top-level body failed")
	tests := []struct {
		name    string
		engine  func(*fakeEngine) Engine
		entries int
	}{
		{"table keeps failed entries", func(e *fakeEngine) Engine { return e }, 4},
		{"table discards failed entries", func(e *fakeEngine) Engine { return &discardingEngine{fakeEngine: e} }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mfs := newMemFS(map[string]string{"/work/bad.js": ""})
			fe := &fakeEngine{}
			broken := true
			fe.onEvaluate = func(*fakeModule) error {
				if broken {
					return errBody
				}
				return nil
			}
			l, _ := newTestLoader(t, tt.engine(fe), WithFileSystem(mfs), WithBaseDir("/work"))

			for i := range 2 {
				if m, err := l.Resolve("./bad.js"); !errors.Is(err, errBody) || m != nil {
					t.Fatalf("Resolve() attempt %d = %v, %v; want error", i+1, m, err)
				}
			}
			if _, err := l.Import("/work/main.js", "./bad.js"); !errors.Is(err, errBody) {
				t.Fatalf("Import() error = %v, want %v", err, errBody)
			}
			if fe.compiles != 3 {
				t.Errorf("compiles = %d, want every attempt to rematerialize", fe.compiles)
			}

			broken = false
			m, err := l.Resolve("./bad.js")
			if err != nil {
				t.Fatalf("Resolve() after recovery error = %v", err)
			}
			if m.(*fakeModule).evals != 1 {
				t.Errorf("recovered module evaluated %d times", m.(*fakeModule).evals)
			}
			again, err := l.Import("/work/main.js", "./bad.js")
			if err != nil || again != m {
				t.Errorf("Import() after recovery = %v, %v; want the recovered module", again, err)
			}
			var n int
			for _, mod := range fe.mods {
				if mod.name == "/work/bad.js" {
					n++
				}
			}
			if n != tt.entries {
				t.Errorf("table holds %d bad.js entries, want %d", n, tt.entries)
			}
		})
	}
}

func TestLoader_JSONModule(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	mfs := newMemFS(map[string]string{
		"/work/data.json": `{"name": "demo", "tags": ["a", "b"], "n": 2}`,
		"/work/bad.json":  `{"name": `,
	})
	eng := &fakeEngine{}
	l, _ := newTestLoader(t, eng, WithFileSystem(mfs), WithBaseDir("/work"))

	m, err := l.Resolve("./data.json")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := map[string]any{"name": "demo", "tags": []any{"a", "b"}, "n": float64(2)}
	if got := m.(*fakeModule).value; !reflect.DeepEqual(got, want) {
		t.Errorf("value = %#v, want %#v", got, want)
	}
	if m.Name() != "/work/data.json" {
		t.Errorf("name = %q", m.Name())
	}

	_, err = l.Resolve("./bad.json")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Resolve(bad.json) error = %v, want ErrDecode", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != KindJSON {
		t.Errorf("DecodeError = %+v", de)
	}
}

func TestLoader_DataURI(t *testing.T) {
	t.Parallel()

	src := "export default function () { return 'héllo' }"
	tests := []struct {
		name     string
		spec     string
		wantSrc  string
		wantName string
	}{
		{"literal", "data:,console.log(1)", "console.log(1)", ""},
		{"percent encoded", "data:text/javascript,let%20a%3D1", "let a=1", "text/javascript"},
		{"stray percent", "data:,console.log(5%2)", "console.log(5%2)", ""},
		{"base64url", "data:text/javascript;base64," + base64.RawURLEncoding.EncodeToString([]byte(src)), src, "text/javascript;base64"},
		{"base64 std padded", "data:;base64," + base64.StdEncoding.EncodeToString([]byte(src)), src, ";base64"},
		{"file scheme prefix", "file://data:,x", "x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mfs := newMemFS(nil)
			eng := &fakeEngine{}
			l, _ := newTestLoader(t, eng, WithFileSystem(mfs), WithBaseDir("/work"))

			m, err := l.Resolve(tt.spec)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			fm := m.(*fakeModule)
			if fm.src != tt.wantSrc {
				t.Errorf("src = %q, want %q", fm.src, tt.wantSrc)
			}
			if fm.name != tt.wantName {
				t.Errorf("identity = %q, want %q", fm.name, tt.wantName)
			}
			if fm.evals != 1 {
				t.Errorf("evals = %d, want 1", fm.evals)
			}
			if len(mfs.stats) != 0 || len(mfs.reads) != 0 {
				t.Error("data URIs must not touch the filesystem")
			}
		})
	}
}

func TestLoader_DataURIDecodeError(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	l, fatals := newTestLoader(t, eng, WithFileSystem(newMemFS(nil)), WithBaseDir("/work"))

	for _, spec := range []string{"data:;base64,@@@", "data:no-comma"} {
		_, err := l.Resolve(spec)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("Resolve(%q) error = %v, want ErrDecode", spec, err)
		}
	}
	if len(eng.mods) != 0 || len(*fatals) != 0 {
		t.Error("decode failures are per-module and recoverable")
	}
}

func TestLoader_NativeUnsupported(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	mfs := newMemFS(map[string]string{"/work/ext" + NativeSuffix: ""})
	l, _ := newTestLoader(t, &fakeEngine{}, WithFileSystem(mfs), WithBaseDir("/work"))

	_, err := l.Resolve("./ext")
	if !errors.Is(err, ErrNativeUnsupported) {
		t.Errorf("Resolve() error = %v, want ErrNativeUnsupported", err)
	}
}
