// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jsmod/jsmod/pkg/jsmod"
)

//go:embed builtins/*.js
var builtinSources embed.FS

// nativeBuiltins are synthesized from Go values on first import.
var nativeBuiltins = []struct {
	name   string
	values func() map[string]any
}{
	{"std", func() map[string]any {
		return map[string]any{"platform": runtime.GOOS, "arch": runtime.GOARCH}
	}},
	{"os", func() map[string]any {
		wd, _ := os.Getwd()
		return map[string]any{"platform": runtime.GOOS, "cwd": wd}
	}},
	{"path", func() map[string]any {
		return map[string]any{"sep": string(filepath.Separator), "delimiter": string(filepath.ListSeparator)}
	}},
	{"process", func() map[string]any {
		return map[string]any{"pid": float64(os.Getpid()), "argv": append([]string(nil), os.Args...)}
	}},
}

// RegisterDefaults adds the engine's builtin modules to reg: the native
// std, os, path and process modules, followed by the precompiled script
// modules embedded in the binary.
func RegisterDefaults(reg *jsmod.Registry) error {
	for _, b := range nativeBuiltins {
		if err := reg.RegisterNative(b.name, nativeInit(b.values)); err != nil {
			return err
		}
	}

	entries, err := builtinSources.ReadDir("builtins")
	if err != nil {
		return err
	}
	for _, e := range entries {
		src, err := builtinSources.ReadFile(path.Join("builtins", e.Name()))
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(e.Name(), jsmod.ScriptSuffix)
		blob, err := Precompile(name, src)
		if err != nil {
			return fmt.Errorf("precompile builtin %s: %w", name, err)
		}
		if err := reg.RegisterBytecode(name, blob); err != nil {
			return err
		}
	}
	return nil
}

func nativeInit(values func() map[string]any) jsmod.NativeInit {
	return func(e jsmod.Engine, name string) (jsmod.Module, error) {
		return e.Synthesize(name, values())
	}
}
