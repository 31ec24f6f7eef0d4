// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"path"
	"strings"
)

// GlueModuleName is the name glue scripts are evaluated under.
const GlueModuleName = "<internal>"

// BindMode selects how a loaded module is exposed to the global scope.
type BindMode int

const (
	// BindNamed assigns the default export to a single global.
	BindNamed BindMode = iota
	// BindExec calls the default export. Selected by a leading '!'.
	BindExec
	// BindAll copies every export onto the global object. Selected by a
	// leading '*' when no explicit key is given.
	BindAll
)

// String returns "named", "exec" or "all".
func (m BindMode) String() string {
	switch m {
	case BindExec:
		return "exec"
	case BindAll:
		return "all"
	default:
		return "named"
	}
}

// Glue describes how Load exposes a module.
type Glue struct {
	// Specifier is the module reference with sentinel prefixes removed.
	Specifier string
	// Key is the global name for BindNamed.
	Key  string
	Mode BindMode
}

// ParseGlue consumes the '!' and '*' sentinel prefixes of spec. key, when
// non-empty, overrides the global name and disables '*'.
func ParseGlue(spec, key string) Glue {
	g := Glue{Mode: BindNamed}
	for len(spec) > 0 {
		switch spec[0] {
		case '!':
			g.Mode = BindExec
		case '*':
			if key == "" {
				g.Mode = BindAll
			}
		default:
			g.Specifier = spec
			g.Key = bindingName(spec, key)
			return g
		}
		spec = spec[1:]
	}
	g.Key = key
	return g
}

// StripSentinels removes leading '!' and '*' characters.
func StripSentinels(spec string) string {
	return strings.TrimLeft(spec, "!*")
}

// bindingName is key, or the base name of spec without its extension.
func bindingName(spec, key string) string {
	if key != "" {
		return key
	}
	base := path.Base(strings.ReplaceAll(spec, "\\", "/"))
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// Script renders the glue module. star imports the namespace object instead
// of the default export and turns BindExec into BindNamed.
func (g Glue) Script(star bool) string {
	var b strings.Builder
	b.WriteString("import ")
	if star {
		b.WriteString("* as ")
	}
	b.WriteString("tmp from '")
	b.WriteString(g.Specifier)
	b.WriteString("';\n")

	mode := g.Mode
	if star && mode == BindExec {
		mode = BindNamed
	}
	switch mode {
	case BindExec:
		b.WriteString("tmp();\n")
	case BindAll:
		b.WriteString("Object.assign(globalThis, tmp);\n")
	default:
		b.WriteString("globalThis['")
		b.WriteString(g.Key)
		b.WriteString("'] = tmp;\n")
	}
	return b.String()
}
