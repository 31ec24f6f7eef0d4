// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const ident = `[A-Za-z_$][\w$]*`

var (
	importRe = regexp.MustCompile(`^import\s*(?:(\*\s*as\s+` + ident + `|` + ident + `|\{[^}]*\})\s+from\s+)?['"]([^'"]*)['"]\s*;?$`)

	exportDefaultFuncRe = regexp.MustCompile(`^export\s+default\s+function\b\s*(` + ident + `)?`)
	exportDefaultRe     = regexp.MustCompile(`^export\s+default\s+(.+?)\s*;?$`)
	exportFuncRe        = regexp.MustCompile(`^export\s+function\s+(` + ident + `)`)
	exportVarRe         = regexp.MustCompile(`^export\s+(?:const|let|var)\s+(` + ident + `)\s*=\s*(.+?)\s*;?$`)

	assignRe = regexp.MustCompile(`^globalThis(?:\[['"]([^'"]+)['"]\]|\.(` + ident + `))\s*=\s*(` + ident + `)\s*;?$`)
	mergeRe  = regexp.MustCompile(`^Object\.assign\(\s*globalThis\s*,\s*(` + ident + `)\s*\)\s*;?$`)
	callRe   = regexp.MustCompile(`^(` + ident + `)\(\)\s*;?$`)
)

// SyntaxError reports a declaration the engine cannot parse.
type SyntaxError struct {
	Module string
	Line   int
	Text   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: syntax error: %s", e.Module, e.Line, e.Text)
}

type (
	bindKind int

	importDecl struct {
		spec  string
		kind  bindKind
		local string
		// names maps local bindings to export names for named imports.
		names map[string]string
	}

	stmtKind int

	statement struct {
		line  int
		kind  stmtKind
		key   string
		local string
	}
)

const (
	bindNone bindKind = iota
	bindDefault
	bindNamespace
	bindNamed
)

const (
	stmtAssign stmtKind = iota
	stmtMerge
	stmtCall
)

func parse(name string, src []byte) (*Module, error) {
	m := &Module{name: name, exports: make(map[string]any)}
	sc := bufio.NewScanner(bytes.NewReader(src))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "//"):
		case keyword(line, "import"):
			imp, ok := parseImport(line)
			if !ok {
				return nil, &SyntaxError{Module: name, Line: n, Text: line}
			}
			m.imports = append(m.imports, imp)
		case keyword(line, "export"):
			if !parseExport(m, line) {
				return nil, &SyntaxError{Module: name, Line: n, Text: line}
			}
		default:
			if st, ok := parseStatement(line); ok {
				st.line = n
				m.body = append(m.body, st)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}

// keyword reports whether line starts with the declaration keyword kw.
// Dynamic import() calls are not declarations.
func keyword(line, kw string) bool {
	rest, ok := strings.CutPrefix(line, kw)
	if !ok {
		return false
	}
	if rest == "" {
		return true
	}
	c := rest[0]
	return c == ' ' || c == '\t' || c == '{' || c == '*' || c == '\'' || c == '"'
}

func parseImport(line string) (importDecl, bool) {
	g := importRe.FindStringSubmatch(line)
	if g == nil {
		return importDecl{}, false
	}
	imp := importDecl{spec: g[2]}
	clause := g[1]
	switch {
	case clause == "":
		imp.kind = bindNone
	case strings.HasPrefix(clause, "*"):
		imp.kind = bindNamespace
		fields := strings.Fields(clause)
		imp.local = fields[len(fields)-1]
	case strings.HasPrefix(clause, "{"):
		imp.kind = bindNamed
		imp.names = make(map[string]string)
		for _, part := range strings.Split(strings.Trim(clause, "{}"), ",") {
			fields := strings.Fields(part)
			switch len(fields) {
			case 0:
			case 1:
				imp.names[fields[0]] = fields[0]
			case 3:
				imp.names[fields[2]] = fields[0]
			default:
				return importDecl{}, false
			}
		}
	default:
		imp.kind = bindDefault
		imp.local = clause
	}
	return imp, true
}

func parseExport(m *Module, line string) bool {
	if g := exportDefaultFuncRe.FindStringSubmatch(line); g != nil {
		m.def, m.hasDefault = &Function{Module: m.name, Name: defaultName(g[1])}, true
		return true
	}
	if g := exportDefaultRe.FindStringSubmatch(line); g != nil {
		m.def, m.hasDefault = literal(g[1]), true
		return true
	}
	if g := exportFuncRe.FindStringSubmatch(line); g != nil {
		m.exports[g[1]] = &Function{Module: m.name, Name: g[1]}
		return true
	}
	if g := exportVarRe.FindStringSubmatch(line); g != nil {
		m.exports[g[1]] = literal(g[2])
		return true
	}
	return false
}

func defaultName(name string) string {
	if name == "" {
		return "default"
	}
	return name
}

func parseStatement(line string) (statement, bool) {
	if g := assignRe.FindStringSubmatch(line); g != nil {
		key := g[1]
		if key == "" {
			key = g[2]
		}
		return statement{kind: stmtAssign, key: key, local: g[3]}, true
	}
	if g := mergeRe.FindStringSubmatch(line); g != nil {
		return statement{kind: stmtMerge, local: g[1]}, true
	}
	if g := callRe.FindStringSubmatch(line); g != nil {
		return statement{kind: stmtCall, local: g[1]}, true
	}
	return statement{}, false
}

// literal converts a simple expression to a Go value; anything else is
// kept as its source text.
func literal(expr string) any {
	switch expr {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if s, err := strconv.Unquote(expr); err == nil {
		return s
	}
	if len(expr) >= 2 && expr[0] == '\'' && expr[len(expr)-1] == '\'' {
		return expr[1 : len(expr)-1]
	}
	if f, err := strconv.ParseFloat(expr, 64); err == nil {
		return f
	}
	return expr
}

func (imp importDecl) bind(scope map[string]any, dep *Module) error {
	switch imp.kind {
	case bindDefault:
		if !dep.hasDefault {
			return fmt.Errorf("module '%s' does not provide a default export", dep.name)
		}
		scope[imp.local] = dep.def
	case bindNamespace:
		scope[imp.local] = dep.namespace()
	case bindNamed:
		ns := dep.namespace()
		for local, export := range imp.names {
			v, ok := ns[export]
			if !ok {
				return fmt.Errorf("module '%s' does not provide an export named '%s'", dep.name, export)
			}
			scope[local] = v
		}
	}
	return nil
}

func (st statement) exec(t *Table, scope map[string]any) error {
	v, ok := scope[st.local]
	if !ok {
		return fmt.Errorf("%s is not defined", st.local)
	}
	switch st.kind {
	case stmtAssign:
		t.globals[st.key] = v
	case stmtMerge:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot assign %T to globalThis", v)
		}
		for k, val := range obj {
			t.globals[k] = val
		}
	case stmtCall:
		return t.call(v)
	}
	return nil
}
