// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ModuleNotFoundId Id = iota + 1
	CircularDependencyId
	DecodeFailedId
	AliasLoopId
	ManifestParseErrorId
	NativeUnsupportedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // catalog key
	mdMsg    MarkdownMsg // Markdown body
	extLinks []HttpLink  // further reading
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render formats the guide for the terminal with the given glamour style
// ("auto", "dark", "light", "notty" or a JSON style path).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Module not found

No builtin, alias, or file matched the specifier.

## Resolution order
1. ` + "`data:`" + ` URIs are decoded inline
2. Builtin modules (` + "`jsmod builtins`" + ` lists them)
3. ` + "`_moduleAliases`" + ` in the nearest package.json
4. Explicit paths (containing ` + "`.`" + ` or ` + "`/`" + `) relative to the working directory
5. Bare names under each search root

Each path is tried as-is, then with the native library suffix, ` + "`.js`" + `, and ` + "`/index.js`" + `.

## Things you can try
- Print the search roots:
~~~
$ jsmod config show
~~~
- Add a root for this shell session:
~~~
$ export JSMOD_MODULE_PATH=/path/to/modules
~~~
- Prefix local files with ` + "`./`" + ` so they are not searched for in the roots`,
		extLinks: []HttpLink{"https://developer.mozilla.org/en-US/docs/Web/JavaScript/Guide/Modules"},
	}

	circularDependencyIssue = &Issue{
		id: CircularDependencyId,
		mdMsg: `
# Circular module dependency

A module was requested again while it was still being loaded. The stack
printed above lists every module in flight, innermost first.

## Things you can try
- Move the shared code into a third module both can import
- Check ` + "`_moduleAliases`" + ` for an alias that points back at its importer`,
	}

	decodeFailedIssue = &Issue{
		id: DecodeFailedId,
		mdMsg: `
# Module could not be decoded

The module was found but its contents are not usable.

## Common causes
- A ` + "`.json`" + ` module that is not valid JSON
- A ` + "`data:`" + ` URI with broken base64 or percent-encoding

## Things you can try
- Validate JSON with a linter
- Use ` + "`data:text/javascript;base64,`" + ` for binary-safe payloads`,
		extLinks: []HttpLink{"https://developer.mozilla.org/en-US/docs/Web/URI/Reference/Schemes/data"},
	}

	aliasLoopIssue = &Issue{
		id: AliasLoopId,
		mdMsg: `
# Alias loop

Following ` + "`_moduleAliases`" + ` revisited an earlier name or exceeded the
restart limit.

## Things you can try
- Make sure no alias target is itself an alias key leading back
- Raise ` + "`max_alias_restarts`" + ` in the config if the chain is intentional`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Invalid package.json

The manifest used for alias lookups could not be read. Aliases are ignored
until it is fixed; everything else keeps resolving.

## Things you can try
- Check the JSON syntax
- ` + "`_moduleAliases`" + ` must map strings to strings`,
	}

	nativeUnsupportedIssue = &Issue{
		id: NativeUnsupportedId,
		mdMsg: `
# Native modules are not supported

The specifier resolved to a shared library, but the engine in use cannot
load native code.

## Things you can try
- Use a script or builtin module instead
- Embed the loader with an engine that implements native loading`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

## Things you can try
- Check the CUE syntax of the config file
- Regenerate a default file:
~~~
$ jsmod config init
~~~
- Show where the config is read from:
~~~
$ jsmod config path
~~~`,
	}

	issues = map[Id]*Issue{
		moduleNotFoundIssue.Id():     moduleNotFoundIssue,
		circularDependencyIssue.Id(): circularDependencyIssue,
		decodeFailedIssue.Id():       decodeFailedIssue,
		aliasLoopIssue.Id():          aliasLoopIssue,
		manifestParseErrorIssue.Id(): manifestParseErrorIssue,
		nativeUnsupportedIssue.Id():  nativeUnsupportedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
