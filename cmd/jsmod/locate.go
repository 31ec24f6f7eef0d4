// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jsmod/jsmod/pkg/jsmod"
)

type locateResult struct {
	Specifier string `json:"specifier" yaml:"specifier"`
	Kind      string `json:"kind" yaml:"kind"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
}

func newLocateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "locate <specifier>...",
		Short: "Print the file each specifier resolves to",
		Long: `Print the file each specifier resolves to without loading it.

Builtins and data URIs have no file and are reported by kind. The command
exits with status 2 when any specifier cannot be resolved.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), false)
			if err != nil {
				return app.fail(cmd, err)
			}

			results := make([]locateResult, 0, len(args))
			var missed string
			for _, spec := range args {
				r := locate(s.loader, spec)
				if r.Kind == "" && missed == "" {
					missed = spec
				}
				results = append(results, r)
			}

			err = app.render(results, func(w io.Writer) {
				for _, r := range results {
					switch {
					case r.Path != "":
						fmt.Fprintf(w, "%s %s %s\n", SpecStyle.Render(r.Specifier), arrowIcon, r.Path)
					case r.Kind != "":
						fmt.Fprintf(w, "%s %s %s\n", SpecStyle.Render(r.Specifier), arrowIcon, SubtitleStyle.Render("("+r.Kind+")"))
					default:
						fmt.Fprintf(w, "%s %s %s\n", SpecStyle.Render(r.Specifier), arrowIcon, WarningStyle.Render("not found"))
					}
				}
			})
			if err != nil {
				return app.fail(cmd, err)
			}
			if missed != "" {
				return app.fail(cmd, describe("locate module", missed, s.loader, &jsmod.MissError{Specifier: missed}))
			}
			return nil
		},
	}
}

// locate classifies spec the way Resolve would, without materializing it.
// An empty Kind means nothing matched.
func locate(l *jsmod.Loader, spec string) locateResult {
	r := locateResult{Specifier: spec}
	bare := jsmod.StripSentinels(spec)
	if jsmod.IsDataURI(bare) {
		r.Kind = jsmod.KindDataURI.String()
		return r
	}
	if b, ok := l.Registry().Lookup(bare); ok {
		r.Kind = b.Kind().String()
		return r
	}
	if p, ok := l.Locate(bare); ok {
		r.Path = p
		r.Kind = jsmod.FileKind(p).String()
	}
	return r
}
