// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/jsmod/jsmod/pkg/jsmod"
)

type (
	loadResult struct {
		Specifier string `json:"specifier" yaml:"specifier"`
		Module    string `json:"module" yaml:"module"`
		Mode      string `json:"mode" yaml:"mode"`
		Binding   string `json:"binding,omitempty" yaml:"binding,omitempty"`
	}

	loadReport struct {
		Modules []loadResult   `json:"modules" yaml:"modules"`
		Globals map[string]any `json:"globals,omitempty" yaml:"globals,omitempty"`
	}
)

func newLoadCommand(app *App) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "load <specifier>...",
		Short: "Load modules and bind them to globals",
		Long: `Load each specifier into one engine context and expose it globally.

A leading '!' calls the default export instead of binding it, and a leading
'*' copies every export onto the global object. Otherwise the default
export is bound under --key, or the file name without its extension.
Successful loads are recorded in the history file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), true)
			if err != nil {
				return app.fail(cmd, err)
			}

			report := loadReport{Modules: make([]loadResult, 0, len(args))}
			for _, spec := range args {
				m, err := s.loader.Load(spec, key)
				if err != nil {
					return app.fail(cmd, describe("load module", spec, s.loader, err))
				}
				g := jsmod.ParseGlue(spec, key)
				r := loadResult{Specifier: spec, Module: m.Name(), Mode: g.Mode.String()}
				if g.Mode == jsmod.BindNamed {
					r.Binding = g.Key
				}
				report.Modules = append(report.Modules, r)
			}
			s.saveHistory()

			if app.flags.verbose {
				report.Globals = s.table.Globals()
			}
			err = app.render(report, func(w io.Writer) {
				for _, r := range report.Modules {
					line := fmt.Sprintf("%s %s %s %s", successIcon, SpecStyle.Render(r.Specifier), arrowIcon, r.Module)
					if r.Binding != "" {
						line += SubtitleStyle.Render(" as " + r.Binding)
					}
					fmt.Fprintln(w, line)
				}
				if len(report.Globals) > 0 {
					fmt.Fprintln(w, TitleStyle.Render("Globals"))
					names := make([]string, 0, len(report.Globals))
					for name := range report.Globals {
						names = append(names, name)
					}
					slices.Sort(names)
					for _, name := range names {
						fmt.Fprintf(w, "  %s = %s\n", name, VerboseStyle.Render(fmt.Sprint(report.Globals[name])))
					}
				}
			})
			if err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "global name to bind the default export under")
	return cmd
}
