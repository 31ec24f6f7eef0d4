// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jsmod/jsmod/pkg/types"
)

type findResult struct {
	Specifier string `json:"specifier" yaml:"specifier"`
	Start     int    `json:"start" yaml:"start"`
	Index     int    `json:"index" yaml:"index"`
}

func newFindCommand(app *App) *cobra.Command {
	var start int

	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Print the module table index of a loaded module",
		Long: `Print the index of an already loaded module in the engine's module table.
Nothing is loaded by this command, so combine it with --module to populate
the table first. A negative --start counts back from the end of the table,
and the index is then reported relative to the end.`,
		Example: `  jsmod find -m ./lib/a.js,./lib/b.js /abs/lib/a.js
  jsmod find -m events --start -1 util`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), true)
			if err != nil {
				return app.fail(cmd, err)
			}

			r := findResult{Specifier: args[0], Start: start, Index: s.loader.FindIndex(args[0], start)}
			err = app.render(r, func(w io.Writer) {
				if r.Index == -1 {
					fmt.Fprintf(w, "%s %s %s\n", SpecStyle.Render(r.Specifier), arrowIcon, WarningStyle.Render("not loaded"))
					return
				}
				fmt.Fprintf(w, "%s %s %d\n", SpecStyle.Render(r.Specifier), arrowIcon, r.Index)
			})
			if err != nil {
				return app.fail(cmd, err)
			}
			if r.Index == -1 {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				return &ExitError{Code: types.ExitModuleNotFound}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "table index to start scanning from")
	return cmd
}
