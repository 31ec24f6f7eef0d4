// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type normalizeResult struct {
	Specifier string `json:"specifier" yaml:"specifier"`
	Importer  string `json:"importer,omitempty" yaml:"importer,omitempty"`
	Name      string `json:"name" yaml:"name"`
}

func newNormalizeCommand(app *App) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "normalize <specifier>...",
		Short: "Print the canonical module name of each specifier",
		Long: `Print the name an engine would register each specifier under when it is
imported from --from. Relative specifiers are joined to the importer's
directory and suffix-probed. Search roots and aliases are not consulted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), false)
			if err != nil {
				return app.fail(cmd, err)
			}

			results := make([]normalizeResult, 0, len(args))
			for _, spec := range args {
				results = append(results, normalizeResult{
					Specifier: spec,
					Importer:  from,
					Name:      s.loader.Normalize(from, spec),
				})
			}

			err = app.render(results, func(w io.Writer) {
				for _, r := range results {
					fmt.Fprintf(w, "%s %s %s\n", SpecStyle.Render(r.Specifier), arrowIcon, r.Name)
				}
			})
			if err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "importing module name")
	return cmd
}
