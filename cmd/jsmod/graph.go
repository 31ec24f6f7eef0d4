// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type graphNode struct {
	Module     string   `json:"module" yaml:"module"`
	Dependents []string `json:"dependents,omitempty" yaml:"dependents,omitempty"`
}

func newGraphCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "graph <specifier>...",
		Short: "Load modules and print their imports in load order",
		Long: `Load each specifier and print every module reached through imports,
dependencies first. Each module lists the modules that import it. Import
cycles are reported as errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), true)
			if err != nil {
				return app.fail(cmd, err)
			}
			for _, spec := range args {
				if _, err := s.loader.Load(spec, ""); err != nil {
					return app.fail(cmd, describe("load module", spec, s.loader, err))
				}
			}

			order, err := s.loader.LoadOrder()
			if err != nil {
				return app.fail(cmd, describe("order modules", strings.Join(args, " "), s.loader, err))
			}
			nodes := make([]graphNode, 0, len(order))
			for _, name := range order {
				nodes = append(nodes, graphNode{Module: name, Dependents: s.loader.Dependents(name)})
			}

			err = app.render(nodes, func(w io.Writer) {
				for i, n := range nodes {
					fmt.Fprintf(w, "%3d %s\n", i+1, SpecStyle.Render(n.Module))
					for _, d := range n.Dependents {
						fmt.Fprintf(w, "      %s %s\n", SubtitleStyle.Render("imported by"), d)
					}
				}
			})
			if err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
}
