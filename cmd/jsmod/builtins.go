// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type builtinInfo struct {
	Name   string `json:"name" yaml:"name"`
	Kind   string `json:"kind" yaml:"kind"`
	Loaded bool   `json:"loaded" yaml:"loaded"`
}

func newBuiltinsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List the modules compiled into the binary",
		Long: `List every builtin module in registration order with its kind and
whether it has been instantiated. Modules loaded with --module, and the
builtins they import, show as loaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context(), true)
			if err != nil {
				return app.fail(cmd, err)
			}

			loaded := s.loader.Builtins()
			entries := s.loader.Registry().Entries()
			infos := make([]builtinInfo, 0, len(entries))
			for _, b := range entries {
				infos = append(infos, builtinInfo{Name: b.Name, Kind: b.Kind().String(), Loaded: loaded[b.Name]})
			}

			err = app.render(infos, func(w io.Writer) {
				for _, b := range infos {
					mark := SubtitleStyle.Render("-")
					if b.Loaded {
						mark = successIcon
					}
					fmt.Fprintf(w, "%s %-10s %s\n", mark, SpecStyle.Render(b.Name), SubtitleStyle.Render(b.Kind))
				}
			})
			if err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
}
