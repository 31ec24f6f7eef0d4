// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ErrHistoryDisabled is returned by the history command when history.enabled is false.
var ErrHistoryDisabled = errors.New("module history is disabled")

type historyReport struct {
	Path    string   `json:"path" yaml:"path"`
	Entries []string `json:"entries" yaml:"entries"`
}

func newHistoryCommand(app *App) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the specifiers recorded by load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context(), false)
			if err != nil {
				return app.fail(cmd, err)
			}
			if s.history == nil {
				return app.fail(cmd, ErrHistoryDisabled)
			}

			if clearAll {
				s.history.Clear()
				if err := s.history.Save(); err != nil {
					return app.fail(cmd, fmt.Errorf("clear history: %w", err))
				}
				fmt.Fprintf(app.stdout, "%s Cleared %s\n", successIcon, s.history.Path())
				return nil
			}

			report := historyReport{Path: s.history.Path(), Entries: s.history.Entries()}
			err = app.render(report, func(w io.Writer) {
				if len(report.Entries) == 0 {
					fmt.Fprintln(w, SubtitleStyle.Render("(no history)"))
					return
				}
				for i, e := range report.Entries {
					fmt.Fprintf(w, "%3d %s\n", i, e)
				}
			})
			if err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "empty the history file")
	return cmd
}
