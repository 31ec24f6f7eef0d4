// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "jsmod",
		Short: "Resolve and load script modules",
		Long: TitleStyle.Render("jsmod") + SubtitleStyle.Render(" - module resolution for embedded script engines") + `

jsmod turns import specifiers into loaded modules the way an embedding
engine does: builtins first, then relative paths with suffix probing,
the search roots from JSMOD_MODULE_PATH, and package manifest aliases.

` + SubtitleStyle.Render("Examples:") + `
  jsmod locate ./lib/util        Print the file a specifier resolves to
  jsmod normalize --from a.js ./b  Canonical name of an import
  jsmod load '*events'           Load a module and bind it globally
  jsmod graph ./main.js          Dependencies in load order
  jsmod builtins                 List compiled-in modules`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "show error chains and troubleshooting guides")
	pf.BoolVar(&app.flags.debug, "debug", false, "log every resolution step")
	pf.StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/jsmod/config.cue)")
	pf.StringSliceVar(&app.flags.modulePath, "module-path", nil, "search roots, overriding JSMOD_MODULE_PATH and module_path")
	pf.StringSliceVarP(&app.flags.preload, "module", "m", nil, "modules to load before the command runs")
	pf.StringVar(&app.flags.baseDir, "base-dir", "", "directory relative specifiers resolve against (default is the working directory)")
	pf.StringVarP(&app.flags.format, "format", "o", string(formatText), "output format: text, yaml or json")

	root.AddCommand(
		newLocateCommand(app),
		newNormalizeCommand(app),
		newLoadCommand(app),
		newFindCommand(app),
		newGraphCommand(app),
		newBuiltinsCommand(app),
		newHistoryCommand(app),
		newConfigCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits with the code of the failure, if any.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(exitCodeFor(err)))
	}
}
