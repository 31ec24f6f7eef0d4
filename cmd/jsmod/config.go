// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsmod/jsmod/internal/config"
)

type configReport struct {
	File   string         `json:"file" yaml:"file"`
	Roots  []string       `json:"roots" yaml:"roots"`
	Config *config.Config `json:"config" yaml:"config"`
}

// newConfigCommand creates the `jsmod config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jsmod configuration",
		Long: `Manage jsmod configuration.

Configuration is stored in:
  - Linux: $XDG_CONFIG_HOME/jsmod/config.cue (default ~/.config)
  - macOS: ~/Library/Application Support/jsmod/config.cue
  - Windows: %APPDATA%\jsmod\config.cue

A config.cue in the working directory is used when none exists there.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			roots, err := app.roots(loaded.Config)
			if err != nil {
				return app.fail(cmd, err)
			}
			report := configReport{File: loaded.Path, Roots: roots, Config: loaded.Config}
			if err := app.render(report, func(w io.Writer) { showConfig(w, report) }); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return app.fail(cmd, fmt.Errorf("failed to create config: %w", err))
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", successIcon, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.FilePath("")
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(loaded.Config))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, r configReport) {
	keyStyle := SpecStyle
	valueStyle := SuccessStyle
	cfg := r.Config

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if r.File != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), r.File)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Search roots"), valueStyle.Render(strings.Join(r.Roots, ", ")))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("native_dir"), valueStyle.Render(cfg.NativeDir))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("manifest"), valueStyle.Render(cfg.Manifest))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("max_alias_restarts"), valueStyle.Render(fmt.Sprint(cfg.MaxAliasRestarts)))

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("preload"))
	if len(cfg.Preload) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, p := range cfg.Preload {
		fmt.Fprintf(w, "  - %s\n", valueStyle.Render(p))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("history"))
	fmt.Fprintf(w, "  enabled: %s\n", valueStyle.Render(fmt.Sprint(cfg.History.Enabled)))
	if cfg.History.File != "" {
		fmt.Fprintf(w, "  file: %s\n", valueStyle.Render(cfg.History.File))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", valueStyle.Render(cfg.Log.Level.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
}
