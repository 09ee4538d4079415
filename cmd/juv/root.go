// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for juv.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

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

// NewRootCommand builds the juv command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "juv",
		Short: "Reproducible Jupyter notebooks with inline dependencies",
		Long: TitleStyle.Render("juv") + SubtitleStyle.Render(" - Reproducible Jupyter notebooks with inline dependencies") + `

juv keeps a notebook's Python requirements inside the notebook itself, as an
inline script metadata block ("# /// script") stored in a hidden first cell.
Dependency resolution is delegated to uv.

` + SubtitleStyle.Render("Examples:") + `
  juv init                      Create Untitled.ipynb
  juv init analysis.ipynb --with polars
  juv add analysis.ipynb requests "numpy>=2"
  juv convert analysis.py       Turn a script into a notebook
  juv export analysis.ipynb     Turn a notebook back into a script
  juv deps analysis.ipynb       List declared dependencies`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/juv/config.cue)")

	rootCmd.AddCommand(newInitCommand(app))
	rootCmd.AddCommand(newAddCommand(app))
	rootCmd.AddCommand(newConvertCommand(app))
	rootCmd.AddCommand(newExportCommand(app))
	rootCmd.AddCommand(newDepsCommand(app))
	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newInfoCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the command tree with the process arguments and returns the
// exit code.
func Run() int {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		return 1
	}

	err = fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			app.renderError(w, err)
		}),
	)
	return int(exitCodeFor(err))
}

// Execute runs juv and exits the process. This is called by main.main().
func Execute() {
	os.Exit(Run())
}
