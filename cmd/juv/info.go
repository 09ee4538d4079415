// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/juvnb/juv/pkg/platform"
)

// newVersionCommand creates the `juv version` command.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the juv version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "juv %s\n", getVersionString())
			return nil
		},
	}
}

// newInfoCommand creates the `juv info` command.
func newInfoCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show juv, uv and environment details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), sessionOptions{})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, TitleStyle.Render("juv"))
			fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("version"), getVersionString())
			fmt.Fprintf(w, "%s: %s/%s\n", CmdStyle.Render("platform"), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("sandbox"), platform.DetectSandbox())
			cfgPath := SubtitleStyle.Render("(using defaults)")
			if s.cfgPath != "" {
				cfgPath = s.cfgPath
			}
			fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("config"), cfgPath)

			fmt.Fprintln(w)
			fmt.Fprintln(w, TitleStyle.Render("uv"))
			fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("command"), s.cfg.UV.Command)
			version, err := s.runner.Version(cmd.Context())
			if err != nil {
				fmt.Fprintf(w, "%s: %s %s\n", CmdStyle.Render("version"), warningIcon, WarningStyle.Render(err.Error()))
				return nil
			}
			fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("version"), version)
			return nil
		},
	}
}
