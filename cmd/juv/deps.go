// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/juvnb/juv/pkg/pep723"
	"github.com/juvnb/juv/pkg/types"
)

// newDepsCommand creates the `juv deps` command.
func newDepsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deps FILE",
		Short: "List the dependencies declared by a notebook or script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), sessionOptions{})
			if err != nil {
				return err
			}

			decl, err := s.svc.Deps(cmd.Context(), types.FilesystemPath(args[0]))
			if err != nil {
				return err
			}
			printDeclaration(cmd.OutOrStdout(), decl)
			return nil
		},
	}
}

func printDeclaration(w io.Writer, decl *pep723.Declaration) {
	python := SubtitleStyle.Render("(any)")
	if decl.RequiresPython != "" {
		python = SuccessStyle.Render(decl.RequiresPython)
	}
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("requires-python"), python)

	fmt.Fprintf(w, "%s:\n", CmdStyle.Render("dependencies"))
	if len(decl.Dependencies) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
		return
	}
	for _, dep := range decl.Dependencies {
		fmt.Fprintf(w, "  - %s\n", SuccessStyle.Render(dep))
	}
}
