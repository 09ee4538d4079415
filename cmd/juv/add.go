// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juvnb/juv/internal/app/workflow"
	"github.com/juvnb/juv/pkg/types"
)

// newAddCommand creates the `juv add` command.
func newAddCommand(app *App) *cobra.Command {
	var (
		requirements string
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "add FILE [PACKAGE...]",
		Short: "Add dependencies to a notebook",
		Long: `Add dependencies to the inline metadata of a notebook.

The metadata cell is handed to uv add, and the updated block is written back
into the same cell. A notebook without a metadata cell gets a hidden one at the
top. The file is left untouched when uv fails.

Examples:
  juv add analysis.ipynb requests "numpy>=2"
  juv add analysis.ipynb -r requirements.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), sessionOptions{dryRun: dryRun})
			if err != nil {
				return err
			}

			path, err := s.svc.Add(cmd.Context(), workflow.AddRequest{
				Path:         types.FilesystemPath(args[0]),
				Packages:     args[1:],
				Requirements: requirements,
			})
			if err != nil {
				return err
			}
			if !dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s\n", successIcon, CmdStyle.Render(string(path)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&requirements, "requirements", "r", "", "add all packages listed in the given requirements file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the uv command instead of running it")

	return cmd
}
