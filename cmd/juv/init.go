// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juvnb/juv/internal/app/workflow"
	"github.com/juvnb/juv/pkg/types"
)

// newInitCommand creates the `juv init` command.
func newInitCommand(app *App) *cobra.Command {
	var (
		python string
		with   []string
		force  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "init [FILE]",
		Short: "Create a new notebook",
		Long: `Create a new notebook from the script uv scaffolds.

Without FILE, the first free name among Untitled.ipynb, Untitled1.ipynb, ...
in the current directory is used. The inline metadata block becomes a hidden
first cell; packages given with --with are added to it before the notebook
is written.

Examples:
  juv init
  juv init analysis.ipynb --python 3.12
  juv init analysis.ipynb --with polars,altair`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), sessionOptions{dryRun: dryRun})
			if err != nil {
				return err
			}

			req := workflow.InitRequest{
				Python:   types.PythonVersion(python),
				Packages: with,
				Force:    force,
			}
			if len(args) == 1 {
				req.Path = types.FilesystemPath(args[0])
			}

			path, err := s.svc.Init(cmd.Context(), req)
			if err != nil {
				return err
			}
			if !dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Initialized notebook at %s\n", successIcon, CmdStyle.Render(string(path)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&python, "python", "p", "", "Python version or constraint passed to uv init")
	cmd.Flags().StringSliceVar(&with, "with", nil, "packages to add to the new notebook (repeatable, comma-separated)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing notebook")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the uv commands instead of running them")

	return cmd
}
