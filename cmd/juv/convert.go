// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juvnb/juv/internal/app/workflow"
	"github.com/juvnb/juv/pkg/types"
)

// newConvertCommand creates the `juv convert` command.
func newConvertCommand(app *App) *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "convert SCRIPT",
		Short: "Convert a script into a notebook",
		Long: `Convert a script into a notebook.

"# %%" lines separate cells. An inline metadata block becomes a hidden first
cell. The notebook is written next to the script unless -o is given.

Examples:
  juv convert analysis.py
  juv convert analysis.py -o notebooks/analysis.ipynb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), sessionOptions{})
			if err != nil {
				return err
			}

			path, err := s.svc.Convert(cmd.Context(), workflow.ConvertRequest{
				Script: types.FilesystemPath(args[0]),
				Output: types.FilesystemPath(output),
				Force:  force,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", successIcon, CmdStyle.Render(string(path)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "notebook to write (default: SCRIPT with a .ipynb extension)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing notebook")

	return cmd
}

// newExportCommand creates the `juv export` command.
func newExportCommand(app *App) *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "export NOTEBOOK",
		Short: "Convert a notebook into a script",
		Long: `Convert a notebook into a script.

The metadata cell is written first as a plain block, then every other code
cell behind a "# %%" line. Markdown and raw cells are left out.

Examples:
  juv export analysis.ipynb
  juv export analysis.ipynb -o analysis_export.py`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), sessionOptions{})
			if err != nil {
				return err
			}

			path, err := s.svc.Export(cmd.Context(), workflow.ExportRequest{
				Notebook: types.FilesystemPath(args[0]),
				Output:   types.FilesystemPath(output),
				Force:    force,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", successIcon, CmdStyle.Render(string(path)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "script to write (default: NOTEBOOK with a .py extension)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing script")

	return cmd
}
