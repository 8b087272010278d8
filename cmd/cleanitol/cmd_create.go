// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sc4cleanitol/cleanitol/internal/issue"
	"github.com/sc4cleanitol/cleanitol/pkg/script"
)

func newCreateCommand(app *App) *cobra.Command {
	var folder, output string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a Cleanitol script listing every file in a folder",
		Long: `Create a Cleanitol script listing every file in a folder and its
subfolders. Each file name becomes a removal line, so running the script
offers to move those files out of the plugins folder.`,
		Example: `  cleanitol create -f ./MyMod -o MyMod-Cleanitol.txt`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lines, err := script.CreateFromFolder(folder)
			if err != nil {
				return newServiceError(issue.NewErrorContext().
					WithOperation("read input folder").
					WithResource(folder).
					WithSuggestion("Check that the folder exists and is readable").
					Wrap(err).
					BuildError(), 0)
			}
			if err := script.WriteScript(output, lines); err != nil {
				return newServiceError(issue.NewErrorContext().
					WithOperation("create script").
					WithResource(output).
					Wrap(err).
					BuildError(), 0)
			}
			fmt.Fprintf(app.stdout, "%s Wrote %d removal lines to %s\n",
				SuccessStyle.Render("✓"), len(lines), CmdStyle.Render(output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&folder, "input-folder", "f", "", "folder containing the files to add to the script")
	cmd.Flags().StringVarP(&output, "output-file", "o", "", "path of the script to create")
	_ = cmd.MarkFlagRequired("input-folder")
	_ = cmd.MarkFlagRequired("output-file")
	return cmd
}
