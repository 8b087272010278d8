// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sc4cleanitol/cleanitol/internal/backup"
	"github.com/sc4cleanitol/cleanitol/internal/issue"
)

func newUndoCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <backup-folder>",
		Short: "Put the files of a backup folder back where they came from",
		Long: `Put the files of a backup folder back where they came from.

This runs the folder's undo.sh with a built-in shell, so it works the same on
every platform. The backup folder is left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := backup.Restore(cmd.Context(), args[0], app.stdout, app.stderr)
			if err != nil {
				return newServiceError(issue.NewErrorContext().
					WithOperation("restore backup").
					WithResource(args[0]).
					WithSuggestion("Pass a folder created by 'cleanitol run --backup'").
					WithSuggestion("On Windows you can also run the folder's undo.bat").
					Wrap(err).
					BuildError(), 0)
			}
			fmt.Fprintf(app.stdout, "%s Restored %d files\n", SuccessStyle.Render("✓"), n)
			return nil
		},
	}
}
