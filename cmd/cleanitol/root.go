// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/sc4cleanitol/cleanitol/internal/issue"
	"github.com/sc4cleanitol/cleanitol/pkg/types"
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
	rootCmd := &cobra.Command{
		Use:   "cleanitol",
		Short: "Check SimCity 4 plugins against Cleanitol scripts",
		Long: TitleStyle.Render("cleanitol") + SubtitleStyle.Render(" - Check SimCity 4 plugins against Cleanitol scripts") + `

cleanitol runs Cleanitol scripts against your plugins folders. A script lists
files that should be removed, dependencies that must be installed and notes
for the player. The report shows what is missing, where to download it and
which files can be moved out of the way.

` + SubtitleStyle.Render("Examples:") + `
  cleanitol run MyMod-Cleanitol.txt            Report against the configured plugins
  cleanitol run -t --backup script.txt         Rescan TGIs and move listed files out
  cleanitol create -f ./MyMod -o script.txt    Build a removal script from a folder
  cleanitol undo "<output>/20240102 030405"    Put backed up files back
  cleanitol config init                        Create the configuration file`,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/cleanitol/config.cue)")
	rootCmd.PersistentFlags().BoolVar(&app.flags.plain, "plain", false, "disable colors and terminal hyperlinks")

	rootCmd.AddCommand(
		newRunCommand(app),
		newCreateCommand(app),
		newExportCommand(app),
		newClassifyCommand(app),
		newUndoCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithCommit(Commit),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(newErrorHandler(app)),
	); err != nil {
		os.Exit(int(exitCodeFor(err)))
	}
}

// newErrorHandler renders command errors. ActionableErrors and ServiceErrors
// get their suggestions and issue page; an ExitError without a cause has
// already been reported and prints nothing.
func newErrorHandler(app *App) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			return
		}
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(w, WarningStyle.Render("Interrupted"))
			return
		}
		if isDomainError(err) {
			renderError(w, err, app.flags.verbose, app.issueStyle())
			return
		}
		fang.DefaultErrorHandler(w, styles, err)
	}
}

// isDomainError reports whether err came from cleanitol itself rather than
// from flag parsing.
func isDomainError(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return true
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return true
	}
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return types.ExitInterrupted
	}
	return types.ExitFailure
}
