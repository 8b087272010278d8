// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/sc4cleanitol/cleanitol/internal/watch"
)

// watch runs the script once, then again whenever the script file or the
// user plugins folder changes. It blocks until ctx is canceled.
func (r *scriptRun) watch(ctx context.Context) error {
	out := r.app.stdout
	arrow := CmdStyle.Render("→")

	fmt.Fprintf(out, "%s Watch mode: initial run of %s\n", arrow, r.scriptPath)
	if err := r.execute(ctx); err != nil {
		// The user may fix the problem and save again.
		r.reportFailure(err)
	}
	fmt.Fprintf(out, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", arrow)

	w, err := watch.New(watch.Config{
		Targets: []watch.Target{
			watch.Single(r.scriptPath),
			watch.Tree(r.cfg.UserPlugins.String()),
		},
		ClearScreen: !r.app.flags.plain,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(out, "%s Detected %d change(s), running %s again\n", arrow, len(changed), r.scriptPath)
			for _, p := range changed {
				r.logger.Debug("changed", "path", p)
			}
			if err := r.execute(ctx); err != nil {
				r.reportFailure(err)
			}
			fmt.Fprintf(out, "\n%s Watching for changes...\n\n", arrow)
			return nil
		},
		Stdout: out,
		Logger: r.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	return w.Run(ctx)
}

// reportFailure prints a failed run without ending watch mode.
func (r *scriptRun) reportFailure(err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		fmt.Fprintf(r.app.stderr, "%s Missing dependencies\n", WarningStyle.Render("!"))
		return
	}
	renderError(r.app.stderr, err, r.cfg.Verbose, r.app.issueStyle())
}
