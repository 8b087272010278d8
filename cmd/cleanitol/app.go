// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/sc4cleanitol/cleanitol/internal/config"
	"github.com/sc4cleanitol/cleanitol/internal/issue"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra command handler receives an App
	// reference and reaches configuration, clock and output streams through it.
	App struct {
		Config config.Provider
		Now    func() time.Time
		stdout io.Writer
		stderr io.Writer

		flags       rootFlags
		colorScheme config.ColorScheme
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Now    func() time.Time
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlags holds the persistent flags shared by every command.
	rootFlags struct {
		configPath string
		verbose    bool
		plain      bool
	}
)

// NewApp creates an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:      deps.Config,
		Now:         deps.Now,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		colorScheme: config.ColorSchemeAuto,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Now == nil {
		app.Now = time.Now
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig loads the configuration named by --config, or the default one.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return nil, newServiceError(err, issue.ConfigLoadFailedId)
	}
	a.colorScheme = cfg.ColorScheme
	return cfg, nil
}

// logger returns a logger writing to stderr at the level verbose selects.
func (a *App) logger(verbose bool) *log.Logger {
	return newLogger(a.stderr, verbose)
}

// issueStyle returns the glamour style used for issue pages.
func (a *App) issueStyle() string {
	if a.flags.plain {
		return "notty"
	}
	switch a.colorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		if lipgloss.HasDarkBackground() {
			return "dark"
		}
		return "light"
	}
}

// newLogger creates the CLI logger. Debug output is shown only in verbose mode.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}
