// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sc4cleanitol/cleanitol/internal/catalog"
	"github.com/sc4cleanitol/cleanitol/internal/issue"
	"github.com/sc4cleanitol/cleanitol/pkg/script"
)

// RunRequest describes one script run.
type RunRequest struct {
	// ScriptPath is the script to load. It is also recorded in the error log.
	ScriptPath string
	// Lines, when non-nil, are evaluated instead of loading ScriptPath.
	Lines []string
	// Catalog configures the plugin scan.
	Catalog catalog.Options
	// Builder is reused when set so callers can sample its progress.
	Builder *catalog.Builder
	Verbose bool
	// OutputDir receives the error log. Empty disables it.
	OutputDir string
	// Now defaults to time.Now.
	Now func() time.Time
	// Logger defaults to a discarding logger.
	Logger *log.Logger
}

// Run loads the script, builds the catalog and assembles the report.
//
// Configuration problems (missing script, invalid folders) are returned as
// errors before anything is scanned. When the plugins folder cannot be
// enumerated the returned report has Empty set and the error is nil.
func Run(ctx context.Context, req RunRequest) (*Report, error) {
	logger := req.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := req.Now
	if now == nil {
		now = time.Now
	}

	lines := req.Lines
	if lines == nil {
		loaded, err := script.LoadFile(req.ScriptPath)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load script").
				WithResource(req.ScriptPath).
				WithSuggestion("Check the script path").
				Wrap(err).
				BuildError()
		}
		lines = loaded
	}

	builder := req.Builder
	if builder == nil {
		builder = catalog.NewBuilder()
	}
	opts := req.Catalog
	if opts.Logger == nil {
		opts.Logger = logger
	}

	cat, err := builder.Build(ctx, opts)
	if err != nil {
		if errors.Is(err, catalog.ErrEnumeration) {
			logger.Error("plugin scan failed", "error", err)
			return &Report{Empty: true}, nil
		}
		return nil, err
	}

	var logPath string
	if req.OutputDir != "" {
		entries := make([]LogEntry, 0, len(cat.Skipped))
		at := now()
		for _, f := range cat.Skipped {
			entries = append(entries, LogEntry{Time: at, Script: req.ScriptPath, File: f.Path, Err: f.Err})
		}
		logPath, err = writeErrorLogFile(req.OutputDir, entries)
		if err != nil {
			logger.Warn("could not write error log", "error", err)
			logPath = ""
		}
	}

	session := NewSession(cat, req.Verbose)
	report := Assemble(session, lines, logPath)
	logger.Debug("script evaluated",
		"lines", len(lines),
		"scanned", report.Counters.Scanned,
		"found", report.Counters.Found,
		"missing", report.Counters.Missing,
		"removals", report.Counters.Removals)
	return report, nil
}
