// SPDX-License-Identifier: MPL-2.0

// Package engine evaluates Cleanitol scripts against a plugin catalog.
//
// A Session owns one run's catalog, counters and removal list. Evaluate
// turns one classified rule into FormattedRuns; Assemble drives it over a
// whole script and lays out the report with its summary block. Runs are
// plain data: the CLI maps RunStyle to terminal styles and PlainText renders
// them without any styling.
package engine
