// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sc4cleanitol/cleanitol/internal/catalog"
	"github.com/sc4cleanitol/cleanitol/pkg/script"
)

const (
	banner      = "-=-=-=-=-=-=-=-=-=-=-=-=-=-=-=-=-=-\n"
	bannerTitle = "    R E P O R T   S U M M A R Y    \n"

	// summaryAt is the index of the first summary line, right after the
	// three banner lines.
	summaryAt = 3
	// summaryLines is the number of summary lines, closing banner included.
	summaryLines = 4
)

// Report is the outcome of one script run.
type Report struct {
	// Lines holds one entry per report line. The first seven are the banner
	// and summary, followed by one entry per script line (comments yield an
	// empty entry), a trailing blank entry, and the skipped-file block.
	Lines [][]FormattedRun
	// Counters are the final tallies.
	Counters Counters
	// FilesToRemove is the removal list in match order.
	FilesToRemove []string
	// Skipped lists the files that could not be parsed.
	Skipped []catalog.SkippedFile
	// LogPath is the error log the skipped-file block links to.
	LogPath string
	// Catalog is the snapshot the script was evaluated against. It is nil
	// for an empty report.
	Catalog *catalog.Catalog
	// Empty is set when the plugins folder could not be enumerated. An empty
	// report is a scan failure, not a script without rules.
	Empty bool
}

// Runs returns all report runs in order.
func (r *Report) Runs() []FormattedRun {
	var out []FormattedRun
	for _, line := range r.Lines {
		out = append(out, line...)
	}
	return out
}

// ScriptLines returns the entries produced by the script lines themselves.
func (r *Report) ScriptLines() [][]FormattedRun {
	if r.Empty || len(r.Lines) < summaryAt+summaryLines {
		return nil
	}
	end := len(r.Lines) - 1
	if len(r.Skipped) > 0 {
		end--
	}
	return r.Lines[summaryAt+summaryLines : end]
}

// Assemble evaluates every script line in order and lays out the report.
// logPath is linked from the skipped-file block when the catalog recorded
// parse failures.
func Assemble(s *Session, lines []string, logPath string) *Report {
	out := make([][]FormattedRun, 0, len(lines)+summaryAt+summaryLines+2)
	out = append(out,
		[]FormattedRun{Styled(banner, StyleBlackMono)},
		[]FormattedRun{Styled(bannerTitle, StyleBlackMono)},
		[]FormattedRun{Styled(banner, StyleBlackMono)},
	)

	for _, line := range lines {
		runs := s.Evaluate(script.Parse(line))
		if runs == nil {
			runs = []FormattedRun{}
		}
		out = append(out, runs)
	}
	out = append(out, []FormattedRun{Text("\n\n")})

	c := s.Counters()
	out = slices.Insert(out, summaryAt, summary(c, len(s.removals))...)

	skipped := s.catalog.Skipped
	if len(skipped) > 0 {
		out = append(out, skippedBlock(skipped, logPath))
	}

	return &Report{
		Lines:         out,
		Counters:      c,
		FilesToRemove: s.FilesToRemove(),
		Skipped:       slices.Clone(skipped),
		LogPath:       logPath,
		Catalog:       s.catalog,
	}
}

func summary(c Counters, removals int) [][]FormattedRun {
	var found strings.Builder
	fmt.Fprintf(&found, "%d/%d dependencies found.", c.Found, c.Scanned)
	if c.Skipped > 0 {
		fmt.Fprintf(&found, " (%d dependencies not required due to conditional rules)", c.Skipped)
	}
	if c.Unchecked > 0 {
		fmt.Fprintf(&found, " (%d unchecked)", c.Unchecked)
	}
	if c.Unresolved > 0 {
		fmt.Fprintf(&found, " (%d unresolved without a TGI index)", c.Unresolved)
	}
	found.WriteString("\n")

	return [][]FormattedRun{
		{Styled(fmt.Sprintf("%d files to remove.\n", removals), StyleBlackMono)},
		{Styled(found.String(), StyleBlueMono)},
		{Styled(fmt.Sprintf("%d/%d dependencies missing.\n", c.Missing, c.Found), StyleRedMono)},
		{Styled(banner, StyleBlackMono)},
	}
}

func skippedBlock(skipped []catalog.SkippedFile, logPath string) []FormattedRun {
	runs := make([]FormattedRun, 0, 2*len(skipped)+3)
	for _, f := range skipped {
		runs = append(runs,
			Styled("Error: ", StyleRedMono),
			Styled(f.Path+" was skipped.\n", StyleRedStd),
		)
	}
	if logPath == "" {
		return append(runs, Styled("No error log was written for this run.\n\n", StyleRedMono))
	}
	return append(runs,
		Styled("Consult the ", StyleRedMono),
		Link("error log", logPath),
		Styled(" located in the output directory for detailed troubleshooting information.\n\n", StyleRedMono),
	)
}
