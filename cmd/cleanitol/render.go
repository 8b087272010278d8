// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/sc4cleanitol/cleanitol/internal/engine"
)

// runStyle maps a report run style to its terminal style.
func runStyle(s engine.RunStyle) lipgloss.Style {
	switch s {
	case engine.StyleBlackMonoBold:
		return runBoldStyle
	case engine.StyleBlackHeading:
		return runHeadingStyle
	case engine.StyleBlueStd, engine.StyleBlueMono:
		return runBlueStyle
	case engine.StyleRedStd, engine.StyleRedMono:
		return runRedStyle
	case engine.StyleGreenStd:
		return runGreenStyle
	case engine.StyleHyperlink:
		return runLinkStyle
	case engine.StyleHyperlinkMono:
		return runLinkMonoStyle
	default:
		return runBlackStyle
	}
}

// renderRuns renders report runs for the terminal. Plain output has no
// escape sequences and shows link targets inline.
func renderRuns(runs []engine.FormattedRun, plain bool) string {
	if plain {
		return engine.PlainText(runs)
	}
	var b strings.Builder
	for _, r := range runs {
		text := paint(runStyle(r.Style), r.Text)
		if r.Style.IsHyperlink() && r.URL != "" {
			text = hyperlink(text, r.URL)
		}
		b.WriteString(text)
	}
	return b.String()
}

// writeReport writes every report line to w.
func writeReport(w io.Writer, r *engine.Report, plain bool) error {
	_, err := io.WriteString(w, renderRuns(r.Runs(), plain))
	return err
}

// paint styles each line of text separately so that lipgloss does not pad
// lines to a common width.
func paint(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// hyperlink wraps text in an OSC 8 terminal hyperlink to url.
func hyperlink(text, url string) string {
	return ansi.SetHyperlink(url) + text + ansi.ResetHyperlink()
}

// filepathToURL returns the escaped URL path of a local file.
func filepathToURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Path: p}).EscapedPath()
}
