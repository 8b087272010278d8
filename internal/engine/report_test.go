// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/sc4cleanitol/cleanitol/internal/catalog"
)

func TestAssemble_EmptyScript(t *testing.T) {
	t.Parallel()

	r := Assemble(NewSession(newTestCatalog(t, false, nil), false), nil, "")

	want := banner + bannerTitle + banner +
		"0 files to remove.\n" +
		"0/0 dependencies found.\n" +
		"0/0 dependencies missing.\n" +
		banner +
		"\n\n"
	if got := textOf(r.Runs()); got != want {
		t.Errorf("report =\n%s\nwant\n%s", got, want)
	}
	if len(r.Lines) != 8 {
		t.Errorf("len(Lines) = %d, want 8", len(r.Lines))
	}
	if r.Empty || len(r.ScriptLines()) != 0 {
		t.Errorf("Empty = %v, ScriptLines = %v", r.Empty, r.ScriptLines())
	}
}

func TestAssemble_Layout(t *testing.T) {
	t.Parallel()

	lines := []string{
		">#Required",
		"A.dat; http://a",
		"; internal note",
		"B.dat ?? Gone.dat; http://b",
		"old.bak",
	}
	cat := newTestCatalog(t, false, nil, "B.dat", "old.bak")
	r := Assemble(NewSession(cat, false), lines, "")

	if got := len(r.ScriptLines()); got != len(lines) {
		t.Fatalf("len(ScriptLines()) = %d, want %d", got, len(lines))
	}
	if got := textOf(r.Lines[3]); got != "1 files to remove.\n" {
		t.Errorf("removal summary = %q", got)
	}
	if got := textOf(r.Lines[4]); got != "0/2 dependencies found. (1 dependencies not required due to conditional rules)\n" {
		t.Errorf("found summary = %q", got)
	}
	if got := textOf(r.Lines[5]); got != "1/0 dependencies missing.\n" {
		t.Errorf("missing summary = %q", got)
	}
	if r.Lines[4][0].Style != StyleBlueMono || r.Lines[5][0].Style != StyleRedMono {
		t.Error("summary styles changed")
	}
	if got := textOf(r.ScriptLines()[1]); !strings.HasPrefix(got, "Missing: A.dat") {
		t.Errorf("second script line = %q", got)
	}
	if len(r.ScriptLines()[2]) != 0 {
		t.Error("script comment produced runs")
	}
	if len(r.FilesToRemove) != 1 || !r.Counters.Balanced() {
		t.Errorf("FilesToRemove = %v, counters = %+v", r.FilesToRemove, r.Counters)
	}
}

func TestAssemble_SkippedBlock(t *testing.T) {
	t.Parallel()

	cat := newTestCatalog(t, true, nil, "bad.dat")
	cat.Skipped = []catalog.SkippedFile{{Path: "/plugins/bad.dat", Err: errors.New("corrupt")}}

	r := Assemble(NewSession(cat, false), []string{"x.dat; http://x"}, "/out/SC4Cleanitol_Error_Log.txt")

	last := r.Lines[len(r.Lines)-1]
	if got := textOf(last); !strings.Contains(got, "Error: /plugins/bad.dat was skipped.\n") {
		t.Errorf("skipped block = %q", got)
	}
	link, ok := findRun(last, "error log")
	if !ok || link.URL != "/out/SC4Cleanitol_Error_Log.txt" || !link.Style.IsHyperlink() {
		t.Errorf("log link = %+v", link)
	}
	if len(r.ScriptLines()) != 1 {
		t.Errorf("ScriptLines() = %d entries, want 1", len(r.ScriptLines()))
	}
	if len(r.Skipped) != 1 || r.LogPath == "" {
		t.Errorf("Skipped = %v, LogPath = %q", r.Skipped, r.LogPath)
	}
}

func TestAssemble_SkippedBlockWithoutLog(t *testing.T) {
	t.Parallel()

	cat := newTestCatalog(t, true, nil, "bad.dat")
	cat.Skipped = []catalog.SkippedFile{{Path: "/plugins/bad.dat", Err: errors.New("corrupt")}}

	r := Assemble(NewSession(cat, false), nil, "")

	last := r.Lines[len(r.Lines)-1]
	got := textOf(last)
	if !strings.HasSuffix(got, "No error log was written for this run.\n\n") {
		t.Errorf("skipped block = %q", got)
	}
	if strings.Contains(got, "--") {
		t.Errorf("skipped block names a command-line flag: %q", got)
	}
	for _, run := range last {
		if run.Style.IsHyperlink() {
			t.Errorf("unexpected link run %+v without a log path", run)
		}
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	t.Parallel()

	lines := []string{"A.dat; http://a", "*.dat", ">note"}
	first := textOf(Assemble(NewSession(newTestCatalog(t, false, nil, "A.dat", "b.dat"), true), lines, "").Runs())
	second := textOf(Assemble(NewSession(newTestCatalog(t, false, nil, "A.dat", "b.dat"), true), lines, "").Runs())
	if first != second {
		t.Errorf("reports differ:\n%s\n---\n%s", first, second)
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	runs := []FormattedRun{
		Styled("Missing: ", StyleRedMono),
		Text("x. Download from: "),
		Link("Some Mod", "http://x"),
		Text(" or "),
		Link("http://y", "http://y"),
	}
	if got := PlainText(runs); got != "Missing: x. Download from: Some Mod <http://x> or http://y" {
		t.Errorf("PlainText() = %q", got)
	}
}

func TestRunStyle_String(t *testing.T) {
	t.Parallel()

	if StyleHyperlinkMono.String() != "hyperlink-mono" || StyleBlackStd.String() != "black-std" {
		t.Error("unexpected style names")
	}
	if RunStyle(99).String() != "RunStyle(99)" {
		t.Errorf("RunStyle(99).String() = %q", RunStyle(99).String())
	}
}
