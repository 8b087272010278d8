// SPDX-License-Identifier: MPL-2.0

package backup

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"mvdan.cc/sh/v3/syntax"

	"github.com/sc4cleanitol/cleanitol/internal/testutil"
)

var backupTime = time.Date(2024, time.February, 29, 13, 45, 7, 0, time.UTC)

func newWriter(t *testing.T) *Writer {
	t.Helper()
	return &Writer{
		BaseOutput: t.TempDir(),
		Now:        testutil.NewFakeClock(backupTime).Now,
	}
}

func TestBackup_EmptyListIsNoop(t *testing.T) {
	t.Parallel()

	w := newWriter(t)
	res, err := w.Backup(nil, DefaultTemplate())
	if err != nil || res != nil {
		t.Fatalf("Backup(nil) = %v, %v; want nil, nil", res, err)
	}

	entries, err := os.ReadDir(w.BaseOutput)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output folder has %d entries, want none", len(entries))
	}
}

func TestBackup_MovesFilesAndWritesArtifacts(t *testing.T) {
	t.Parallel()

	plugins := t.TempDir()
	a := testutil.MustWriteFile(t, filepath.Join(plugins, "old", "a.dat"), "A")
	b := testutil.MustWriteFile(t, filepath.Join(plugins, "b.SC4Lot"), "B")

	w := newWriter(t)
	res, err := w.Backup([]string{a, b}, "#COUNTFILES|#FOLDERPATH|#LISTOFFILES|#DATETIME|#HELPDOC|#UNKNOWN")
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	wantDir := filepath.Join(w.BaseOutput, "20240229 134507")
	if res.Dir != wantDir {
		t.Errorf("Dir = %q, want %q", res.Dir, wantDir)
	}
	if !slices.Equal(res.Moved, []string{a, b}) || len(res.Failures) != 0 {
		t.Errorf("Moved = %v, Failures = %v", res.Moved, res.Failures)
	}
	for _, p := range []string{a, b} {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s still in plugins: %v", p, err)
		}
	}
	if got := testutil.MustReadFile(t, filepath.Join(wantDir, "a.dat")); got != "A" {
		t.Errorf("backup content = %q", got)
	}

	bat := testutil.MustReadFile(t, res.UndoBat)
	wantBat := "copy \"a.dat\" \"" + a + "\"\r\ncopy \"b.SC4Lot\" \"" + b + "\"\r\n"
	if bat != wantBat {
		t.Errorf("undo.bat =\n%q\nwant\n%q", bat, wantBat)
	}

	summary := testutil.MustReadFile(t, res.Summary)
	wantSummary := "2|" + wantDir + "|" + a + "<br/>" + b + "|29 Feb 2024 13:45|" + HelpDocURL + "|#UNKNOWN"
	if summary != wantSummary {
		t.Errorf("summary =\n%s\nwant\n%s", summary, wantSummary)
	}
}

func TestBackup_DuplicateNamesAreDeleted(t *testing.T) {
	t.Parallel()

	plugins := t.TempDir()
	first := testutil.MustWriteFile(t, filepath.Join(plugins, "x", "same.dat"), "first")
	second := testutil.MustWriteFile(t, filepath.Join(plugins, "y", "same.dat"), "second")

	res, err := newWriter(t).Backup([]string{first, second}, "")
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if !slices.Equal(res.Moved, []string{first}) || !slices.Equal(res.Deleted, []string{second}) {
		t.Errorf("Moved = %v, Deleted = %v", res.Moved, res.Deleted)
	}
	if !slices.Equal(res.Restored, []string{first, second}) {
		t.Errorf("Restored = %v", res.Restored)
	}
	if _, err := os.Stat(second); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("duplicate not deleted: %v", err)
	}
	if got := testutil.MustReadFile(t, filepath.Join(res.Dir, "same.dat")); got != "first" {
		t.Errorf("backup holds %q, want the first file", got)
	}
	if lines := strings.Count(testutil.MustReadFile(t, res.UndoBat), "\r\n"); lines != 2 {
		t.Errorf("undo.bat has %d lines, want 2", lines)
	}
}

func TestBackup_RepeatedPathIsMovedOnce(t *testing.T) {
	t.Parallel()

	plugins := t.TempDir()
	src := testutil.MustWriteFile(t, filepath.Join(plugins, "twice.dat"), "x")

	res, err := newWriter(t).Backup([]string{src, src}, "")
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if len(res.Failures) != 0 {
		t.Errorf("Failures = %v, want none", res.Failures)
	}
	if !slices.Equal(res.Moved, []string{src}) || !slices.Equal(res.Restored, []string{src}) {
		t.Errorf("Moved = %v, Restored = %v", res.Moved, res.Restored)
	}
}

func TestBackup_MissingFileIsRecorded(t *testing.T) {
	t.Parallel()

	plugins := t.TempDir()
	present := testutil.MustWriteFile(t, filepath.Join(plugins, "here.dat"), "x")
	gone := filepath.Join(plugins, "gone.dat")

	res, err := newWriter(t).Backup([]string{gone, present}, "#COUNTFILES")
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].Path != gone || !errors.Is(res.Failures[0].Err, os.ErrNotExist) {
		t.Errorf("Failures = %v", res.Failures)
	}
	if !slices.Equal(res.Moved, []string{present}) {
		t.Errorf("Moved = %v", res.Moved)
	}
	if strings.Contains(testutil.MustReadFile(t, res.UndoBat), "gone.dat") {
		t.Error("undo.bat lists a file that was not moved")
	}
	if got := testutil.MustReadFile(t, res.Summary); got != "2" {
		t.Errorf("summary count = %q, want the requested count", got)
	}
}

func TestBackup_UndoShParses(t *testing.T) {
	t.Parallel()

	plugins := t.TempDir()
	odd := testutil.MustWriteFile(t, filepath.Join(plugins, "it's $odd", "a b.dat"), "x")

	res, err := newWriter(t).Backup([]string{odd}, "")
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	f, err := os.Open(res.UndoSh)
	if err != nil {
		t.Fatal(err)
	}
	defer testutil.MustClose(t, f)
	if _, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(f, res.UndoSh); err != nil {
		t.Fatalf("undo.sh does not parse: %v", err)
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	t.Parallel()

	plugins := t.TempDir()
	a := testutil.MustWriteFile(t, filepath.Join(plugins, "deep", "dir", "a.dat"), "A")
	b := testutil.MustWriteFile(t, filepath.Join(plugins, "it's here", "b c.dat"), "B")

	res, err := newWriter(t).Backup([]string{a, b}, "")
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	testutil.MustRemoveAll(t, filepath.Join(plugins, "deep"))

	var stdout, stderr strings.Builder
	n, err := Restore(context.Background(), res.Dir, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Restore() error = %v\nstderr: %s", err, stderr.String())
	}
	if n != 2 {
		t.Errorf("Restore() = %d, want 2", n)
	}
	if testutil.MustReadFile(t, a) != "A" || testutil.MustReadFile(t, b) != "B" {
		t.Error("restored content differs")
	}
}

func TestRestore_MissingScript(t *testing.T) {
	t.Parallel()

	if _, err := Restore(context.Background(), t.TempDir(), io.Discard, io.Discard); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Restore() error = %v, want os.ErrNotExist", err)
	}
}

func TestRestore_ReportsFailedCopies(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "restored.dat")
	testutil.MustWriteFile(t, filepath.Join(dir, UndoShName),
		"cp -- missing.dat '"+target+"'\necho done\n")

	n, err := Restore(context.Background(), dir, io.Discard, io.Discard)
	if err == nil || n != 0 {
		t.Fatalf("Restore() = %d, %v; want a failure", n, err)
	}
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	got := RenderSummary("#COUNTFILES files: #LISTOFFILES (#COUNTFILES)", SummaryData{
		Count: 1,
		Files: []string{`C:\Plugins\R&D #LISTOFFILES.dat`},
	})
	want := `1 files: C:\Plugins\R&amp;D #LISTOFFILES.dat (1)`
	if got != want {
		t.Errorf("RenderSummary() = %q, want %q", got, want)
	}
}

func TestDefaultTemplate(t *testing.T) {
	t.Parallel()

	tmpl := DefaultTemplate()
	for _, token := range []string{"#COUNTFILES", "#FOLDERPATH", "#HELPDOC", "#LISTOFFILES", "#DATETIME"} {
		if !strings.Contains(tmpl, token) {
			t.Errorf("default template lacks %s", token)
		}
	}
}
