// SPDX-License-Identifier: MPL-2.0

package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// UndoBatName is the Windows reversal script.
	UndoBatName = "undo.bat"
	// UndoShName is the POSIX reversal script.
	UndoShName = "undo.sh"
	// SummaryName is the rendered summary page.
	SummaryName = "CleanupSummary.html"

	folderTimeLayout = "20060102 150405"
)

// ErrDuplicateName is recorded when a file shares its name with one already
// moved into the backup folder.
var ErrDuplicateName = errors.New("a file with the same name is already in the backup folder")

type (
	// Writer relocates removal lists into timestamped folders under
	// BaseOutput.
	Writer struct {
		BaseOutput string
		// Now defaults to time.Now.
		Now func() time.Time
		// Logger defaults to a discarding logger.
		Logger *log.Logger
	}

	// Result describes one backup.
	Result struct {
		// Dir is the backup folder.
		Dir string
		// Moved lists original paths now in Dir.
		Moved []string
		// Deleted lists original paths removed because Dir already held a
		// file with the same name. They are still restored by the undo
		// scripts, from that same-named file.
		Deleted []string
		// Restored lists, in removal order, the original paths the undo
		// scripts put back: Moved and Deleted interleaved.
		Restored []string
		// Failures lists files left in place.
		Failures []Failure
		// UndoBat, UndoSh and Summary are the written file paths.
		UndoBat string
		UndoSh  string
		Summary string
	}

	// Failure records a file that could not be handled.
	Failure struct {
		Path string
		Err  error
	}
)

// Backup moves files into a new folder named after the current time and
// writes the undo scripts and summary page there. An empty list is a no-op
// returning a nil Result. Per-file failures are recorded in the Result and do
// not stop the remaining moves; only failures to create the folder or write
// the undo scripts and summary are returned as errors.
func (w *Writer) Backup(files []string, template string) (*Result, error) {
	if len(files) == 0 {
		return nil, nil
	}
	logger := w.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	at := now()

	dir := filepath.Join(w.BaseOutput, at.Format(folderTimeLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup folder: %w", err)
	}

	res := &Result{Dir: dir}
	seen := make(map[string]struct{}, len(files))
	for _, src := range files {
		if _, ok := seen[src]; ok {
			logger.Debug("already handled", "path", src)
			continue
		}
		seen[src] = struct{}{}
		dst := filepath.Join(dir, filepath.Base(src))
		switch err := relocate(src, dst); {
		case err == nil:
			res.Moved = append(res.Moved, src)
			res.Restored = append(res.Restored, src)
			logger.Debug("moved", "path", src)
		case errors.Is(err, ErrDuplicateName):
			if rmErr := os.Remove(src); rmErr != nil {
				res.Failures = append(res.Failures, Failure{Path: src, Err: rmErr})
				logger.Warn("could not delete duplicate", "path", src, "error", rmErr)
				continue
			}
			res.Deleted = append(res.Deleted, src)
			res.Restored = append(res.Restored, src)
			logger.Debug("deleted duplicate", "path", src)
		default:
			res.Failures = append(res.Failures, Failure{Path: src, Err: err})
			logger.Warn("could not move file", "path", src, "error", err)
		}
	}
	var err error
	if res.UndoBat, err = writeFile(dir, UndoBatName, undoBat(res.Restored)); err != nil {
		return res, err
	}
	sh, err := undoSh(res.Restored)
	if err != nil {
		return res, err
	}
	if res.UndoSh, err = writeFile(dir, UndoShName, sh); err != nil {
		return res, err
	}
	if err := os.Chmod(res.UndoSh, 0o755); err != nil {
		logger.Warn("could not mark undo script executable", "path", res.UndoSh, "error", err)
	}

	summary := RenderSummary(template, SummaryData{Count: len(files), Folder: dir, Files: files, Time: at})
	if res.Summary, err = writeFile(dir, SummaryName, summary); err != nil {
		return res, err
	}

	logger.Info("backup written", "dir", dir, "moved", len(res.Moved), "deleted", len(res.Deleted), "failed", len(res.Failures))
	return res, nil
}

// relocate moves src to dst, falling back to copy and remove when a rename
// is not possible (for example across volumes). It returns ErrDuplicateName
// when dst already exists.
func relocate(src, dst string) error {
	if _, err := os.Lstat(src); err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		return ErrDuplicateName
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}

// undoBat returns one copy command per restored file, with CRLF line
// endings and no header.
func undoBat(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		fmt.Fprintf(&b, "copy \"%s\" \"%s\"\r\n", filepath.Base(p), p)
	}
	return b.String()
}

// undoSh returns a POSIX script restoring every file from the folder the
// script lives in.
func undoSh(paths []string) (string, error) {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("cd \"$(dirname \"$0\")\" || exit 1\n")
	for _, p := range paths {
		name, err := syntax.Quote(filepath.Base(p), syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", p, err)
		}
		target, err := syntax.Quote(p, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", p, err)
		}
		parent, err := syntax.Quote(filepath.Dir(p), syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", p, err)
		}
		fmt.Fprintf(&b, "mkdir -p -- %s && cp -- %s %s\n", parent, name, target)
	}
	return b.String(), nil
}

func writeFile(dir, name, content string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
