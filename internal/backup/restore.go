// SPDX-License-Identifier: MPL-2.0

package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Restore runs the undo.sh in a backup folder with an embedded shell, so it
// works where no POSIX shell is installed. Only the commands undo.sh uses
// (mkdir -p, cp, dirname) are available; they run in-process. It returns the
// number of files copied back.
func Restore(ctx context.Context, dir string, stdout, stderr io.Writer) (int, error) {
	path := filepath.Join(dir, UndoShName)
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open undo script: %w", err)
	}
	defer f.Close()

	prog, err := syntax.NewParser().Parse(f, path)
	if err != nil {
		return 0, fmt.Errorf("parse undo script: %w", err)
	}

	h := &restoreHandler{}
	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, stdout, stderr),
		interp.ExecHandlers(h.middleware),
	)
	if err != nil {
		return 0, fmt.Errorf("create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if !errors.As(err, &status) {
			return h.copied, fmt.Errorf("run undo script: %w", err)
		}
		if h.failed == 0 {
			return h.copied, fmt.Errorf("undo script exited with status %d", status)
		}
	}
	if h.failed > 0 {
		return h.copied, fmt.Errorf("%d files could not be restored", h.failed)
	}
	return h.copied, nil
}

// restoreHandler implements the external commands of undo.sh.
type restoreHandler struct {
	copied int
	failed int
}

func (h *restoreHandler) middleware(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		hc := interp.HandlerCtx(ctx)
		operands := stripOptions(args[1:])

		switch args[0] {
		case "dirname":
			if len(operands) != 1 {
				fmt.Fprintln(hc.Stderr, "dirname: expected one operand")
				return interp.ExitStatus(2)
			}
			fmt.Fprintln(hc.Stdout, filepath.Dir(operands[0]))
			return nil

		case "mkdir":
			for _, p := range operands {
				if err := os.MkdirAll(resolve(hc.Dir, p), 0o755); err != nil {
					fmt.Fprintf(hc.Stderr, "mkdir: %v\n", err)
					return interp.ExitStatus(1)
				}
			}
			return nil

		case "cp":
			if len(operands) != 2 {
				fmt.Fprintln(hc.Stderr, "cp: expected source and destination")
				return interp.ExitStatus(2)
			}
			src, dst := resolve(hc.Dir, operands[0]), resolve(hc.Dir, operands[1])
			if err := overwriteFile(src, dst); err != nil {
				h.failed++
				fmt.Fprintf(hc.Stderr, "cp: %v\n", err)
				return interp.ExitStatus(1)
			}
			h.copied++
			fmt.Fprintf(hc.Stdout, "restored %s\n", dst)
			return nil

		default:
			fmt.Fprintf(hc.Stderr, "%s: command not available during restore\n", args[0])
			return interp.ExitStatus(127)
		}
	}
}

// stripOptions drops leading options and the "--" terminator.
func stripOptions(args []string) []string {
	for i, a := range args {
		if a == "--" {
			return args[i+1:]
		}
		if !strings.HasPrefix(a, "-") || a == "-" {
			return args[i:]
		}
	}
	return nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func overwriteFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
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
