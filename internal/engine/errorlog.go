// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrorLogName is the file name of the error log in the output directory.
const ErrorLogName = "SC4Cleanitol_Error_Log.txt"

const (
	logStart      = "=============== Log Start ==============="
	logEnd        = "================ Log End ================"
	logTimeLayout = time.DateTime
)

// LogEntry describes one file that could not be processed.
type LogEntry struct {
	Time   time.Time
	Script string
	File   string
	Err    error
}

// WriteErrorLog writes one delimited block per entry. The trace lists the
// error chain from outermost to innermost.
func WriteErrorLog(w io.Writer, entries []LogEntry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		fmt.Fprintln(bw, logStart)
		fmt.Fprintln(bw, "Time: "+e.Time.Format(logTimeLayout))
		fmt.Fprintln(bw, "Script: "+e.Script)
		fmt.Fprintln(bw, "File: "+e.File)
		if e.Err != nil {
			fmt.Fprintf(bw, "Error: %T: %v\n", e.Err, e.Err)
		} else {
			fmt.Fprintln(bw, "Error: unknown")
		}
		fmt.Fprintln(bw, "Trace:")
		for err := e.Err; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(bw, "  %T: %v\n", err, err)
		}
		fmt.Fprintln(bw, logEnd)
	}
	return bw.Flush()
}

// writeErrorLogFile truncates the error log in dir and writes entries to it.
func writeErrorLogFile(dir string, entries []LogEntry) (path string, err error) {
	path = filepath.Join(dir, ErrorLogName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create error log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close error log: %w", cerr)
		}
	}()

	if err := WriteErrorLog(f, entries); err != nil {
		return "", fmt.Errorf("write error log: %w", err)
	}
	return path, nil
}
