// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sc4cleanitol/cleanitol/pkg/tgi"
)

const (
	exportHeader     = "Type,Group,Instance,"
	exportTimeLayout = "2006-01-02 15-04"
)

// ExportCSV writes one canonical TGI per line under a Type,Group,Instance
// header, with CRLF line endings.
func ExportCSV(w io.Writer, tgis []tgi.TGI) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(exportHeader + "\r\n"); err != nil {
		return err
	}
	for _, t := range tgis {
		if _, err := bw.WriteString(t.String() + "\r\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportFileName returns the name of the TGI export written at now.
func ExportFileName(now time.Time) string {
	return "ScannedTGIs " + now.Format(exportTimeLayout) + ".csv"
}

// WriteExport writes the TGIs to a timestamped CSV file in dir and returns its path.
func WriteExport(dir string, now time.Time, tgis []tgi.TGI) (path string, err error) {
	path = filepath.Join(dir, ExportFileName(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create TGI export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close TGI export: %w", cerr)
		}
	}()

	if err := ExportCSV(f, tgis); err != nil {
		return "", fmt.Errorf("write TGI export: %w", err)
	}
	return path, nil
}
