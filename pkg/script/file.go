// SPDX-License-Identifier: MPL-2.0

package script

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	utf8BOM = "\uFEFF"
	// maxLineSize bounds a single script line.
	maxLineSize = 1 << 20
)

// ReadLines reads script lines from r. Line endings (LF or CRLF) and a
// leading UTF-8 byte order mark are stripped; lines are otherwise untouched.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return lines, nil
}

// LoadFile reads the script at path.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only

	return ReadLines(f)
}

// ParseAll parses every line of a script in order.
func ParseAll(lines []string) []Rule {
	rules := make([]Rule, len(lines))
	for i, line := range lines {
		rules[i] = Parse(line)
	}
	return rules
}

// CreateFromFolder returns a removal script listing the name of every file
// under folder, recursively, in walk order.
func CreateFromFolder(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", folder)
	}

	var names []string
	err = filepath.WalkDir(folder, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		names = append(names, d.Name())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", folder, err)
	}
	return names, nil
}

// WriteScript writes lines to path, one per line, replacing any existing file.
func WriteScript(path string, lines []string) error {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\r\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}
