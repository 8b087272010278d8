// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// backgroundImages are the in-game grid backgrounds, which live in the
// plugins folder but must never be removed.
var backgroundImages = map[string]struct{}{
	"background3d0.png": {},
	"background3d1.png": {},
	"background3d2.png": {},
	"background3d3.png": {},
	"background3d4.png": {},
}

type (
	// removalMatcher matches removal patterns against the user plugins.
	// Patterns use '*' and '?' wildcards and compare case-insensitively.
	// A pattern without a separator is matched against the file name; one
	// with a separator is matched against the path relative to the root.
	removalMatcher struct {
		files []userFile
	}

	userFile struct {
		path string
		name string // lower-case base name
		rel  string // lower-case slash-separated path relative to the root
	}
)

func newRemovalMatcher(root string, files []string) *removalMatcher {
	m := &removalMatcher{files: make([]userFile, 0, len(files))}
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			rel = f
		}
		m.files = append(m.files, userFile{
			path: f,
			name: strings.ToLower(filepath.Base(f)),
			rel:  strings.ToLower(filepath.ToSlash(rel)),
		})
	}
	return m
}

// Match returns the paths matching pattern, in catalog order, with the
// background images excluded.
func (m *removalMatcher) Match(pattern string) []string {
	pattern = normalizePattern(pattern)
	if pattern == "" {
		return nil
	}
	byPath := strings.Contains(pattern, "/")
	valid := doublestar.ValidatePattern(pattern)

	var out []string
	for _, f := range m.files {
		if _, ok := backgroundImages[f.name]; ok {
			continue
		}
		subject := f.name
		if byPath {
			subject = f.rel
		}
		if matchOne(pattern, subject, valid) {
			out = append(out, f.path)
		}
	}
	return out
}

func matchOne(pattern, subject string, valid bool) bool {
	if !valid {
		return pattern == subject
	}
	ok, err := doublestar.Match(pattern, subject)
	return err == nil && ok
}

// normalizePattern lower-cases a script pattern, converts backslashes to
// slashes and escapes glob syntax other than '*' and '?', which scripts
// treat as literal characters.
func normalizePattern(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "/")

	var b strings.Builder
	for _, r := range p {
		switch r {
		case '[', ']', '{', '}':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
