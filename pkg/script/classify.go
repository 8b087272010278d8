// SPDX-License-Identifier: MPL-2.0

package script

import "strings"

// Classify determines the kind of a trimmed script line. The checks run in a
// fixed order and the first match wins.
func Classify(line string) Kind {
	if line == "" || line[0] == ';' {
		return KindScriptComment
	}

	if line[0] == '>' {
		if len(line) > 1 && line[1] == '#' {
			return KindUserCommentHeading
		}
		return KindUserComment
	}

	if containsFold(line, urlMarker) {
		if strings.Contains(line, conditionalMarker) {
			return KindConditionalDependency
		}
		return KindDependency
	}

	// Very old scripts declare cascading dependencies with no download link;
	// they are kept as (unchecked) dependencies instead of removal patterns.
	if strings.IndexByte(line, ';') > 0 {
		return KindDependency
	}

	return KindRemoval
}

// containsFold reports whether substr is within s, ignoring ASCII case.
func containsFold(s, substr string) bool {
	return indexFold(s, substr) >= 0
}

// indexFold returns the byte index of the first instance of substr in s,
// ignoring ASCII case, or -1. Bytes are compared one by one so the index is
// valid in s even when s is not UTF-8, as with Windows-1252 scripts.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := range len(a) {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
