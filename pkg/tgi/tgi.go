// SPDX-License-Identifier: MPL-2.0

package tgi

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// fieldCount is the number of hex fields in a TGI.
const fieldCount = 3

// ErrInvalidTGI is the sentinel error wrapped by InvalidTGIError.
var ErrInvalidTGI = errors.New("invalid TGI")

type (
	// TGI identifies one resource inside a package file. Values are
	// immutable; ordering is lexicographic over (Type, Group, Instance).
	TGI struct {
		Type     uint32
		Group    uint32
		Instance uint32
	}

	// InvalidTGIError is returned when text cannot be parsed as a TGI.
	// It wraps ErrInvalidTGI for errors.Is() compatibility.
	InvalidTGIError struct {
		Text   string
		Reason string
	}
)

// New returns the TGI for the given fields.
func New(typ, group, instance uint32) TGI {
	return TGI{Type: typ, Group: group, Instance: instance}
}

// Error implements the error interface for InvalidTGIError.
func (e *InvalidTGIError) Error() string {
	return fmt.Sprintf("invalid TGI %q: %s", e.Text, e.Reason)
}

// Unwrap returns ErrInvalidTGI for errors.Is() compatibility.
func (e *InvalidTGIError) Unwrap() error { return ErrInvalidTGI }

// String returns the canonical `0xNNNNNNNN, 0xNNNNNNNN, 0xNNNNNNNN` form.
func (t TGI) String() string {
	return fmt.Sprintf("0x%08X, 0x%08X, 0x%08X", t.Type, t.Group, t.Instance)
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to,
// or after b.
func Compare(a, b TGI) int {
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Group, b.Group); c != 0 {
		return c
	}
	return cmp.Compare(a.Instance, b.Instance)
}

// Parse reads a TGI from text containing three `0x`-prefixed hex fields.
// Any characters other than hex digits may separate the fields.
func Parse(s string) (TGI, error) {
	var fields [fieldCount]uint32
	rest := s
	n := 0
	for {
		idx := indexHexPrefix(rest)
		if idx < 0 {
			break
		}
		rest = rest[idx+2:]
		end := 0
		for end < len(rest) && isHexDigit(rest[end]) {
			end++
		}
		if end == 0 {
			return TGI{}, &InvalidTGIError{Text: s, Reason: "empty hex field"}
		}
		if n == fieldCount {
			return TGI{}, &InvalidTGIError{Text: s, Reason: "more than three fields"}
		}
		v, err := strconv.ParseUint(rest[:end], 16, 32)
		if err != nil {
			return TGI{}, &InvalidTGIError{Text: s, Reason: "field out of range"}
		}
		fields[n] = uint32(v)
		n++
		rest = rest[end:]
	}
	if n != fieldCount {
		return TGI{}, &InvalidTGIError{Text: s, Reason: fmt.Sprintf("expected 3 fields, found %d", n)}
	}
	return TGI{Type: fields[0], Group: fields[1], Instance: fields[2]}, nil
}

// CleanFormat normalizes TGI text to the canonical comma-space form.
func CleanFormat(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// CountHexPrefixes returns the number of `0x` markers in s.
func CountHexPrefixes(s string) int {
	return strings.Count(strings.ToLower(s), "0x")
}

// Sort sorts tgis in place in ascending order.
func Sort(tgis []TGI) {
	slices.SortFunc(tgis, Compare)
}

// IsSorted reports whether tgis is in non-decreasing order.
func IsSorted(tgis []TGI) bool {
	return slices.IsSortedFunc(tgis, Compare)
}

// Contains reports whether t is present in sorted using binary search.
// The slice must be sorted with Sort.
func Contains(sorted []TGI, t TGI) bool {
	_, found := slices.BinarySearchFunc(sorted, t, Compare)
	return found
}

func indexHexPrefix(s string) int {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
			return i
		}
	}
	return -1
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
