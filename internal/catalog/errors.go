// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoot is the sentinel error wrapped by InvalidRootError.
	ErrInvalidRoot = errors.New("invalid root directory")
	// ErrEnumeration is the sentinel error wrapped by EnumerationError.
	ErrEnumeration = errors.New("enumeration failed")
)

type (
	// InvalidRootError is returned before any scan starts when a configured
	// root is missing or not a directory.
	InvalidRootError struct {
		Role string
		Path string
		Err  error
	}

	// EnumerationError is returned when a root directory becomes unreadable
	// while its files are being listed. Callers treat it as a total scan
	// failure rather than an empty plugin folder.
	EnumerationError struct {
		Root string
		Err  error
	}
)

// Error implements the error interface for InvalidRootError.
func (e *InvalidRootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s directory %q: %v", e.Role, e.Path, e.Err)
	}
	return fmt.Sprintf("invalid %s directory %q", e.Role, e.Path)
}

// Unwrap returns ErrInvalidRoot for errors.Is() compatibility.
func (e *InvalidRootError) Unwrap() error { return ErrInvalidRoot }

// Error implements the error interface for EnumerationError.
func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerate %s: %v", e.Root, e.Err)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *EnumerationError) Unwrap() []error { return []error{ErrEnumeration, e.Err} }
