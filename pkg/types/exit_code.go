// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared by the CLI and its services.
// It imports only the standard library.
package types

import (
	"errors"
	"fmt"
)

const (
	// ExitSuccess means the command completed and found nothing to report.
	ExitSuccess ExitCode = 0
	// ExitFailure is the generic failure code.
	ExitFailure ExitCode = 1
	// ExitMissingDependencies means a run finished but at least one required
	// dependency was missing. It is only used when the caller asks for it.
	ExitMissingDependencies ExitCode = 2
	// ExitInterrupted follows the shell convention of 128+SIGINT.
	ExitInterrupted ExitCode = 130
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status in the portable range [0, 255].
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside [0, 255].
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Validate returns an error when c cannot be passed to os.Exit portably.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether c is zero.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// Error implements the error interface for InvalidExitCodeError.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (valid: 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is() compatibility.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }
