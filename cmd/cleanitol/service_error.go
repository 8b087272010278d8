// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/sc4cleanitol/cleanitol/internal/catalog"
	"github.com/sc4cleanitol/cleanitol/internal/issue"
)

// ServiceError is an error that carries the issue page the CLI layer shows
// after the error message. Always create via newServiceError to enforce the
// Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyRunError picks the issue page for an error returned by a scan or
// script run. It returns 0 when no page applies.
func classifyRunError(err error) issue.Id {
	switch {
	case errors.Is(err, catalog.ErrInvalidRoot):
		return issue.PluginsDirNotFoundId
	case errors.Is(err, catalog.ErrEnumeration):
		return issue.ScanFailedId
	case errors.Is(err, fs.ErrNotExist):
		return issue.ScriptNotFoundId
	default:
		return 0
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their Format method; in verbose mode that includes the error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError writes err and, for a ServiceError, its issue page.
func renderError(w io.Writer, err error, verbose bool, style string) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID == 0 {
		return
	}
	entry := issue.Get(svcErr.IssueID)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(style)
	if renderErr != nil {
		newLogger(w, false).Warn("failed to render issue page", "issueID", svcErr.IssueID, "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}
