// SPDX-License-Identifier: MPL-2.0

// Package backup moves the files flagged by a script run into a timestamped
// folder and writes what is needed to put them back: an undo.bat for
// Windows, an undo.sh for POSIX shells, and a CleanupSummary.html page
// rendered from a template.
package backup
