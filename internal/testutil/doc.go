// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on error instead
// of returning it: plugin tree fixtures (MustWriteFile, MustMkdirAll),
// environment changes (MustSetenv, SetHomeDir) and a controllable clock for
// timestamped output.
package testutil
