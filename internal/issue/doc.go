// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and Markdown help pages for the
// problems a cleanitol user is most likely to hit: a missing script, a
// plugins folder that does not exist, or a configuration file that fails to
// load.
package issue
