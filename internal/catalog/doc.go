// SPDX-License-Identifier: MPL-2.0

// Package catalog builds the in-memory snapshot of plugin files and resource
// identifiers that script rules are evaluated against.
//
// A Catalog is built fresh for every run by a Builder. File paths and TGIs are
// sorted before the Catalog is returned, so lookups are binary searches. Files
// that fail to parse are recorded in Catalog.Skipped; a single corrupt or
// locked package never aborts the scan.
package catalog
