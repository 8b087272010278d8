// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sc4cleanitol/cleanitol/pkg/tgi"
)

type (
	// Catalog is a sorted snapshot of the files and TGIs under the scanned
	// roots. It is owned by the run that built it.
	Catalog struct {
		// UserRoot is the plugins folder removal rules apply to.
		UserRoot string
		// Files holds every file that dependency rules may resolve against,
		// in case-insensitive order.
		Files []string
		// UserFiles holds the files under UserRoot, in case-insensitive order.
		UserFiles []string
		// TGIs holds the identifiers of every recognized package in Files,
		// sorted with tgi.Sort.
		TGIs []tgi.TGI
		// Indexed reports whether TGIs was built during this run.
		Indexed bool
		// Skipped lists files that could not be parsed, sorted by path.
		Skipped []SkippedFile

		nameKeys []string
	}

	// SkippedFile records a file that failed to parse while building the index.
	SkippedFile struct {
		Path string
		Err  error
	}
)

// New returns a Catalog over the given snapshot. The slices are sorted in
// place and owned by the Catalog afterwards.
func New(userRoot string, files, userFiles []string, tgis []tgi.TGI, indexed bool) *Catalog {
	SortPaths(files)
	SortPaths(userFiles)
	tgi.Sort(tgis)

	keys := make([]string, len(files))
	for i, f := range files {
		keys[i] = nameKey(f)
	}
	slices.Sort(keys)

	return &Catalog{
		UserRoot:  userRoot,
		Files:     files,
		UserFiles: userFiles,
		TGIs:      tgis,
		Indexed:   indexed,
		nameKeys:  keys,
	}
}

// HasFile reports whether a file with the given name exists anywhere in the
// catalog. Names compare case-insensitively; directories are ignored.
func (c *Catalog) HasFile(name string) bool {
	_, found := slices.BinarySearch(c.nameKeys, nameKey(name))
	return found
}

// HasTGI reports whether t was found in any recognized package.
func (c *Catalog) HasTGI(t tgi.TGI) bool {
	return tgi.Contains(c.TGIs, t)
}

// ComparePaths orders paths case-insensitively, breaking ties on the raw
// string so the order is total and stable across runs.
func ComparePaths(a, b string) int {
	if c := cmp.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// SortPaths sorts paths in place with ComparePaths.
func SortPaths(paths []string) {
	type keyed struct{ key, path string }
	tmp := make([]keyed, len(paths))
	for i, p := range paths {
		tmp[i] = keyed{key: strings.ToLower(p), path: p}
	}
	slices.SortFunc(tmp, func(a, b keyed) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		return cmp.Compare(a.path, b.path)
	})
	for i := range tmp {
		paths[i] = tmp[i].path
	}
}

// nameKey returns the lookup key for a file name or path.
func nameKey(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return strings.ToLower(filepath.Base(filepath.FromSlash(p)))
}
