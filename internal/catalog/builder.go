// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/sc4cleanitol/cleanitol/internal/issue"
	"github.com/sc4cleanitol/cleanitol/pkg/tgi"
)

const (
	// PluginsOnly scans the plugins folders only.
	PluginsOnly AdditionalMode = 0
	// PluginsAndAdditional scans the plugins folders and the additional folders.
	PluginsAndAdditional AdditionalMode = 1
	// AdditionalOnly resolves dependencies against the additional folders only.
	// The user plugins folder is still listed for removal rules.
	AdditionalOnly AdditionalMode = 2
)

// ErrInvalidAdditionalMode is returned when an AdditionalMode value is not recognized.
var ErrInvalidAdditionalMode = errors.New("invalid additional folder mode")

type (
	// AdditionalMode selects how additional folders take part in a scan.
	AdditionalMode int

	// PackageParser is the collaborator that understands the binary package
	// format. ExtractResourceIdentifiers may fail (or panic) on corrupt input;
	// the builder records the failure and continues.
	PackageParser interface {
		IsRecognizedPackage(path string) bool
		ExtractResourceIdentifiers(path string) ([]tgi.TGI, error)
	}

	// Options configures a single Build.
	Options struct {
		// UserRoot is the mandatory user plugins folder.
		UserRoot string
		// SystemRoot is the plugins folder in the game install directory.
		SystemRoot string
		// IncludeSystem adds SystemRoot to the scan.
		IncludeSystem bool
		// AdditionalRoots are extra folders governed by AdditionalMode.
		AdditionalRoots []string
		AdditionalMode  AdditionalMode
		// RebuildIndex parses every file to rebuild the TGI index. When false
		// the returned catalog has no TGIs and Indexed is false.
		RebuildIndex bool
		// Parser is required when RebuildIndex is set.
		Parser PackageParser
		// Workers bounds concurrent parsing. Zero means GOMAXPROCS.
		Workers int
		// Logger receives debug and warning output. nil discards it.
		Logger *log.Logger
	}

	// Builder builds catalogs. A Builder may be reused for sequential builds;
	// its Progress is reset at the start of each.
	Builder struct {
		progress Progress
	}

	// parseResult is the outcome of parsing one file.
	parseResult struct {
		tgis    []tgi.TGI
		skipped *SkippedFile
	}
)

// IsValid returns whether the AdditionalMode is one of the defined modes.
func (m AdditionalMode) IsValid() bool {
	return m >= PluginsOnly && m <= AdditionalOnly
}

// String returns a readable name for the mode.
func (m AdditionalMode) String() string {
	switch m {
	case PluginsOnly:
		return "plugins-only"
	case PluginsAndAdditional:
		return "plugins-and-additional"
	case AdditionalOnly:
		return "additional-only"
	default:
		return fmt.Sprintf("AdditionalMode(%d)", int(m))
	}
}

// ParseAdditionalMode accepts either a mode name or its numeric form
// ("0", "1", "2").
func ParseAdditionalMode(s string) (AdditionalMode, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for m := PluginsOnly; m <= AdditionalOnly; m++ {
		if s == m.String() || s == strconv.Itoa(int(m)) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (valid: 0, 1, 2, plugins-only, plugins-and-additional, additional-only)",
		ErrInvalidAdditionalMode, s)
}

// NewBuilder returns a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Progress returns the builder's advisory progress counters.
func (b *Builder) Progress() *Progress {
	return &b.progress
}

// Build enumerates the configured roots and, when requested, rebuilds the TGI
// index. Configuration problems are reported as *issue.ActionableError before
// any file is touched; an unreadable root yields an *EnumerationError.
// Cancellation is honored between files.
func (b *Builder) Build(ctx context.Context, opts Options) (*Catalog, error) {
	b.progress.reset()
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	userFiles, skipped, err := enumerate(ctx, opts.UserRoot, logger)
	if err != nil {
		return nil, err
	}

	var lookupRoots []string
	if opts.AdditionalMode != AdditionalOnly {
		if opts.IncludeSystem && opts.SystemRoot != "" {
			lookupRoots = append(lookupRoots, opts.SystemRoot)
		}
	}
	if opts.AdditionalMode != PluginsOnly {
		lookupRoots = append(lookupRoots, opts.AdditionalRoots...)
	}

	var files []string
	if opts.AdditionalMode != AdditionalOnly {
		files = slices.Clone(userFiles)
	}
	for _, root := range lookupRoots {
		found, rootSkipped, err := enumerate(ctx, root, logger)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
		skipped = append(skipped, rootSkipped...)
	}
	files = dedupe(files)
	b.progress.filesTotal.Store(int64(len(files)))
	logger.Debug("enumerated files", "user", len(userFiles), "lookup", len(files))

	var tgis []tgi.TGI
	if opts.RebuildIndex {
		found, parseSkipped, err := b.index(ctx, files, opts, logger)
		if err != nil {
			return nil, err
		}
		tgis = found
		skipped = append(skipped, parseSkipped...)
	} else {
		b.progress.filesScanned.Store(int64(len(files)))
	}

	cat := New(opts.UserRoot, files, userFiles, tgis, opts.RebuildIndex)
	slices.SortFunc(skipped, func(a, b SkippedFile) int { return ComparePaths(a.Path, b.Path) })
	cat.Skipped = skipped
	logger.Debug("catalog built", "files", len(cat.Files), "tgis", len(cat.TGIs), "skipped", len(cat.Skipped))
	return cat, nil
}

// index parses files concurrently and returns the merged TGIs. Per-file
// failures are returned as skipped entries, never as an error.
func (b *Builder) index(ctx context.Context, files []string, opts Options, logger *log.Logger) ([]tgi.TGI, []SkippedFile, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]parseResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = parseFile(opts.Parser, path)
			b.progress.filesScanned.Add(1)
			b.progress.tgisFound.Add(int64(len(results[i].tgis)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("build TGI index: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("build TGI index: %w", err)
	}

	var (
		tgis    []tgi.TGI
		skipped []SkippedFile
	)
	for _, r := range results {
		tgis = append(tgis, r.tgis...)
		if r.skipped != nil {
			logger.Warn("file skipped", "path", r.skipped.Path, "error", r.skipped.Err)
			skipped = append(skipped, *r.skipped)
		}
	}
	return tgis, skipped, nil
}

// parseFile asks the parser for the TGIs of one file, converting errors and
// panics into a skipped entry.
func parseFile(p PackageParser, path string) (res parseResult) {
	defer func() {
		if r := recover(); r != nil {
			res = parseResult{skipped: &SkippedFile{Path: path, Err: fmt.Errorf("parser panic: %v", r)}}
		}
	}()

	if !p.IsRecognizedPackage(path) {
		return parseResult{}
	}
	tgis, err := p.ExtractResourceIdentifiers(path)
	if err != nil {
		return parseResult{skipped: &SkippedFile{Path: path, Err: err}}
	}
	return parseResult{tgis: tgis}
}

// enumerate lists every regular file under root. Failure to read the root
// itself is fatal; unreadable nested directories are skipped and reported.
func enumerate(ctx context.Context, root string, logger *log.Logger) ([]string, []SkippedFile, error) {
	var (
		files   []string
		skipped []SkippedFile
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logger.Warn("skipping unreadable path", "path", path, "error", walkErr)
			skipped = append(skipped, SkippedFile{Path: path, Err: walkErr})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, &EnumerationError{Root: root, Err: err}
	}
	return files, skipped, nil
}

// validateOptions checks roots and parser before any scanning.
func validateOptions(opts Options) error {
	if strings.TrimSpace(opts.UserRoot) == "" {
		return rootError("user plugins", opts.UserRoot, nil)
	}
	if err := checkDir("user plugins", opts.UserRoot); err != nil {
		return err
	}
	if opts.IncludeSystem && opts.SystemRoot != "" {
		if err := checkDir("system plugins", opts.SystemRoot); err != nil {
			return err
		}
	}
	if !opts.AdditionalMode.IsValid() {
		return issue.NewErrorContext().
			WithOperation("configure scan").
			WithSuggestion("Use 0 (plugins only), 1 (plugins and additional folders) or 2 (additional folders only)").
			Wrap(fmt.Errorf("%w: %d", ErrInvalidAdditionalMode, int(opts.AdditionalMode))).
			BuildError()
	}
	if opts.AdditionalMode != PluginsOnly {
		for _, root := range opts.AdditionalRoots {
			if err := checkDir("additional", root); err != nil {
				return err
			}
		}
	}
	if opts.RebuildIndex && opts.Parser == nil {
		return issue.NewErrorContext().
			WithOperation("configure scan").
			Wrap(errors.New("TGI index rebuild requested without a package parser")).
			BuildError()
	}
	return nil
}

func checkDir(role, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return rootError(role, path, err)
	}
	if !info.IsDir() {
		return rootError(role, path, errors.New("not a directory"))
	}
	return nil
}

func rootError(role, path string, cause error) error {
	return issue.NewErrorContext().
		WithOperation("open " + role + " folder").
		WithResource(path).
		WithSuggestion("Check that the folder exists and is readable").
		WithSuggestion("Set the folder with a flag or in the configuration file ('cleanitol config show')").
		Wrap(&InvalidRootError{Role: role, Path: path, Err: cause}).
		BuildError()
}

// dedupe removes repeated paths, keeping the first occurrence.
func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
