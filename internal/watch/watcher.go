// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when a script or a plugins folder changes.
//
// A Watcher monitors one or more targets (a folder tree, or a single file via
// its parent folder and a name pattern) and invokes OnChange after a quiet
// period. Events inside the debounce window are coalesced so the callback
// fires once with every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce absorbs bursts such as a mod installer unpacking dozens of
// files or an editor's write-then-rename save.
const defaultDebounce = 500 * time.Millisecond

// ErrNoTargets is returned by New when Config.Targets is empty.
var ErrNoTargets = errors.New("watch: no targets")

// defaultIgnores are never reported. They cover editor swap files and the
// metadata files Windows and macOS drop into plugin folders.
var defaultIgnores = []string{
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
	"**/Thumbs.db",
	"**/desktop.ini",
}

type (
	// Target is one watched location.
	Target struct {
		// Dir is the folder to watch.
		Dir string
		// Recursive extends the watch to every subfolder of Dir, including
		// folders created later.
		Recursive bool
		// Patterns are doublestar globs matched against paths relative to
		// Dir. Empty means every file.
		Patterns []string
	}

	// Config holds the parameters for a Watcher.
	Config struct {
		Targets []Target

		// Ignore adds doublestar globs, matched against target-relative
		// paths, to the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen writes an ANSI clear sequence to Stdout before each
		// callback.
		ClearScreen bool

		// OnChange receives the sorted, absolute paths that changed. A nil
		// callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout receives the clear-screen sequence. nil means os.Stdout.
		Stdout io.Writer
		// Logger receives watcher diagnostics. nil discards them.
		Logger *log.Logger
	}

	// Watcher monitors targets and fires a debounced callback when matching
	// files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		targets  []Target
		ignores  []string
		stdout   io.Writer
		logger   *log.Logger
		debounce time.Duration
		started  atomic.Bool
	}
)

// Single returns a Target that watches one file.
func Single(path string) Target {
	return Target{
		Dir:      filepath.Dir(path),
		Patterns: []string{escapeMeta(filepath.Base(path))},
	}
}

// Tree returns a Target that watches every file below dir.
func Tree(dir string) Target {
	return Target{Dir: dir, Recursive: true}
}

// New validates cfg and registers every target folder with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Targets) == 0 {
		return nil, ErrNoTargets
	}

	targets := make([]Target, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		abs, err := filepath.Abs(t.Dir)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %q: %w", t.Dir, err)
		}
		if err := validatePatterns(t.Patterns, "watch"); err != nil {
			return nil, err
		}
		t.Dir = abs
		targets = append(targets, t)
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		targets:  targets,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		stdout:   stdout,
		logger:   logger,
		debounce: debounce,
	}

	for _, t := range targets {
		if err := w.addTarget(t); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				logger.Warn("close after init failure", "error", closeErr)
			}
			return nil, err
		}
	}
	return w, nil
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on cancellation and an
// error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after ctx is cancelled because it is scheduled with
	// time.AfterFunc. Only one callback runs at a time; a busy callback
	// reschedules instead of dropping the pending set.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, rescheduling")
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("re-run failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}

			t, rel, ok := w.owner(evt.Name)
			if !ok || w.isIgnored(rel) {
				continue
			}
			if evt.Has(fsnotify.Create) && t.Recursive {
				w.maybeAddDir(t, evt.Name)
			}
			if !matches(t.Patterns, rel) {
				continue
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

// addTarget registers t.Dir, and every non-ignored subfolder when t is
// recursive. Unreadable subfolders are skipped.
func (w *Watcher) addTarget(t Target) error {
	if !t.Recursive {
		if err := w.fsw.Add(t.Dir); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", t.Dir, err)
		}
		return nil
	}

	err := filepath.WalkDir(t.Dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == t.Dir {
				return walkErr
			}
			w.logger.Warn("skipping inaccessible folder", "path", path, "error", walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, _ := filepath.Rel(t.Dir, path); path != t.Dir && w.isIgnored(rel+"/") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %q: %w", t.Dir, err)
	}
	return nil
}

// maybeAddDir extends a recursive target to a folder created after startup.
func (w *Watcher) maybeAddDir(t Target, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTarget(Target{Dir: path, Recursive: true}); err != nil {
		w.logger.Warn("add new folder", "path", path, "error", err)
	}
}

// owner finds the target containing path and returns the path relative to
// it. Non-recursive targets only own their direct children.
func (w *Watcher) owner(path string) (Target, string, bool) {
	for _, t := range w.targets {
		rel, err := filepath.Rel(t.Dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		if !t.Recursive && strings.ContainsRune(rel, filepath.Separator) {
			continue
		}
		return t, rel, true
	}
	return Target{}, "", false
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchesAny(w.ignores, rel)
}

// matches reports whether rel matches one of patterns; no patterns matches
// everything.
func matches(patterns []string, rel string) bool {
	return len(patterns) == 0 || matchesAny(patterns, rel)
}

func matchesAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, normalized); err == nil && ok {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// validatePatterns checks that every pattern is a valid doublestar glob. The
// label ("watch" or "ignore") is used in error messages.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// escapeMeta quotes glob metacharacters so a file name matches literally.
func escapeMeta(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isFatalFsnotifyError reports errors after which the watcher cannot recover.
func isFatalFsnotifyError(err error) bool {
	return slices.ContainsFunc(fatalErrnos, func(target error) bool {
		return errors.Is(err, target)
	})
}
