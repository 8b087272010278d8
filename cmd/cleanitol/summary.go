// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sc4cleanitol/cleanitol/internal/backup"
	"github.com/sc4cleanitol/cleanitol/internal/config"
	"github.com/sc4cleanitol/cleanitol/internal/engine"
)

type (
	// runSummary is the machine-readable record of one run written by
	// `run --summary`.
	runSummary struct {
		Script        string          `toml:"script"`
		RanAt         time.Time       `toml:"ran_at"`
		UserPlugins   string          `toml:"user_plugins"`
		TGIsIndexed   bool            `toml:"tgis_indexed"`
		Counters      summaryCounters `toml:"counters"`
		FilesToRemove []string        `toml:"files_to_remove"`
		ErrorLog      string          `toml:"error_log,omitempty"`
		Skipped       []summarySkip   `toml:"skipped,omitempty"`
		Backup        *summaryBackup  `toml:"backup,omitempty"`
	}

	summaryCounters struct {
		Scanned    int `toml:"scanned"`
		Found      int `toml:"found"`
		Missing    int `toml:"missing"`
		Skipped    int `toml:"skipped"`
		Unchecked  int `toml:"unchecked"`
		Unresolved int `toml:"unresolved"`
		Removals   int `toml:"removals"`
	}

	summarySkip struct {
		Path  string `toml:"path"`
		Error string `toml:"error"`
	}

	summaryBackup struct {
		Dir     string   `toml:"dir"`
		Moved   []string `toml:"moved"`
		Deleted []string `toml:"deleted,omitempty"`
		Failed  []string `toml:"failed,omitempty"`
		UndoBat string   `toml:"undo_bat"`
		UndoSh  string   `toml:"undo_sh"`
		Summary string   `toml:"summary"`
	}
)

func newRunSummary(scriptPath string, at time.Time, cfg *config.Config, r *engine.Report, res *backup.Result) runSummary {
	c := r.Counters
	s := runSummary{
		Script:      scriptPath,
		RanAt:       at,
		UserPlugins: cfg.UserPlugins.String(),
		TGIsIndexed: r.Catalog != nil && r.Catalog.Indexed,
		Counters: summaryCounters{
			Scanned:    c.Scanned,
			Found:      c.Found,
			Missing:    c.Missing,
			Skipped:    c.Skipped,
			Unchecked:  c.Unchecked,
			Unresolved: c.Unresolved,
			Removals:   c.Removals,
		},
		FilesToRemove: r.FilesToRemove,
		ErrorLog:      r.LogPath,
	}
	if s.FilesToRemove == nil {
		s.FilesToRemove = []string{}
	}
	for _, f := range r.Skipped {
		skip := summarySkip{Path: f.Path}
		if f.Err != nil {
			skip.Error = f.Err.Error()
		}
		s.Skipped = append(s.Skipped, skip)
	}
	if res != nil {
		b := &summaryBackup{
			Dir:     res.Dir,
			Moved:   res.Moved,
			Deleted: res.Deleted,
			UndoBat: res.UndoBat,
			UndoSh:  res.UndoSh,
			Summary: res.Summary,
		}
		for _, f := range res.Failures {
			b.Failed = append(b.Failed, f.Path)
		}
		s.Backup = b
	}
	return s
}

// writeRunSummary encodes s as TOML into path.
func writeRunSummary(path string, s runSummary) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	return nil
}
