// SPDX-License-Identifier: MPL-2.0

package catalog

import "sync/atomic"

type (
	// Progress exposes advisory counters updated while a catalog is built.
	// Callers may sample it at any cadence; it carries no correctness
	// obligation.
	Progress struct {
		filesTotal   atomic.Int64
		filesScanned atomic.Int64
		tgisFound    atomic.Int64
	}

	// ProgressSnapshot is a point-in-time copy of Progress.
	ProgressSnapshot struct {
		FilesTotal   int64
		FilesScanned int64
		TGIsFound    int64
	}
)

// Snapshot returns the current counter values.
func (p *Progress) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		FilesTotal:   p.filesTotal.Load(),
		FilesScanned: p.filesScanned.Load(),
		TGIsFound:    p.tgisFound.Load(),
	}
}

func (p *Progress) reset() {
	p.filesTotal.Store(0)
	p.filesScanned.Store(0)
	p.tgisFound.Store(0)
}
