// Package snapshot captures, persists, and restores spec store snapshots.
package snapshot

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specvault/specvault/internal/core/domain"
	"github.com/specvault/specvault/internal/storage/spec"
)

// Restorer applies a snapshot back onto the live file tree.
//
// Restore is overwrite-only: it writes exactly the files the snapshot
// tracks and never deletes anything. A lock file that exists now but was
// absent at capture time stays; slot files created after the capture
// stay. Each write is attempted independently and failures are collected
// into the result, so one bad file cannot abort the rest. Applying the
// same snapshot twice yields identical contents.
type Restorer struct {
	logger *slog.Logger
}

// NewRestorer creates a Restorer.
func NewRestorer(logger *slog.Logger) *Restorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Restorer{logger: logger}
}

// Restore writes the snapshot's tracked files and reports per-file
// outcomes. Success is true iff every write succeeded.
func (r *Restorer) Restore(lay spec.Layout, snap *domain.Snapshot) *domain.RestoreResult {
	result := domain.NewRestoreResult()

	r.writeFile(lay, lay.ManifestPath(), snap.Manifest, result)

	if snap.HasLock() {
		r.writeFile(lay, lay.LockPath(), *snap.Lock, result)
	}

	for _, rel := range snap.SlotPaths() {
		r.writeFile(lay, lay.SlotPath(rel), snap.Slots[rel], result)
	}

	r.logger.Info("snapshot restored",
		"id", snap.ID,
		"restored", len(result.RestoredFiles),
		"failed", len(result.FailedFiles),
	)
	return result
}

// writeFile overwrites one tracked file, creating parent directories as
// needed, and accumulates the outcome.
func (r *Restorer) writeFile(lay spec.Layout, path, content string, result *domain.RestoreResult) {
	rel := lay.Rel(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		r.logger.Warn("restore write failed", "path", rel, "error", err)
		result.RecordFailed(rel, err)
		return
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.logger.Warn("restore write failed", "path", rel, "error", err)
		result.RecordFailed(rel, err)
		return
	}
	result.RecordRestored(rel)
}
