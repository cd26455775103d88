// Package snapshot captures, persists, and restores spec store snapshots.
package snapshot

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/specvault/specvault/internal/core/domain"
	"github.com/specvault/specvault/internal/storage/spec"
)

// captureConcurrency bounds parallel slot file reads during capture.
const captureConcurrency = 8

// Codec captures the three watched artifact classes — manifest, lock,
// slot file set — as one immutable snapshot record.
type Codec struct {
	logger *slog.Logger
}

// NewCodec creates a Codec.
func NewCodec(logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{logger: logger}
}

// Capture reads the live tree into a new snapshot. The manifest is
// required; a missing or unreadable manifest fails with a configuration
// error. The lock file is optional. Any read failure during slot
// enumeration aborts the whole capture so a partial snapshot is never
// produced.
func (c *Codec) Capture(ctx context.Context, lay spec.Layout) (*domain.Snapshot, error) {
	now := time.Now()
	id, err := domain.NewSnapshotID(now)
	if err != nil {
		return nil, err
	}

	manifest, err := os.ReadFile(lay.ManifestPath())
	if err != nil {
		return nil, domain.ErrConfiguration.
			WithDetailsf("read manifest %s", lay.Rel(lay.ManifestPath())).
			WithCause(err)
	}

	var lock *string
	lockBytes, err := os.ReadFile(lay.LockPath())
	switch {
	case err == nil:
		s := string(lockBytes)
		lock = &s
	case os.IsNotExist(err):
		// Tolerated: the snapshot records that no lock existed.
	default:
		return nil, domain.ErrAtomicity.
			WithDetailsf("read lock %s", lay.Rel(lay.LockPath())).
			WithCause(err)
	}

	slots, err := c.captureSlots(ctx, lay)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("snapshot captured",
		"id", id,
		"slots", len(slots),
		"lock", lock != nil,
	)

	return &domain.Snapshot{
		ID:        id,
		CreatedAt: now.UnixMilli(),
		Manifest:  string(manifest),
		Lock:      lock,
		Slots:     slots,
	}, nil
}

// captureSlots enumerates the slot tree and reads every regular file.
// Reads are issued concurrently; the first failure cancels the rest and
// aborts the capture.
func (c *Codec) captureSlots(ctx context.Context, lay spec.Layout) (map[string]string, error) {
	root := lay.SlotsDir()

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			// No slot directory means an empty slot set, not a failure.
			return map[string]string{}, nil
		}
		return nil, domain.ErrAtomicity.
			WithDetailsf("enumerate slots under %s", lay.Rel(root)).
			WithCause(err)
	}

	slots := make(map[string]string, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(captureConcurrency)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return domain.ErrAtomicity.
					WithDetailsf("read slot %s", lay.Rel(path)).
					WithCause(err)
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return domain.ErrAtomicity.
					WithDetailsf("relativize slot %s", path).
					WithCause(err)
			}
			mu.Lock()
			slots[filepath.ToSlash(rel)] = string(content)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}
