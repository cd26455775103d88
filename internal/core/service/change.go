// Package service provides the transaction manager for specvault.
package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/specvault/specvault/internal/core/domain"
	"github.com/specvault/specvault/internal/storage/snapshot"
	"github.com/specvault/specvault/internal/storage/spec"
	"github.com/specvault/specvault/internal/storage/txstate"
)

// ChangeService brackets edits to the spec store in transactions.
//
// State machine per project root: Idle -[Begin]-> Active -[Commit |
// Rollback]-> Idle. At most one transaction is active at any time; the
// persisted marker file is the source of truth, re-read on every call.
type ChangeService struct {
	lay       spec.Layout
	codec     *snapshot.Codec
	snapshots *snapshot.Store
	restorer  *snapshot.Restorer
	changes   *txstate.ChangeStore
	marker    *txstate.MarkerStore
	logger    *slog.Logger
}

// NewChangeService wires a ChangeService over one project root.
func NewChangeService(lay spec.Layout, logger *slog.Logger) *ChangeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeService{
		lay:       lay,
		codec:     snapshot.NewCodec(logger),
		snapshots: snapshot.NewStore(lay, logger),
		restorer:  snapshot.NewRestorer(logger),
		changes:   txstate.NewChangeStore(lay, logger),
		marker:    txstate.NewMarkerStore(lay, logger),
		logger:    logger,
	}
}

// Snapshots exposes the snapshot store for front-ends that list, show,
// or prune history through the public contract.
func (s *ChangeService) Snapshots() *snapshot.Store {
	return s.snapshots
}

// Changes exposes the change record store for history listings.
func (s *ChangeService) Changes() *txstate.ChangeStore {
	return s.changes
}

// MarkerPath returns the marker file path for read-only observers.
func (s *ChangeService) MarkerPath() string {
	return s.marker.Path()
}

// Begin starts a transaction: it captures and persists a snapshot,
// creates a pending change record referencing it, and persists the
// active marker. Fails with a conflict error if a transaction is
// already active.
func (s *ChangeService) Begin(ctx context.Context, message string) (*domain.Change, error) {
	st, err := s.marker.Load()
	if err != nil {
		return nil, err
	}
	if st.Active {
		return nil, domain.ErrConflict.
			WithDetailsf("change %s is in flight; commit or roll it back first", st.ChangeID)
	}

	snap, err := s.codec.Capture(ctx, s.lay)
	if err != nil {
		return nil, err
	}
	if err := s.snapshots.Write(snap); err != nil {
		return nil, err
	}

	ch, err := domain.NewChange(snap.ID, message)
	if err != nil {
		return nil, err
	}
	if err := s.changes.Write(ch); err != nil {
		return nil, err
	}
	if err := s.marker.Save(domain.ActiveState(ch.ID, snap.ID)); err != nil {
		return nil, err
	}

	s.logger.Info("change started",
		"change_id", ch.ID,
		"snapshot_id", snap.ID,
		"message", message,
	)
	return ch, nil
}

// Commit finalizes the active transaction. It only updates bookkeeping:
// the live files already carry whatever edits happened during the
// active window, since this subsystem brackets edits rather than
// buffering them.
func (s *ChangeService) Commit(ctx context.Context) (*domain.Change, error) {
	st, err := s.marker.Load()
	if err != nil {
		return nil, err
	}
	if !st.Active {
		return nil, domain.ErrState.WithDetails("commit requires an active transaction")
	}

	ch, err := s.changes.ReadByID(st.ChangeID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, domain.ErrState.
			WithDetailsf("marker references change %s but no record exists", st.ChangeID)
	}

	ch.MarkCommitted()
	if err := s.changes.Write(ch); err != nil {
		return nil, err
	}
	if err := s.marker.Clear(); err != nil {
		return nil, err
	}

	s.logger.Info("change committed", "change_id", ch.ID)
	return ch, nil
}

// Rollback restores the spec store from a change's snapshot. With an
// empty changeID it targets the active transaction; with an explicit ID
// it can roll back any persisted change, including committed history.
// The marker is cleared only when it pointed at the rolled-back change.
func (s *ChangeService) Rollback(ctx context.Context, changeID string) (*domain.RollbackResult, error) {
	st, err := s.marker.Load()
	if err != nil {
		return nil, err
	}

	if changeID == "" {
		if !st.Active {
			return nil, domain.ErrState.
				WithDetails("rollback requires an active transaction or an explicit change id")
		}
		changeID = st.ChangeID
	}

	ch, err := s.changes.ReadByID(changeID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, domain.ErrChangeNotFound.WithDetailsf("change %s", changeID)
	}

	snap, err := s.snapshots.ReadByID(ch.SnapshotID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, domain.ErrSnapshotNotFound.
			WithDetailsf("snapshot %s referenced by change %s", ch.SnapshotID, ch.ID)
	}

	result := s.restorer.Restore(s.lay, snap)

	ch.MarkRolledBack()
	if err := s.changes.Write(ch); err != nil {
		return nil, err
	}
	if st.Active && st.ChangeID == ch.ID {
		if err := s.marker.Clear(); err != nil {
			return nil, err
		}
	}

	s.logger.Info("change rolled back",
		"change_id", ch.ID,
		"snapshot_id", snap.ID,
		"success", result.Success,
	)
	return &domain.RollbackResult{
		Success:       result.Success,
		ChangeID:      ch.ID,
		RestoreResult: result,
	}, nil
}

// Status reports the current transaction state, enriched with the
// referenced change record when one is active.
func (s *ChangeService) Status(ctx context.Context) (*domain.TransactionStatus, error) {
	st, err := s.marker.Load()
	if err != nil {
		return nil, err
	}

	status := &domain.TransactionStatus{
		Active:     st.Active,
		ChangeID:   st.ChangeID,
		SnapshotID: st.SnapshotID,
	}
	if st.Active {
		ch, err := s.changes.ReadByID(st.ChangeID)
		if err != nil {
			return nil, err
		}
		status.Change = ch
	}
	return status, nil
}

// HasActive reports whether a transaction is currently active.
func (s *ChangeService) HasActive(ctx context.Context) (bool, error) {
	status, err := s.Status(ctx)
	if err != nil {
		return false, err
	}
	return status.Active, nil
}

// LockStale reports whether the lock file's recorded routes hash no
// longer matches the live manifest. Returns nil when either file is
// absent; staleness is only defined when both exist.
func (s *ChangeService) LockStale(ctx context.Context) (*bool, error) {
	manifest, err := os.ReadFile(s.lay.ManifestPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.ErrStorage.WithDetails("read manifest").WithCause(err)
	}

	lockData, err := os.ReadFile(s.lay.LockPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.ErrStorage.WithDetails("read lock file").WithCause(err)
	}

	lf, err := domain.ParseLockFile(lockData)
	if err != nil {
		return nil, err
	}
	stale, err := lf.Stale(manifest)
	if err != nil {
		return nil, err
	}
	return &stale, nil
}
