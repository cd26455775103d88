// Package snapshot captures, persists, and restores spec store snapshots.
package snapshot

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specvault/specvault/internal/core/domain"
	"github.com/specvault/specvault/internal/storage/spec"
)

const (
	fileExtension = ".json"
	tempExtension = ".tmp"
)

// Store persists snapshot records under history/snapshots/, one file per
// snapshot, named by ID. Writes go through a temporary name and a rename
// so a crash mid-write never exposes a half-written record under its
// final ID.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store over the layout's snapshot directory.
func NewStore(lay spec.Layout, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dir:    lay.SnapshotsDir(),
		logger: logger,
	}
}

// Write serializes the snapshot to <id>.json atomically.
func (s *Store) Write(snap *domain.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if err := validateID(snap.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return domain.ErrStorage.
			WithDetailsf("create snapshot dir %s", s.dir).
			WithCause(err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return domain.ErrStorage.
			WithDetailsf("marshal snapshot %s", snap.ID).
			WithCause(err)
	}

	tempPath := filepath.Join(s.dir, snap.ID+tempExtension)
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return domain.ErrStorage.
			WithDetailsf("create temp file for snapshot %s", snap.ID).
			WithCause(err)
	}
	defer os.Remove(tempPath)

	if _, err := file.Write(data); err != nil {
		file.Close()
		return domain.ErrStorage.
			WithDetailsf("write snapshot %s", snap.ID).
			WithCause(err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return domain.ErrStorage.
			WithDetailsf("sync snapshot %s", snap.ID).
			WithCause(err)
	}
	if err := file.Close(); err != nil {
		return domain.ErrStorage.
			WithDetailsf("close snapshot %s", snap.ID).
			WithCause(err)
	}

	finalPath := filepath.Join(s.dir, snap.ID+fileExtension)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return domain.ErrStorage.
			WithDetailsf("rename snapshot %s into place", snap.ID).
			WithCause(err)
	}

	s.logger.Debug("snapshot written", "id", snap.ID, "path", finalPath)
	return nil
}

// ReadByID loads the snapshot with the given ID. An absent snapshot is
// not an error: it returns (nil, nil) so callers decide whether absence
// matters.
func (s *Store) ReadByID(id string) (*domain.Snapshot, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, id+fileExtension))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.ErrStorage.
			WithDetailsf("read snapshot %s", id).
			WithCause(err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, domain.ErrStorage.
			WithDetailsf("decode snapshot %s", id).
			WithCause(err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	if snap.Slots == nil {
		snap.Slots = map[string]string{}
	}
	return &snap, nil
}

// Delete removes the snapshot with the given ID, reporting whether it
// existed.
func (s *Store) Delete(id string) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}

	err := os.Remove(filepath.Join(s.dir, id+fileExtension))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, domain.ErrStorage.
			WithDetailsf("delete snapshot %s", id).
			WithCause(err)
	}
	s.logger.Debug("snapshot deleted", "id", id)
	return true, nil
}

// ListIDs returns all stored snapshot IDs, newest first. ID format makes
// plain string order chronological, so descending lexical sort suffices.
func (s *Store) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.ErrStorage.
			WithDetailsf("list snapshots in %s", s.dir).
			WithCause(err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, fileExtension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, fileExtension))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}

// validateID rejects IDs that would escape the snapshot directory.
func validateID(id string) error {
	if id == "" || id != filepath.Base(id) || strings.ContainsAny(id, "/\\") || id == "." || id == ".." {
		return domain.ErrStorage.WithDetailsf("malformed snapshot id %q", id)
	}
	return nil
}
