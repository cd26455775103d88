// Package txstate persists transaction bookkeeping for a project root.
package txstate

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specvault/specvault/internal/core/domain"
	"github.com/specvault/specvault/internal/storage/spec"
)

// MarkerStore reads and writes the transaction state marker file. An
// absent marker is the idle state; clearing writes the idle state back
// rather than deleting the file, so the transition is a plain atomic
// replace either way.
type MarkerStore struct {
	path   string
	logger *slog.Logger
}

// NewMarkerStore creates a MarkerStore over the layout's marker path.
func NewMarkerStore(lay spec.Layout, logger *slog.Logger) *MarkerStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkerStore{
		path:   lay.MarkerPath(),
		logger: logger,
	}
}

// Load returns the persisted transaction state.
func (s *MarkerStore) Load() (*domain.TransactionState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.IdleState(), nil
		}
		return nil, domain.ErrStorage.
			WithDetailsf("read transaction marker %s", s.path).
			WithCause(err)
	}

	var st domain.TransactionState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, domain.ErrStorage.
			WithDetailsf("decode transaction marker %s", s.path).
			WithCause(err)
	}
	if st.Active && (st.ChangeID == "" || st.SnapshotID == "") {
		return nil, domain.ErrStorage.
			WithDetailsf("transaction marker %s is active but incomplete", s.path)
	}
	return &st, nil
}

// Save persists the transaction state atomically (temp file + rename).
func (s *MarkerStore) Save(st *domain.TransactionState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return domain.ErrStorage.
			WithDetailsf("create history dir for %s", s.path).
			WithCause(err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return domain.ErrStorage.WithDetails("marshal transaction marker").WithCause(err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return domain.ErrStorage.
			WithDetailsf("create temp marker %s", tempPath).
			WithCause(err)
	}
	defer os.Remove(tempPath)

	if _, err := file.Write(data); err != nil {
		file.Close()
		return domain.ErrStorage.WithDetails("write transaction marker").WithCause(err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return domain.ErrStorage.WithDetails("sync transaction marker").WithCause(err)
	}
	if err := file.Close(); err != nil {
		return domain.ErrStorage.WithDetails("close transaction marker").WithCause(err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return domain.ErrStorage.
			WithDetailsf("rename transaction marker into %s", s.path).
			WithCause(err)
	}

	s.logger.Debug("transaction marker saved",
		"active", st.Active,
		"change_id", st.ChangeID,
	)
	return nil
}

// Clear resets the marker to the idle state.
func (s *MarkerStore) Clear() error {
	return s.Save(domain.IdleState())
}

// Path returns the marker file location, for read-only observers such
// as a status follower.
func (s *MarkerStore) Path() string {
	return s.path
}
