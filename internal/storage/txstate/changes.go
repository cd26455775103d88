// Package txstate persists transaction bookkeeping for a project root.
package txstate

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

const changeExtension = ".json"

// ChangeStore persists change records under history/changes/, one file
// per change. Records are small and rewritten whole on every status
// transition, through the same temp-file + rename discipline as
// snapshots.
type ChangeStore struct {
	dir    string
	logger *slog.Logger
}

// NewChangeStore creates a ChangeStore over the layout's changes directory.
func NewChangeStore(lay spec.Layout, logger *slog.Logger) *ChangeStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeStore{
		dir:    lay.ChangesDir(),
		logger: logger,
	}
}

// Write persists the change record, replacing any previous version.
func (s *ChangeStore) Write(ch *domain.Change) error {
	if err := ch.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return domain.ErrStorage.
			WithDetailsf("create changes dir %s", s.dir).
			WithCause(err)
	}

	data, err := json.MarshalIndent(ch, "", "  ")
	if err != nil {
		return domain.ErrStorage.
			WithDetailsf("marshal change %s", ch.ID).
			WithCause(err)
	}

	tempPath := filepath.Join(s.dir, ch.ID+".tmp")
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return domain.ErrStorage.
			WithDetailsf("write change %s", ch.ID).
			WithCause(err)
	}
	defer os.Remove(tempPath)

	finalPath := filepath.Join(s.dir, ch.ID+changeExtension)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return domain.ErrStorage.
			WithDetailsf("rename change %s into place", ch.ID).
			WithCause(err)
	}

	s.logger.Debug("change written", "id", ch.ID, "status", ch.Status)
	return nil
}

// ReadByID loads a change record, returning (nil, nil) when absent.
func (s *ChangeStore) ReadByID(id string) (*domain.Change, error) {
	if id == "" || id != filepath.Base(id) {
		return nil, domain.ErrStorage.WithDetailsf("malformed change id %q", id)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, id+changeExtension))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.ErrStorage.
			WithDetailsf("read change %s", id).
			WithCause(err)
	}

	var ch domain.Change
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, domain.ErrStorage.
			WithDetailsf("decode change %s", id).
			WithCause(err)
	}
	if err := ch.Validate(); err != nil {
		return nil, err
	}
	return &ch, nil
}

// List returns all change records, newest first.
func (s *ChangeStore) List() ([]*domain.Change, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.ErrStorage.
			WithDetailsf("list changes in %s", s.dir).
			WithCause(err)
	}

	var changes []*domain.Change
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), changeExtension) {
			continue
		}
		ch, err := s.ReadByID(strings.TrimSuffix(e.Name(), changeExtension))
		if err != nil {
			return nil, err
		}
		if ch != nil {
			changes = append(changes, ch)
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].CreatedAt != changes[j].CreatedAt {
			return changes[i].CreatedAt > changes[j].CreatedAt
		}
		return changes[i].ID > changes[j].ID
	})
	return changes, nil
}
