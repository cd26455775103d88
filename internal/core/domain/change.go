// Package domain defines the core domain models for specvault.
package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ChangeIDPrefix is the prefix for change IDs.
const ChangeIDPrefix = "svch-"

// MaxMessageLength bounds the change message.
const MaxMessageLength = 512

// ChangeStatus is the lifecycle state of a Change.
type ChangeStatus string

const (
	// ChangeStatusPending marks an in-flight change bracketed by begin.
	ChangeStatusPending ChangeStatus = "pending"

	// ChangeStatusCommitted marks a change finalized by commit.
	ChangeStatusCommitted ChangeStatus = "committed"

	// ChangeStatusRolledBack marks a change undone from its snapshot.
	ChangeStatusRolledBack ChangeStatus = "rolledback"
)

// Change is a transaction record: a begin/commit-or-rollback bracket
// around a sequence of edits, backed by exactly one snapshot.
type Change struct {
	// ID is the change identifier. Format: svch-{ulid_lowercase}.
	ID string `json:"id"`

	// SnapshotID references the snapshot taken at begin.
	SnapshotID string `json:"snapshot_id"`

	// Message is the caller-supplied description of the edit.
	Message string `json:"message"`

	// CreatedAt is the begin timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at"`

	// Status is the lifecycle state.
	Status ChangeStatus `json:"status"`
}

// GenerateChangeID generates a new change ID.
func GenerateChangeID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return ChangeIDPrefix + strings.ToLower(id.String()), nil
}

// NewChange creates a pending Change referencing the given snapshot.
func NewChange(snapshotID, message string) (*Change, error) {
	if snapshotID == "" {
		return nil, ErrInternal.WithDetails("change requires a snapshot id")
	}
	if len(message) > MaxMessageLength {
		message = message[:MaxMessageLength]
	}
	id, err := GenerateChangeID()
	if err != nil {
		return nil, err
	}
	return &Change{
		ID:         id,
		SnapshotID: snapshotID,
		Message:    message,
		CreatedAt:  time.Now().UnixMilli(),
		Status:     ChangeStatusPending,
	}, nil
}

// IsPending reports whether the change is still in flight.
func (c *Change) IsPending() bool {
	return c.Status == ChangeStatusPending
}

// MarkCommitted transitions the change to committed.
func (c *Change) MarkCommitted() {
	c.Status = ChangeStatusCommitted
}

// MarkRolledBack transitions the change to rolledback.
func (c *Change) MarkRolledBack() {
	c.Status = ChangeStatusRolledBack
}

// Validate checks the structural invariants of a change record loaded
// from disk.
func (c *Change) Validate() error {
	if !strings.HasPrefix(c.ID, ChangeIDPrefix) {
		return ErrStorage.WithDetailsf("change record has malformed id %q", c.ID)
	}
	if c.SnapshotID == "" {
		return ErrStorage.WithDetailsf("change %s has no snapshot id", c.ID)
	}
	switch c.Status {
	case ChangeStatusPending, ChangeStatusCommitted, ChangeStatusRolledBack:
		return nil
	default:
		return ErrStorage.WithDetailsf("change %s has unknown status %q", c.ID, c.Status)
	}
}
