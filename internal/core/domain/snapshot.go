// Package domain defines the core domain models for specvault.
package domain

import (
	"crypto/rand"
	"sort"
	"time"
)

// snapshotIDTimeLayout is the compact UTC timestamp prefix of snapshot IDs.
// The layout keeps plain string comparison equivalent to chronological
// ordering down to second granularity.
const snapshotIDTimeLayout = "20060102-150405"

// snapshotIDSuffixLen is the number of random disambiguating characters
// appended to the timestamp so IDs minted within the same second stay
// distinct.
const snapshotIDSuffixLen = 3

// idAlphabet is Crockford base32, lowercased. Lowercase keeps IDs
// filename-safe on case-insensitive filesystems.
const idAlphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Snapshot is an immutable point-in-time capture of the spec store:
// the manifest, the derived lock file (when present), and every slot
// source file. Once written to history a snapshot is never mutated.
type Snapshot struct {
	// ID is the lexically sortable snapshot identifier.
	// Format: YYYYMMDD-HHMMSS-xxx (UTC timestamp + random suffix).
	ID string `json:"id"`

	// CreatedAt is the capture timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at"`

	// Manifest is the manifest file content, carried as an opaque blob.
	Manifest string `json:"manifest"`

	// Lock is the lock file content. Nil when no lock file existed at
	// capture time; restore must then leave any live lock untouched.
	Lock *string `json:"lock,omitempty"`

	// Slots maps slot file paths, relative to the slot root, to their
	// verbatim content at capture time.
	Slots map[string]string `json:"slots"`
}

// NewSnapshotID mints a snapshot ID for the given instant.
func NewSnapshotID(t time.Time) (string, error) {
	suffix := make([]byte, snapshotIDSuffixLen)
	if _, err := rand.Read(suffix); err != nil {
		return "", ErrInternal.WithCause(err)
	}
	for i, b := range suffix {
		suffix[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return t.UTC().Format(snapshotIDTimeLayout) + "-" + string(suffix), nil
}

// HasLock reports whether the snapshot captured a lock file.
func (s *Snapshot) HasLock() bool {
	return s.Lock != nil
}

// SlotPaths returns the captured slot paths in sorted order, so restore
// and reporting stay deterministic.
func (s *Snapshot) SlotPaths() []string {
	paths := make([]string, 0, len(s.Slots))
	for p := range s.Slots {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Validate checks the structural invariants of a snapshot record loaded
// from disk.
func (s *Snapshot) Validate() error {
	if s.ID == "" {
		return ErrStorage.WithDetails("snapshot record has empty id")
	}
	if s.CreatedAt <= 0 {
		return ErrStorage.WithDetailsf("snapshot %s has invalid created_at %d", s.ID, s.CreatedAt)
	}
	return nil
}
