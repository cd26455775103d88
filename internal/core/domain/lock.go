// Package domain defines the core domain models for specvault.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// LockFile is the narrow typed view of the lock blob. The lock records a
// hash over the manifest's routes for staleness detection; everything
// else in the blob stays opaque and is carried verbatim by snapshots.
type LockFile struct {
	RoutesHash string `json:"routesHash"`
}

// ParseLockFile decodes the fields this subsystem consumes from a lock
// blob. Unknown fields are ignored, not validated.
func ParseLockFile(data []byte) (*LockFile, error) {
	var lf LockFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, ErrConfiguration.WithDetails("lock file is not valid JSON").WithCause(err)
	}
	return &lf, nil
}

// RoutesHash computes the canonical hash over the routes array of a
// manifest blob. The routes value is decoded and re-encoded before
// hashing so formatting differences do not change the hash.
func RoutesHash(manifest []byte) (string, error) {
	var m struct {
		Routes json.RawMessage `json:"routes"`
	}
	if err := json.Unmarshal(manifest, &m); err != nil {
		return "", ErrConfiguration.WithDetails("manifest is not valid JSON").WithCause(err)
	}
	if len(m.Routes) == 0 {
		m.Routes = json.RawMessage("[]")
	}

	var routes any
	if err := json.Unmarshal(m.Routes, &routes); err != nil {
		return "", ErrConfiguration.WithDetails("manifest routes are not valid JSON").WithCause(err)
	}
	canonical, err := json.Marshal(routes)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Stale reports whether the lock's recorded hash no longer matches the
// given manifest blob.
func (l *LockFile) Stale(manifest []byte) (bool, error) {
	h, err := RoutesHash(manifest)
	if err != nil {
		return false, err
	}
	return h != l.RoutesHash, nil
}
