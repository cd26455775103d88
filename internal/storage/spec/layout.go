// Package spec resolves the on-disk layout of a project's spec store.
package spec

import (
	"fmt"
	"path/filepath"
)

// Default file and directory names under the project root.
const (
	DefaultSpecDir      = "spec"
	DefaultManifestName = "manifest.json"
	DefaultLockName     = "manifest.lock.json"
	DefaultSlotsDir     = "slots"

	historyDir   = "history"
	snapshotsDir = "snapshots"
	changesDir   = "changes"
	markerName   = "transaction.json"
)

// Layout resolves paths for one project root. The zero value is not
// usable; construct with NewLayout or DefaultLayout.
type Layout struct {
	root         string
	specDir      string
	manifestName string
	lockName     string
	slotsDir     string
}

// Option overrides a layout default.
type Option func(*Layout)

// WithSpecDir overrides the spec directory name.
func WithSpecDir(name string) Option {
	return func(l *Layout) { l.specDir = name }
}

// WithManifestName overrides the manifest file name.
func WithManifestName(name string) Option {
	return func(l *Layout) { l.manifestName = name }
}

// WithLockName overrides the lock file name.
func WithLockName(name string) Option {
	return func(l *Layout) { l.lockName = name }
}

// WithSlotsDir overrides the slot directory name.
func WithSlotsDir(name string) Option {
	return func(l *Layout) { l.slotsDir = name }
}

// NewLayout creates a layout for the given project root.
func NewLayout(root string, opts ...Option) (Layout, error) {
	if root == "" {
		return Layout{}, fmt.Errorf("spec: project root is required")
	}
	l := Layout{
		root:         root,
		specDir:      DefaultSpecDir,
		manifestName: DefaultManifestName,
		lockName:     DefaultLockName,
		slotsDir:     DefaultSlotsDir,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l, nil
}

// DefaultLayout creates a layout with all defaults; it panics on an
// empty root and exists for tests and simple callers.
func DefaultLayout(root string) Layout {
	l, err := NewLayout(root)
	if err != nil {
		panic(err)
	}
	return l
}

// Root returns the project root.
func (l Layout) Root() string {
	return l.root
}

// SpecDir returns the spec store directory.
func (l Layout) SpecDir() string {
	return filepath.Join(l.root, l.specDir)
}

// ManifestPath returns the canonical manifest path.
func (l Layout) ManifestPath() string {
	return filepath.Join(l.SpecDir(), l.manifestName)
}

// LockPath returns the canonical lock file path.
func (l Layout) LockPath() string {
	return filepath.Join(l.SpecDir(), l.lockName)
}

// SlotsDir returns the slot source tree root.
func (l Layout) SlotsDir() string {
	return filepath.Join(l.SpecDir(), l.slotsDir)
}

// SlotPath returns the absolute path of a slot file given its path
// relative to the slot root.
func (l Layout) SlotPath(rel string) string {
	return filepath.Join(l.SlotsDir(), filepath.FromSlash(rel))
}

// HistoryDir returns the history directory.
func (l Layout) HistoryDir() string {
	return filepath.Join(l.SpecDir(), historyDir)
}

// SnapshotsDir returns the snapshot record directory.
func (l Layout) SnapshotsDir() string {
	return filepath.Join(l.HistoryDir(), snapshotsDir)
}

// ChangesDir returns the change record directory.
func (l Layout) ChangesDir() string {
	return filepath.Join(l.HistoryDir(), changesDir)
}

// MarkerPath returns the transaction state marker path.
func (l Layout) MarkerPath() string {
	return filepath.Join(l.HistoryDir(), markerName)
}

// Rel rewrites an absolute path relative to the project root, for
// reporting. Falls back to the input when it is outside the root.
func (l Layout) Rel(path string) string {
	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
