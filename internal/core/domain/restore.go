// Package domain defines the core domain models for specvault.
package domain

import "fmt"

// RestoreResult is the best-effort report of applying a snapshot back
// onto the live file tree. Per-file failures are accumulated here rather
// than raised, so one bad write never aborts the remaining writes.
type RestoreResult struct {
	// Success is true iff no file write failed.
	Success bool `json:"success"`

	// RestoredFiles lists the paths written, relative to the project root.
	RestoredFiles []string `json:"restored_files"`

	// FailedFiles lists the paths that could not be written.
	FailedFiles []string `json:"failed_files"`

	// Errors carries one message per failed file, with path and cause.
	Errors []string `json:"errors"`
}

// NewRestoreResult returns an empty, successful result.
func NewRestoreResult() *RestoreResult {
	return &RestoreResult{
		Success:       true,
		RestoredFiles: []string{},
		FailedFiles:   []string{},
		Errors:        []string{},
	}
}

// RecordRestored accumulates a successful file write.
func (r *RestoreResult) RecordRestored(path string) {
	r.RestoredFiles = append(r.RestoredFiles, path)
}

// RecordFailed accumulates a failed file write.
func (r *RestoreResult) RecordFailed(path string, err error) {
	r.Success = false
	r.FailedFiles = append(r.FailedFiles, path)
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", path, err))
}
