// Package snapshot captures, persists, and restores spec store snapshots.
//
// It is split into three collaborators:
//
//   - Codec: reads the live tree (manifest, lock, slot files) into one
//     immutable domain.Snapshot record
//   - Store: durable persistence of snapshot records under
//     history/snapshots/, atomic from the reader's point of view
//   - Restorer: applies a snapshot back onto the live tree, producing a
//     best-effort per-file report
//
// Snapshots only ever overwrite the files they track. Files that exist
// on disk but were not captured are left untouched on restore.
package snapshot
