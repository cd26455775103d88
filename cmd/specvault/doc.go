// Package main provides the entry point for specvault.
//
// The CLI tool provides transactional change management for a
// project's spec store:
//
//   - Change transactions (begin, commit, rollback, status, log)
//   - Snapshot history (list, show, create, restore, delete, prune)
//   - Configuration inspection
//
// Usage:
//
//	specvault [command] [flags]
//	specvault change begin -m "add payment routes"
//	specvault snapshot list -o json
package main
