// Package domain defines the core domain models for specvault.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Snapshot: immutable point-in-time capture of the spec store
//   - Change: a begin/commit-or-rollback bracket backed by one snapshot
//   - TransactionState: the persisted single-active-transaction marker
//   - LockFile: narrow typed view of the derived lock blob
//   - Errors: domain-specific error definitions
package domain
