// Package service provides the transaction manager for specvault.
//
// ChangeService orchestrates the begin/commit/rollback lifecycle over
// the storage collaborators: the snapshot codec, the snapshot store, the
// restore engine, and the transaction state marker. It enforces the
// single-active-transaction invariant per project root.
//
// The model is single-process and cooperative. State is loaded from and
// saved to disk on every call, never cached in memory, so an interrupted
// process can pick up exactly where it left off.
package service
