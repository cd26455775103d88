// Package spec resolves the on-disk layout of a project's spec store.
//
// All other storage packages take a Layout instead of raw paths, so the
// directory names stay configurable in exactly one place:
//
//	<root>/spec/manifest.json               manifest (required)
//	<root>/spec/manifest.lock.json          lock file (optional)
//	<root>/spec/slots/**                    slot source tree
//	<root>/spec/history/snapshots/<id>.json snapshot records
//	<root>/spec/history/changes/<id>.json   change records
//	<root>/spec/history/transaction.json    transaction state marker
package spec
