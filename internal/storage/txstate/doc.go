// Package txstate persists transaction bookkeeping for a project root.
//
// MarkerStore owns the single transaction state marker file; it is the
// one shared mutable resource in the system, loaded and saved on every
// call so state survives process restarts. ChangeStore persists the
// append-style change records under history/changes/.
//
// No cross-process locking is done here. Two processes mutating the same
// root concurrently is a documented hazard; callers must serialize
// access externally.
package txstate
