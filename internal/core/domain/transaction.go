// Package domain defines the core domain models for specvault.
package domain

// TransactionState is the persisted single-active-transaction marker for
// one project root. It survives process restarts; an absent marker file
// is equivalent to the idle state.
type TransactionState struct {
	// Active reports whether a transaction is currently in flight.
	Active bool `json:"active"`

	// ChangeID references the in-flight change when Active.
	ChangeID string `json:"change_id,omitempty"`

	// SnapshotID references the begin snapshot when Active.
	SnapshotID string `json:"snapshot_id,omitempty"`
}

// IdleState returns the cleared transaction state.
func IdleState() *TransactionState {
	return &TransactionState{}
}

// ActiveState returns a marker pointing at the given change.
func ActiveState(changeID, snapshotID string) *TransactionState {
	return &TransactionState{
		Active:     true,
		ChangeID:   changeID,
		SnapshotID: snapshotID,
	}
}

// TransactionStatus is the caller-facing view of the transaction state,
// enriched with the referenced change record when one is active.
type TransactionStatus struct {
	Active     bool    `json:"active"`
	ChangeID   string  `json:"change_id,omitempty"`
	SnapshotID string  `json:"snapshot_id,omitempty"`
	Change     *Change `json:"change,omitempty"`
}

// RollbackResult reports the outcome of a rollback.
type RollbackResult struct {
	Success       bool           `json:"success"`
	ChangeID      string         `json:"change_id"`
	RestoreResult *RestoreResult `json:"restore_result"`
}
