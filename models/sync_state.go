package models

import "fmt"

// SyncState tags a locally stored entity with its position in the sync
// lifecycle. It is persisted as an integer column and must only ever hold one
// of the three declared values.
type SyncState int

const (
	// StateSynced means the local copy matches the server's last confirmed
	// state.
	StateSynced SyncState = iota

	// StateToSync means the entity was created or modified locally and the
	// change has not been pushed to the server yet.
	StateToSync

	// StateDeleted means the entity was deleted locally. The row is retained
	// as a tombstone until the server acknowledges the deletion; it must be
	// excluded from application-facing queries.
	StateDeleted
)

// Valid reports whether s is one of the declared sync states.
func (s SyncState) Valid() bool {
	switch s {
	case StateSynced, StateToSync, StateDeleted:
		return true
	default:
		return false
	}
}

func (s SyncState) String() string {
	switch s {
	case StateSynced:
		return "synced"
	case StateToSync:
		return "to-sync"
	case StateDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("sync-state(%d)", int(s))
	}
}
