package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncState_Valid(t *testing.T) {
	assert.True(t, StateSynced.Valid())
	assert.True(t, StateToSync.Valid())
	assert.True(t, StateDeleted.Valid())
	assert.False(t, SyncState(3).Valid())
	assert.False(t, SyncState(-1).Valid())
}

func TestSyncState_String(t *testing.T) {
	assert.Equal(t, "synced", StateSynced.String())
	assert.Equal(t, "to-sync", StateToSync.String())
	assert.Equal(t, "deleted", StateDeleted.String())
	assert.Equal(t, "sync-state(9)", SyncState(9).String())
}
