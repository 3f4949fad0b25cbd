// ABOUTME: Tests for sync state and sync log operations
// ABOUTME: Verifies status transitions, run tokens, and record id upserts
package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/stacked/models"
)

func TestGetSyncStateMissing(t *testing.T) {
	database := setupTestDB(t)

	state, err := GetSyncState(database, ServiceAirtable)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestSyncStatusLifecycle(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, UpdateSyncStatus(database, ServiceAirtable, models.SyncStatusSyncing, nil))
	state, err := GetSyncState(database, ServiceAirtable)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusSyncing, state.Status)
	assert.Nil(t, state.LastSyncTime)

	msg := "connection refused"
	require.NoError(t, UpdateSyncStatus(database, ServiceAirtable, models.SyncStatusError, &msg))
	state, err = GetSyncState(database, ServiceAirtable)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusError, state.Status)
	require.NotNil(t, state.ErrorMessage)
	assert.Equal(t, msg, *state.ErrorMessage)

	require.NoError(t, UpdateSyncToken(database, ServiceAirtable, "01J0RUN"))
	state, err = GetSyncState(database, ServiceAirtable)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusIdle, state.Status)
	assert.Nil(t, state.ErrorMessage)
	assert.NotNil(t, state.LastSyncTime)
	require.NotNil(t, state.LastSyncToken)
	assert.Equal(t, "01J0RUN", *state.LastSyncToken)
}

func TestGetAllSyncStates(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, UpdateSyncStatus(database, ServiceAirtable, models.SyncStatusIdle, nil))
	require.NoError(t, UpdateSyncStatus(database, "csv", models.SyncStatusIdle, nil))

	states, err := GetAllSyncStates(database)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, ServiceAirtable, states[0].Service)
	assert.Equal(t, "csv", states[1].Service)
}

func TestLogSyncUpsert(t *testing.T) {
	database := setupTestDB(t)

	exists, err := CheckSyncLogExists(database, ServiceAirtable, "rec1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, LogSync(database, ServiceAirtable, "rec1", EntityCreator, "10", `{"action":"create"}`))
	require.NoError(t, LogSync(database, ServiceAirtable, "rec1", EntityCreator, "11", `{"action":"update"}`))

	exists, err = CheckSyncLogExists(database, ServiceAirtable, "rec1")
	require.NoError(t, err)
	assert.True(t, exists)

	old, err := FindSyncLogByEntity(database, ServiceAirtable, EntityCreator, "10")
	require.NoError(t, err)
	assert.Empty(t, old)

	entries, err := FindSyncLogByEntity(database, ServiceAirtable, EntityCreator, "11")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rec1", entries[0].SourceID)
	assert.Equal(t, `{"action":"update"}`, entries[0].Metadata)
	assert.NotEmpty(t, entries[0].ID)
}
