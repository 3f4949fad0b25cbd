// ABOUTME: Tests for pulling Airtable records into the local database
// ABOUTME: Covers create, name-matched update, renames, id collisions, and sync state tracking
package sync

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	require.NoError(t, db.InitSchema(database))
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func fullRecord(id, name string, sold int) Record {
	return Record{ID: id, Fields: Fields{
		FieldName:          name,
		FieldCategory:      "Music",
		FieldPhase:         models.PhaseLabel(1),
		FieldPhaseNumber:   float64(1),
		FieldCardsSold:     float64(sold),
		FieldTotalCards:    float64(100),
		FieldCardPrice:     float64(25),
		FieldSalesVelocity: models.VelocityMedium,
		FieldCreatedDate:   "2025-06-01",
		FieldLastUpdated:   "2025-06-10",
	}}
}

func TestImportCreatorsCreatesWithDerivedID(t *testing.T) {
	database := setupTestDB(t)
	_, cfg := newFakeAirtable(t, fullRecord("recNINA", "Nina Lin", 40))

	result, err := ImportCreators(context.Background(), database, newTestSyncer(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, 1, result.Created)
	assert.Zero(t, result.Updated)

	c, err := db.GetCreator(database, ExternalID("recNINA"))
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Nina Lin", c.Name)
	assert.Equal(t, 40, c.CardsSold)
	assert.Equal(t, "2025-06-01", c.CreatedAt)

	exists, err := db.CheckSyncLogExists(database, db.ServiceAirtable, "recNINA")
	require.NoError(t, err)
	assert.True(t, exists)

	state, err := db.GetSyncState(database, db.ServiceAirtable)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusIdle, state.Status)
	require.NotNil(t, state.LastSyncToken)
	assert.Equal(t, result.RunID, *state.LastSyncToken)
}

func TestImportCreatorsUpdatesByNameKeepingLocalData(t *testing.T) {
	database := setupTestDB(t)

	local := models.NewCreator("Nina Lin", fixedNow)
	local.Assets.PressKit = []string{"nina-kit.pdf"}
	require.NoError(t, db.CreateCreator(database, &local))

	_, cfg := newFakeAirtable(t, fullRecord("recNINA", "Nina Lin", 55))
	result, err := ImportCreators(context.Background(), database, newTestSyncer(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Zero(t, result.Created)

	got, err := db.GetCreator(database, local.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 55, got.CardsSold)
	assert.Equal(t, []string{"nina-kit.pdf"}, got.Assets.PressKit)

	entries, err := db.FindSyncLogByEntity(database, db.ServiceAirtable, db.EntityCreator, strconv.FormatInt(local.ID, 10))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "recNINA", entries[0].SourceID)
}

func TestImportRecordsFollowsRename(t *testing.T) {
	database := setupTestDB(t)
	importer := NewCreatorImporter(database, nil, nil)

	_, err := importer.ImportRecords([]Record{fullRecord("recK", "Kurama", 10)})
	require.NoError(t, err)

	result, err := importer.ImportRecords([]Record{fullRecord("recK", "Kurama TV", 12)})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.Collisions)

	got, err := db.GetCreator(database, ExternalID("recK"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Kurama TV", got.Name)
	assert.Equal(t, 12, got.CardsSold)
}

func TestImportRecordsReportsIDCollision(t *testing.T) {
	database := setupTestDB(t)

	squatter := models.NewCreator("Ludwig", fixedNow)
	squatter.ID = ExternalID("recX")
	require.NoError(t, db.CreateCreator(database, &squatter))

	result, err := NewCreatorImporter(database, nil, nil).ImportRecords([]Record{fullRecord("recX", "Someone Else", 1)})
	require.NoError(t, err)

	require.Len(t, result.Collisions, 1)
	assert.Equal(t, IDCollision{RecordID: "recX", Name: "Someone Else", LocalID: squatter.ID, Existing: "Ludwig"}, result.Collisions[0])
	assert.Zero(t, result.Created)

	missing, err := db.FindCreatorByName(database, "Someone Else")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestImportRecordsSkipsInvalidAndNameless(t *testing.T) {
	database := setupTestDB(t)

	result, err := NewCreatorImporter(database, nil, nil).ImportRecords([]Record{
		fullRecord("recOVER", "Oversold", 150),
		{ID: "recBLANK", Fields: Fields{FieldCardsSold: float64(1)}},
		fullRecord("recOK", "Fine", 5),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, "recOVER", result.Skipped[0].RecordID)
	assert.Equal(t, "recBLANK", result.Skipped[1].RecordID)
}

func TestImportCreatorsFetchFailureMarksError(t *testing.T) {
	database := setupTestDB(t)
	cfg := Config{APIKey: "k", BaseID: "b", TableName: "t", APIURL: "http://127.0.0.1:1/v0"}

	_, err := ImportCreators(context.Background(), database, newTestSyncer(), cfg)
	require.Error(t, err)

	state, err := db.GetSyncState(database, db.ServiceAirtable)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusError, state.Status)
	require.NotNil(t, state.ErrorMessage)
	assert.Contains(t, *state.ErrorMessage, "connection failed")
}

func TestMarkSyncErrorLogsFailedStatusWrite(t *testing.T) {
	database := setupTestDB(t)
	_, err := database.Exec("DROP TABLE sync_state")
	require.NoError(t, err)

	core, logs := observer.New(zap.ErrorLevel)
	markSyncError(database, zap.New(core), errors.New("airtable down"))

	entries := logs.FilterMessage("failed to record airtable sync error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "airtable down", entries[0].ContextMap()["cause"])
}
