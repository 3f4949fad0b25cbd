// ABOUTME: Tests for database schema creation
// ABOUTME: Uses in-memory SQLite for fast isolated tests
package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSchema(t *testing.T) {
	database := setupTestDB(t)

	for _, table := range []string{"creators", "sync_state", "sync_log"} {
		var name string
		err := database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s not found", table)
	}

	for _, idx := range []string{"idx_creators_phase_number", "idx_sync_log_source", "idx_sync_log_entity"} {
		var name string
		err := database.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&name)
		assert.NoError(t, err, "index %s not found", idx)
	}
}

func TestSchemaRejectsBadPhase(t *testing.T) {
	database := setupTestDB(t)

	_, err := database.Exec(`INSERT INTO creators (name, phase_number, created_at, last_updated)
		VALUES ('Bad', 9, '2024-01-01', '2024-01-01')`)
	assert.Error(t, err)
}

func TestSchemaRejectsBadVelocity(t *testing.T) {
	database := setupTestDB(t)

	_, err := database.Exec(`INSERT INTO creators (name, sales_velocity, created_at, last_updated)
		VALUES ('Bad', 'Warp', '2024-01-01', '2024-01-01')`)
	assert.Error(t, err)
}

func TestInitSchemaIdempotent(t *testing.T) {
	database := setupTestDB(t)
	require.NoError(t, InitSchema(database))
}
