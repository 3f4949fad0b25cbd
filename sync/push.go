// ABOUTME: Pushes the local creator store to Airtable
// ABOUTME: Wraps SyncAll with sync_state tracking and sync_log entries for each written record
package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
)

// PushCreators syncs every local creator to Airtable in id order. Each written
// record is logged in sync_log, including those written before a failure.
func PushCreators(ctx context.Context, database *sql.DB, syncer *Syncer, cfg Config) (*SyncResult, error) {
	creators, err := db.ListCreators(database)
	if err != nil {
		return nil, err
	}

	if err := db.UpdateSyncStatus(database, db.ServiceAirtable, models.SyncStatusSyncing, nil); err != nil {
		return nil, err
	}

	result, syncErr := syncer.SyncAll(ctx, cfg, creators)

	for _, rec := range result.Records {
		metadata, _ := json.Marshal(map[string]string{
			"action": string(rec.Action),
			"run_id": result.RunID,
		})
		err := db.LogSync(database, db.ServiceAirtable, rec.RecordID, db.EntityCreator,
			strconv.FormatInt(rec.CreatorID, 10), string(metadata))
		if err != nil {
			syncer.logger.Warn("failed to log pushed record",
				zap.String("run_id", result.RunID),
				zap.String("record_id", rec.RecordID),
				zap.Error(err))
		}
	}

	if syncErr != nil {
		markSyncError(database, syncer.logger, syncErr)
		return result, syncErr
	}

	if err := db.UpdateSyncToken(database, db.ServiceAirtable, result.RunID); err != nil {
		return result, fmt.Errorf("failed to record sync run: %w", err)
	}

	return result, nil
}
