// ABOUTME: Airtable to local store importer
// ABOUTME: Upserts creators from Airtable records, tracks sync state, and reports id collisions
package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
)

// IDCollision is a record whose derived id already belongs to a different
// local creator. The record is not imported.
type IDCollision struct {
	RecordID string
	Name     string
	LocalID  int64
	Existing string
}

// SkippedRecord is a record that could not be imported.
type SkippedRecord struct {
	RecordID string
	Name     string
	Reason   string
}

// ImportResult summarizes one pull from Airtable.
type ImportResult struct {
	RunID      string
	Fetched    int
	Created    int
	Updated    int
	Collisions []IDCollision
	Skipped    []SkippedRecord
}

// CreatorImporter writes Airtable records into the local database.
type CreatorImporter struct {
	db     *sql.DB
	mapper *Mapper
	logger *zap.Logger
}

func NewCreatorImporter(database *sql.DB, mapper *Mapper, logger *zap.Logger) *CreatorImporter {
	if mapper == nil {
		mapper = NewMapper()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreatorImporter{db: database, mapper: mapper, logger: logger}
}

// ImportCreators pulls every record from Airtable into the local database.
// Sync state for the airtable service moves to syncing, then idle or error.
func ImportCreators(ctx context.Context, database *sql.DB, syncer *Syncer, cfg Config) (*ImportResult, error) {
	if err := db.UpdateSyncStatus(database, db.ServiceAirtable, models.SyncStatusSyncing, nil); err != nil {
		return nil, err
	}

	records, err := syncer.FetchRecords(ctx, cfg)
	if err != nil {
		markSyncError(database, syncer.logger, err)
		return nil, err
	}

	importer := NewCreatorImporter(database, syncer.Mapper(), syncer.logger)
	result, err := importer.ImportRecords(records)
	if err != nil {
		markSyncError(database, syncer.logger, err)
		return result, err
	}

	if err := db.UpdateSyncToken(database, db.ServiceAirtable, result.RunID); err != nil {
		return result, err
	}

	return result, nil
}

// markSyncError records cause on the airtable sync state. A failed write is
// logged, since the caller is already returning cause.
func markSyncError(database *sql.DB, logger *zap.Logger, cause error) {
	msg := cause.Error()
	if err := db.UpdateSyncStatus(database, db.ServiceAirtable, models.SyncStatusError, &msg); err != nil {
		logger.Error("failed to record airtable sync error",
			zap.String("cause", msg),
			zap.Error(err))
	}
}

// ImportRecords upserts each record. A local creator with the same name is
// updated in place, keeping its id and assets. Otherwise the creator is
// stored under the id derived from the record id.
func (ci *CreatorImporter) ImportRecords(records []Record) (*ImportResult, error) {
	result := &ImportResult{
		RunID:   ulid.Make().String(),
		Fetched: len(records),
	}
	logger := ci.logger.With(zap.String("run_id", result.RunID))

	for _, r := range records {
		if err := ci.importRecord(logger, r, result); err != nil {
			return result, err
		}
	}

	logger.Info("airtable import complete",
		zap.Int("fetched", result.Fetched),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("collisions", len(result.Collisions)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

func (ci *CreatorImporter) importRecord(logger *zap.Logger, r Record, result *ImportResult) error {
	incoming := ci.mapper.FromExternal(r)

	if r.ID == "" || incoming.Name == "" {
		result.Skipped = append(result.Skipped, SkippedRecord{
			RecordID: r.ID,
			Name:     incoming.Name,
			Reason:   "record has no id or name",
		})
		return nil
	}

	existing, err := db.FindCreatorByName(ci.db, incoming.Name)
	if err != nil {
		return fmt.Errorf("failed to look up creator %q: %w", incoming.Name, err)
	}

	if existing == nil {
		var collision *IDCollision
		existing, collision, err = ci.findLinkedByID(r.ID, incoming.ID)
		if err != nil {
			return err
		}
		if collision != nil {
			collision.Name = incoming.Name
			result.Collisions = append(result.Collisions, *collision)
			logger.Warn("airtable record id collides with existing creator",
				zap.String("record_id", r.ID),
				zap.String("creator", incoming.Name),
				zap.Int64("local_id", collision.LocalID),
				zap.String("existing", collision.Existing))
			return nil
		}
	}

	action := ActionCreate
	if existing != nil {
		action = ActionUpdate
		incoming.ID = existing.ID
		incoming.Assets = existing.Assets
		if _, ok := r.Fields[FieldCreatedDate]; !ok {
			incoming.CreatedAt = existing.CreatedAt
		}
		err = db.UpdateCreator(ci.db, &incoming)
	} else {
		err = db.CreateCreator(ci.db, &incoming)
	}

	if errors.Is(err, models.ErrInvalidCreator) {
		result.Skipped = append(result.Skipped, SkippedRecord{
			RecordID: r.ID,
			Name:     incoming.Name,
			Reason:   err.Error(),
		})
		logger.Warn("skipping invalid airtable record",
			zap.String("record_id", r.ID),
			zap.String("creator", incoming.Name),
			zap.Error(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to %s creator %q: %w", action, incoming.Name, err)
	}

	if action == ActionCreate {
		result.Created++
	} else {
		result.Updated++
	}

	metadata, _ := json.Marshal(map[string]string{
		"action": string(action),
		"run_id": result.RunID,
	})
	if err := db.LogSync(ci.db, db.ServiceAirtable, r.ID, db.EntityCreator, strconv.FormatInt(incoming.ID, 10), string(metadata)); err != nil {
		return fmt.Errorf("failed to log sync: %w", err)
	}

	logger.Debug("imported creator",
		zap.String("creator", incoming.Name),
		zap.String("record_id", r.ID),
		zap.String("action", string(action)))

	return nil
}

// findLinkedByID returns the creator stored under the derived id when it was
// imported from this same record, e.g. after a rename in Airtable. A creator
// under that id that came from elsewhere is a collision.
func (ci *CreatorImporter) findLinkedByID(recordID string, id int64) (*models.Creator, *IDCollision, error) {
	holder, err := db.GetCreator(ci.db, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up creator %d: %w", id, err)
	}
	if holder == nil {
		return nil, nil, nil
	}

	entries, err := db.FindSyncLogByEntity(ci.db, db.ServiceAirtable, db.EntityCreator, strconv.FormatInt(id, 10))
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		if e.SourceID == recordID {
			return holder, nil, nil
		}
	}

	return nil, &IDCollision{RecordID: recordID, LocalID: id, Existing: holder.Name}, nil
}
