// ABOUTME: One-shot Creator to Airtable synchronization
// ABOUTME: Probes the table, matches creators by name, then creates or updates records one at a time
package sync

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/harperreed/stacked/models"
)

// Syncer runs sync operations against the table named by the Config passed
// to each call. It holds no per-operation state and is safe to reuse.
type Syncer struct {
	mapper     *Mapper
	logger     *zap.Logger
	httpClient *http.Client
	rps        rate.Limit
}

type Option func(*Syncer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Syncer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHTTPClient sets the base transport. Its Timeout, if any, applies per request.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Syncer) {
		s.httpClient = client
	}
}

// WithRateLimit sets the request pace. rate.Inf disables pacing.
func WithRateLimit(limit rate.Limit) Option {
	return func(s *Syncer) {
		s.rps = limit
	}
}

// WithMapper replaces the field mapper, e.g. to pin the clock.
func WithMapper(m *Mapper) Option {
	return func(s *Syncer) {
		if m != nil {
			s.mapper = m
		}
	}
}

func NewSyncer(opts ...Option) *Syncer {
	s := &Syncer{
		mapper:     NewMapper(),
		logger:     zap.NewNop(),
		httpClient: http.DefaultClient,
		rps:        rate.Limit(DefaultRequestsPerSecond),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mapper returns the field mapper used by this syncer.
func (s *Syncer) Mapper() *Mapper {
	return s.mapper
}

// SyncedRecord is one write made by SyncAll.
type SyncedRecord struct {
	CreatorID int64
	Name      string
	Action    Action
	RecordID  string
}

// SyncResult counts the records written by SyncAll.
type SyncResult struct {
	RunID   string
	Created int
	Updated int
	Records []SyncedRecord
}

// Succeeded is the number of records created or updated.
func (r *SyncResult) Succeeded() int {
	return r.Created + r.Updated
}

func (s *Syncer) client(ctx context.Context, cfg Config) *airtableClient {
	return newAirtableClient(ctx, cfg, s.httpClient, s.rps, s.logger)
}

// TestConnection checks that the table is reachable with the configured
// credential. It reads at most one record and writes nothing.
func (s *Syncer) TestConnection(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := s.client(ctx, cfg).Probe(ctx); err != nil {
		s.logger.Warn("airtable connection test failed",
			zap.String("base_id", cfg.BaseID),
			zap.String("table", cfg.TableName),
			zap.Error(err))
		return fmt.Errorf("connection test failed: %w", err)
	}

	return nil
}

// FetchRecords lists every record in the table.
func (s *Syncer) FetchRecords(ctx context.Context, cfg Config) ([]Record, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	records, err := s.client(ctx, cfg).ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list airtable records: %w", err)
	}

	return records, nil
}

// FetchCreators lists every record in the table as creators.
func (s *Syncer) FetchCreators(ctx context.Context, cfg Config) ([]models.Creator, error) {
	records, err := s.FetchRecords(ctx, cfg)
	if err != nil {
		return nil, err
	}

	creators := make([]models.Creator, 0, len(records))
	for _, r := range records {
		creators = append(creators, s.mapper.FromExternal(r))
	}

	return creators, nil
}

// SyncAll pushes creators to Airtable in the given order, one request per
// creator. A creator whose name matches an existing record updates it;
// otherwise a new record is created.
//
// The first failed write stops the run. Records already written stay
// written, and the returned result counts them. Running SyncAll again with
// the same input is safe: matches are re-resolved from fresh remote state.
func (s *Syncer) SyncAll(ctx context.Context, cfg Config, creators []models.Creator) (*SyncResult, error) {
	result := &SyncResult{RunID: ulid.Make().String()}
	logger := s.logger.With(zap.String("run_id", result.RunID))

	if err := cfg.Validate(); err != nil {
		return result, err
	}

	client := s.client(ctx, cfg)

	if err := client.Probe(ctx); err != nil {
		return result, fmt.Errorf("connection test failed: %w", err)
	}

	existing, err := client.ListRecords(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list airtable records: %w", err)
	}

	matcher := NewRecordMatcher(existing)
	logger.Info("starting airtable sync",
		zap.Int("creators", len(creators)),
		zap.Int("remote_records", len(existing)))

	for _, c := range creators {
		resolution := matcher.Resolve(c)
		fields := s.mapper.ToExternal(c)

		switch resolution.Action {
		case ActionUpdate:
			if _, err := client.UpdateRecord(ctx, resolution.RecordID, fields); err != nil {
				return result, s.failure(logger, result, c, resolution, err)
			}
			result.Updated++

		default:
			created, err := client.CreateRecord(ctx, fields)
			if err != nil {
				return result, s.failure(logger, result, c, resolution, err)
			}
			resolution.RecordID = created.ID
			matcher.Add(Record{ID: created.ID, Fields: fields})
			result.Created++
		}

		result.Records = append(result.Records, SyncedRecord{
			CreatorID: c.ID,
			Name:      c.Name,
			Action:    resolution.Action,
			RecordID:  resolution.RecordID,
		})

		logger.Debug("synced creator",
			zap.String("creator", c.Name),
			zap.String("action", string(resolution.Action)),
			zap.String("record_id", resolution.RecordID))
	}

	logger.Info("airtable sync complete",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated))

	return result, nil
}

func (s *Syncer) failure(logger *zap.Logger, result *SyncResult, c models.Creator, res Resolution, err error) error {
	err = fmt.Errorf("failed to %s creator %q in airtable: %w", res.Action, c.Name, err)

	logger.Error("airtable sync stopped",
		zap.String("creator", c.Name),
		zap.String("action", string(res.Action)),
		zap.Int("succeeded", result.Succeeded()),
		zap.Error(err))

	if result.Succeeded() == 0 {
		return err
	}

	return &PartialSyncError{
		Succeeded: result.Succeeded(),
		Creator:   c.Name,
		Err:       err,
	}
}
