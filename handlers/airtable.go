// ABOUTME: Airtable MCP tool handlers
// ABOUTME: Connection test, push, pull, CSV export, and base template tools; config is loaded per call
package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/sync"
)

type AirtableHandlers struct {
	db         *sql.DB
	syncer     *sync.Syncer
	loadConfig func() (sync.Config, error)
}

func NewAirtableHandlers(database *sql.DB, syncer *sync.Syncer) *AirtableHandlers {
	return &AirtableHandlers{db: database, syncer: syncer, loadConfig: sync.LoadConfig}
}

type EmptyInput struct{}

type ConnectionOutput struct {
	Connected bool   `json:"connected"`
	BaseID    string `json:"base_id"`
	TableName string `json:"table_name"`
	Error     string `json:"error,omitempty"`
}

// TestConnection reports reachability as data so agents can explain failures.
func (h *AirtableHandlers) TestConnection(ctx context.Context, request *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ConnectionOutput, error) {
	cfg, err := h.loadConfig()
	if err != nil {
		return nil, ConnectionOutput{}, err
	}

	out := ConnectionOutput{BaseID: cfg.BaseID, TableName: cfg.TableName}
	if err := h.syncer.TestConnection(ctx, cfg); err != nil {
		out.Error = err.Error()
		return nil, out, nil
	}

	out.Connected = true
	return nil, out, nil
}

type SyncedRecordOutput struct {
	CreatorID int64  `json:"creator_id"`
	Name      string `json:"name"`
	Action    string `json:"action"`
	RecordID  string `json:"record_id"`
}

type SyncCreatorsOutput struct {
	RunID   string               `json:"run_id"`
	Created int                  `json:"created"`
	Updated int                  `json:"updated"`
	Records []SyncedRecordOutput `json:"records"`
	Partial bool                 `json:"partial"`
	Error   string               `json:"error,omitempty"`
}

// SyncCreators pushes every local creator. A partial sync returns the
// written records along with the error text instead of failing the call.
func (h *AirtableHandlers) SyncCreators(ctx context.Context, request *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, SyncCreatorsOutput, error) {
	cfg, err := h.loadConfig()
	if err != nil {
		return nil, SyncCreatorsOutput{}, err
	}

	result, err := sync.PushCreators(ctx, h.db, h.syncer, cfg)
	if result == nil {
		return nil, SyncCreatorsOutput{}, err
	}
	if err != nil && !errors.Is(err, sync.ErrPartialSync) {
		return nil, SyncCreatorsOutput{}, err
	}

	out := SyncCreatorsOutput{
		RunID:   result.RunID,
		Created: result.Created,
		Updated: result.Updated,
		Records: make([]SyncedRecordOutput, len(result.Records)),
	}
	for i, rec := range result.Records {
		out.Records[i] = SyncedRecordOutput{
			CreatorID: rec.CreatorID,
			Name:      rec.Name,
			Action:    string(rec.Action),
			RecordID:  rec.RecordID,
		}
	}
	if err != nil {
		out.Partial = true
		out.Error = err.Error()
	}

	return nil, out, nil
}

type CollisionOutput struct {
	RecordID string `json:"record_id"`
	Name     string `json:"name"`
	LocalID  int64  `json:"local_id"`
	Existing string `json:"existing"`
}

type SkippedOutput struct {
	RecordID string `json:"record_id"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

type PullCreatorsOutput struct {
	RunID      string            `json:"run_id"`
	Fetched    int               `json:"fetched"`
	Created    int               `json:"created"`
	Updated    int               `json:"updated"`
	Collisions []CollisionOutput `json:"collisions"`
	Skipped    []SkippedOutput   `json:"skipped"`
}

func (h *AirtableHandlers) PullCreators(ctx context.Context, request *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, PullCreatorsOutput, error) {
	cfg, err := h.loadConfig()
	if err != nil {
		return nil, PullCreatorsOutput{}, err
	}

	result, err := sync.ImportCreators(ctx, h.db, h.syncer, cfg)
	if err != nil {
		return nil, PullCreatorsOutput{}, fmt.Errorf("airtable import failed: %w", err)
	}

	out := PullCreatorsOutput{
		RunID:      result.RunID,
		Fetched:    result.Fetched,
		Created:    result.Created,
		Updated:    result.Updated,
		Collisions: make([]CollisionOutput, len(result.Collisions)),
		Skipped:    make([]SkippedOutput, len(result.Skipped)),
	}
	for i, c := range result.Collisions {
		out.Collisions[i] = CollisionOutput{RecordID: c.RecordID, Name: c.Name, LocalID: c.LocalID, Existing: c.Existing}
	}
	for i, s := range result.Skipped {
		out.Skipped[i] = SkippedOutput{RecordID: s.RecordID, Name: s.Name, Reason: s.Reason}
	}

	return nil, out, nil
}

type ExportCSVOutput struct {
	Rows int    `json:"rows"`
	CSV  string `json:"csv"`
}

func (h *AirtableHandlers) ExportCSV(_ context.Context, request *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ExportCSVOutput, error) {
	creators, err := db.ListCreators(h.db)
	if err != nil {
		return nil, ExportCSVOutput{}, err
	}

	return nil, ExportCSVOutput{Rows: len(creators), CSV: sync.ExportCSV(creators)}, nil
}

type TemplateOutput struct {
	Template string   `json:"template"`
	Fields   []string `json:"fields"`
}

func (h *AirtableHandlers) BaseTemplate(_ context.Context, request *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, TemplateOutput, error) {
	return nil, TemplateOutput{Template: sync.BaseTemplate(), Fields: sync.CSVHeaders}, nil
}
