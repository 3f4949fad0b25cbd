// ABOUTME: MCP resource handlers for exposing creator data
// ABOUTME: Provides read-only access to creators, the pipeline summary, and sync state via stacked:// URIs
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
)

const resourceScheme = "stacked://"

type ResourceHandlers struct {
	db *sql.DB
}

func NewResourceHandlers(database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")

	switch parts[0] {
	case "creators":
		if len(parts) == 1 || parts[1] == "" {
			return h.readAllCreators(uri)
		}
		return h.readCreator(uri, parts[1])

	case "pipeline":
		return h.readPipeline(uri)

	case "sync":
		return h.readSyncState(uri)

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readAllCreators(uri string) (*mcp.ReadResourceResult, error) {
	creators, err := db.ListCreators(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creators: %w", err)
	}

	out := make([]CreatorOutput, len(creators))
	for i := range creators {
		out[i] = creatorToOutput(&creators[i])
	}
	return jsonResource(uri, out)
}

func (h *ResourceHandlers) readCreator(uri, idStr string) (*mcp.ReadResourceResult, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid creator ID: %w", err)
	}

	creator, err := db.GetCreator(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creator: %w", err)
	}
	if creator == nil {
		return nil, fmt.Errorf("creator not found: %d", id)
	}

	return jsonResource(uri, creator)
}

func (h *ResourceHandlers) readPipeline(uri string) (*mcp.ReadResourceResult, error) {
	creators, err := db.ListCreators(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creators: %w", err)
	}

	return jsonResource(uri, models.Summarize(creators))
}

func (h *ResourceHandlers) readSyncState(uri string) (*mcp.ReadResourceResult, error) {
	states, err := db.GetAllSyncStates(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sync state: %w", err)
	}

	return jsonResource(uri, states)
}
