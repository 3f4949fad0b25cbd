// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the generate_pipeline_graph tool for agents
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/stacked/viz"
)

type VizHandlers struct {
	db *sql.DB
}

func NewVizHandlers(database *sql.DB) *VizHandlers {
	return &VizHandlers{db: database}
}

type GenerateGraphInput struct {
	Format string `json:"format,omitempty" jsonschema:"Output format: dot (default) or svg"`
}

type GenerateGraphOutput struct {
	Format string `json:"format"`
	Source string `json:"source"`
	Bytes  int    `json:"bytes"`
}

func (h *VizHandlers) GeneratePipelineGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	format := input.Format
	if format == "" {
		format = "dot"
	}

	var gvFormat graphviz.Format
	switch format {
	case "dot":
		gvFormat = graphviz.XDOT
	case "svg":
		gvFormat = graphviz.SVG
	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("unknown format: %s (valid formats: dot, svg)", format)
	}

	out, err := viz.NewGraphGenerator(h.db).GeneratePipelineGraph(ctx, gvFormat)
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, GenerateGraphOutput{Format: format, Source: string(out), Bytes: len(out)}, nil
}
