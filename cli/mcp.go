// ABOUTME: MCP server subcommand
// ABOUTME: Registers creator, Airtable, and graph tools plus resources and prompts, then serves on stdio
package cli

import (
	"context"
	"database/sql"
	"os"
	"os/signal"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/stacked/handlers"
	"github.com/harperreed/stacked/sync"
)

// NewMCPServer builds the server with every tool, resource, and prompt registered.
func NewMCPServer(database *sql.DB, syncer *sync.Syncer, version string) *mcp.Server {
	creatorHandlers := handlers.NewCreatorHandlers(database)
	airtableHandlers := handlers.NewAirtableHandlers(database, syncer)
	vizHandlers := handlers.NewVizHandlers(database)
	resourceHandlers := handlers.NewResourceHandlers(database)
	promptHandlers := handlers.NewPromptHandlers(database)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "stacked",
		Version: version,
	}, nil)

	// Creators
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_creator",
		Description: "Add a new creator to the card launch pipeline",
	}, creatorHandlers.AddCreator)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_creators",
		Description: "Search creators by name or category, optionally filtered by pipeline phase",
	}, creatorHandlers.FindCreators)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_creator",
		Description: "Update an existing creator's sales numbers, velocity, or details",
	}, creatorHandlers.UpdateCreator)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "advance_creator",
		Description: "Move a creator to the next pipeline phase and reset days in phase",
	}, creatorHandlers.AdvanceCreator)

	// Airtable
	mcp.AddTool(server, &mcp.Tool{
		Name:        "airtable_test_connection",
		Description: "Check that the configured Airtable table is reachable",
	}, airtableHandlers.TestConnection)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "airtable_sync_creators",
		Description: "Push every local creator to Airtable, creating or updating records by name",
	}, airtableHandlers.SyncCreators)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "airtable_pull_creators",
		Description: "Import every Airtable record into the local creator store",
	}, airtableHandlers.PullCreators)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "airtable_export_csv",
		Description: "Export all creators as CSV ready for Airtable's importer",
	}, airtableHandlers.ExportCSV)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "airtable_base_template",
		Description: "Describe the Airtable base layout the sync expects",
	}, airtableHandlers.BaseTemplate)

	// Visualization
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_pipeline_graph",
		Description: "Render the creator pipeline as a GraphViz graph (dot or svg)",
	}, vizHandlers.GeneratePipelineGraph)

	// Resources
	server.AddResource(&mcp.Resource{
		Name:        "creators",
		Title:       "All creators",
		Description: "Every creator in the local store",
		MIMEType:    "application/json",
		URI:         "stacked://creators",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "creator",
		Title:       "Creator",
		Description: "A single creator by ID",
		MIMEType:    "application/json",
		URITemplate: "stacked://creators/{id}",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		Name:        "pipeline",
		Title:       "Pipeline summary",
		Description: "Per-phase creator counts, cards sold, and revenue",
		MIMEType:    "application/json",
		URI:         "stacked://pipeline",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		Name:        "sync",
		Title:       "Sync state",
		Description: "Status of the last sync run per service",
		MIMEType:    "application/json",
		URI:         "stacked://sync",
	}, resourceHandlers.ReadResource)

	// Prompts
	creatorArg := []*mcp.PromptArgument{
		{Name: "creator_id", Description: "Creator ID", Required: true},
	}

	server.AddPrompt(&mcp.Prompt{
		Name:        "creator-summary",
		Description: "Summarize a creator's pipeline status and suggest a next action",
		Arguments:   creatorArg,
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "pipeline-review",
		Description: "Review the whole pipeline and flag stalled or slow creators",
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "launch-plan",
		Description: "Draft a launch plan to move a creator to the next phase",
		Arguments:   creatorArg,
	}, promptHandlers.GetPrompt)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(database *sql.DB, syncer *sync.Syncer, logger *zap.Logger, version string) error {
	// stdout carries the protocol; the logger writes to stderr
	logger.Info("starting MCP server", zap.String("version", version))

	server := NewMCPServer(database, syncer, version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return server.Run(ctx, &mcp.StdioTransport{})
}
