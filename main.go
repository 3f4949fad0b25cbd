// ABOUTME: Entry point for the stacked creator pipeline CLI and MCP server
// ABOUTME: Routes to crm, airtable, viz, tui, or mcp commands based on arguments
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/harperreed/stacked/cli"
	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/sync"
	"github.com/harperreed/stacked/tui"
	"github.com/harperreed/stacked/web"
)

const version = "0.2.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/stacked/stacked.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")
	verbose := flag.Bool("verbose", false, "Log debug output to stderr")

	flag.Usage = printUsage
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("stacked version %s\n", version)
		os.Exit(0)
	}

	// .env is optional; real environment variables win
	_ = godotenv.Load()

	logger := newLogger(*verbose)
	defer func() { _ = logger.Sync() }()

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	finalDBPath := getDatabasePath(*dbPath)
	database, err := db.OpenDatabase(finalDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	logger.Debug("opened database", zap.String("path", finalDBPath))

	if *initOnly {
		fmt.Printf("✓ Database initialized: %s\n", finalDBPath)
		return
	}

	syncer := sync.NewSyncer(sync.WithLogger(logger))

	if err := run(database, syncer, logger, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = database.Close()
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func run(database *sql.DB, syncer *sync.Syncer, logger *zap.Logger, args []string) error {
	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "mcp":
		return cli.MCPCommand(database, syncer, logger, version)

	case "crm":
		return runCRM(database, commandArgs)

	case "airtable":
		return runAirtable(database, syncer, commandArgs)

	case "viz":
		return runViz(database, commandArgs)

	case "web":
		return runWeb(database, logger, commandArgs)

	case "tui":
		p := tea.NewProgram(tui.NewModel(database, syncer), tea.WithAltScreen())
		_, err := p.Run()
		return err

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runCRM(database *sql.DB, args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("crm requires a subcommand")
	}

	subArgs := args[1:]
	switch args[0] {
	case "add-creator":
		return cli.AddCreatorCommand(database, subArgs)
	case "list-creators":
		return cli.ListCreatorsCommand(database, subArgs)
	case "update-creator":
		return cli.UpdateCreatorCommand(database, subArgs)
	case "advance-creator":
		return cli.AdvanceCreatorCommand(database, subArgs)
	case "delete-creator":
		return cli.DeleteCreatorCommand(database, subArgs)
	default:
		printUsage()
		return fmt.Errorf("unknown crm command: %s", args[0])
	}
}

func runAirtable(database *sql.DB, syncer *sync.Syncer, args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("airtable requires a subcommand")
	}

	subArgs := args[1:]
	switch args[0] {
	case "init":
		return cli.AirtableInitCommand(subArgs)
	case "test":
		return cli.AirtableTestCommand(syncer, subArgs)
	case "push":
		return cli.AirtablePushCommand(database, syncer, subArgs)
	case "pull":
		return cli.AirtablePullCommand(database, syncer, subArgs)
	case "export":
		return cli.AirtableExportCommand(database, subArgs)
	case "template":
		return cli.AirtableTemplateCommand(subArgs)
	case "status":
		return cli.AirtableStatusCommand(database, subArgs)
	default:
		printUsage()
		return fmt.Errorf("unknown airtable command: %s", args[0])
	}
}

func runViz(database *sql.DB, args []string) error {
	if len(args) == 0 {
		return cli.VizDashboardCommand(database, nil)
	}

	subArgs := args[1:]
	switch args[0] {
	case "dashboard":
		return cli.VizDashboardCommand(database, subArgs)
	case "graph":
		// "viz graph pipeline" is accepted for the only graph type
		if len(subArgs) > 0 && subArgs[0] == "pipeline" {
			subArgs = subArgs[1:]
		}
		return cli.VizGraphPipelineCommand(database, subArgs)
	default:
		printUsage()
		return fmt.Errorf("unknown viz command: %s", args[0])
	}
}

func runWeb(database *sql.DB, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	server, err := web.NewServer(database, logger)
	if err != nil {
		return err
	}
	return server.Start(*port)
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(xdg.DataHome, "stacked", "stacked.db")
}

func printUsage() {
	fmt.Printf(`stacked v%s - Creator pipeline with Airtable sync

USAGE:
  stacked [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/stacked/stacked.db)
  --init                 Initialize database and exit
  --verbose              Log debug output to stderr

COMMANDS:
  mcp                    Start MCP server for Claude Desktop
  crm                    Creator management commands
  airtable               Airtable sync commands
  viz                    Dashboard and graph commands
  tui                    Interactive terminal UI
  web                    Read-only dashboard on localhost (--port, default 8080)

CRM COMMANDS:
  stacked crm add-creator      Add a new creator
    --name <name>                Creator name (required, unique)
    --email <email>              Email address
    --category <category>        Category (Gaming, Music, ...)
    --phase-number <0-4>         Pipeline phase (default: 0)
    --cards-sold <n>             Cards sold
    --total-cards <n>            Total cards (default: 100)
    --card-price <price>         Price per card
    --velocity <v>               High, Medium, Low, or Pending
    --next-task <task>           Next task
    --launch-date <YYYY-MM-DD>   Launch date

  stacked crm list-creators    List creators
    --query <text>               Search by name or category
    --phase <n>                  Filter by phase number
    --limit <n>                  Max results (default: 50)

  stacked crm update-creator [flags] <id>   Update fields passed as flags
    Note: flags must come before the creator ID

  stacked crm advance-creator <id>   Move a creator to the next phase
  stacked crm delete-creator <id>    Delete a creator

AIRTABLE COMMANDS:
  stacked airtable init        Save API key, base ID, and table name
    --api-key <key>              Personal access token (prompted if omitted)
    --base-id <id>               Base ID (app...)
    --table <name>               Table name (default: Creators)
  stacked airtable test        Check the connection
  stacked airtable push        Create or update Airtable records from local creators
  stacked airtable pull        Import Airtable records into the local store
  stacked airtable export      Write creators as CSV
    --output <file>              Output file (default: stdout)
  stacked airtable template    Print the expected base layout
  stacked airtable status      Show configuration and last sync

  Environment: AIRTABLE_API_KEY, AIRTABLE_BASE_ID, AIRTABLE_TABLE_NAME override the config file.

VIZ COMMANDS:
  stacked viz dashboard        Pipeline overview
  stacked viz graph [pipeline] Pipeline graph
    --format <dot|svg|png>       Output format (default: dot)
    --output <file>              Output file (default: stdout)

EXAMPLES:
  stacked crm add-creator --name "Kurama" --category Gaming --card-price 100
  stacked airtable init --base-id appXXXXXXXXXXXXXX
  stacked airtable push
  stacked viz graph --format svg --output pipeline.svg

`, version)
}
