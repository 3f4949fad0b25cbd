// ABOUTME: Airtable CLI commands
// ABOUTME: Handles credential setup, connection tests, push, pull, CSV export, and sync status
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/sync"
)

// AirtableInitCommand stores Airtable credentials in the config file.
// Values not passed as flags are prompted for; the API key is read without echo.
func AirtableInitCommand(args []string) error {
	fs := flag.NewFlagSet("airtable init", flag.ContinueOnError)
	apiKey := fs.String("api-key", "", "Airtable personal access token")
	baseID := fs.String("base-id", "", "Airtable base ID (app...)")
	table := fs.String("table", "", "Table name (default: Creators)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Env values stay in the environment; only the file and typed values are saved.
	cfg, err := sync.LoadFileConfig()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	if *apiKey == "" {
		*apiKey, err = promptSecret(reader, "Airtable API key: ")
		if err != nil {
			return err
		}
	}
	if *baseID == "" {
		*baseID, err = promptLine(reader, fmt.Sprintf("Base ID [%s]: ", cfg.BaseID))
		if err != nil {
			return err
		}
	}
	if *table == "" {
		*table, err = promptLine(reader, fmt.Sprintf("Table name [%s]: ", cfg.TableName))
		if err != nil {
			return err
		}
	}

	if *apiKey != "" {
		cfg.APIKey = *apiKey
	}
	if *baseID != "" {
		cfg.BaseID = *baseID
	}
	if *table != "" {
		cfg.TableName = *table
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := sync.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Airtable config saved to %s\n", sync.ConfigPath())
	fmt.Println("Run 'stacked airtable test' to check the connection.")
	return nil
}

func promptSecret(reader *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(reader, label)
	}

	fmt.Print(label)
	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

func promptLine(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func loadAirtableConfig() (sync.Config, error) {
	cfg, err := sync.LoadConfig()
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w (run 'stacked airtable init' or set AIRTABLE_API_KEY and AIRTABLE_BASE_ID)", err)
	}
	return cfg, nil
}

// AirtableTestCommand checks that the configured table is reachable.
func AirtableTestCommand(syncer *sync.Syncer, args []string) error {
	fs := flag.NewFlagSet("airtable test", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAirtableConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Testing connection to %s/%s...\n", cfg.BaseID, cfg.TableName)
	if err := syncer.TestConnection(ctx, cfg); err != nil {
		return err
	}

	fmt.Println("✓ Connected to Airtable")
	return nil
}

// AirtablePushCommand syncs every local creator to Airtable.
func AirtablePushCommand(database *sql.DB, syncer *sync.Syncer, args []string) error {
	fs := flag.NewFlagSet("airtable push", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAirtableConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Syncing creators to %s/%s...\n", cfg.BaseID, cfg.TableName)
	result, err := sync.PushCreators(ctx, database, syncer, cfg)
	if result != nil {
		for _, rec := range result.Records {
			fmt.Printf("  ✓ %s %s (%s)\n", rec.Action, rec.Name, rec.RecordID)
		}
	}

	var partial *sync.PartialSyncError
	if errors.As(err, &partial) {
		fmt.Printf("\n⚠ Sync stopped after %d record(s); records already written were kept\n", partial.Succeeded)
	}
	if err != nil {
		return err
	}

	fmt.Printf("\n✓ Sync complete: %d created, %d updated\n", result.Created, result.Updated)
	return nil
}

// AirtablePullCommand imports Airtable records into the local store.
func AirtablePullCommand(database *sql.DB, syncer *sync.Syncer, args []string) error {
	fs := flag.NewFlagSet("airtable pull", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAirtableConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Importing creators from %s/%s...\n", cfg.BaseID, cfg.TableName)
	result, err := sync.ImportCreators(ctx, database, syncer, cfg)
	if err != nil {
		return fmt.Errorf("airtable import failed: %w", err)
	}

	fmt.Printf("\n✓ Fetched %d record(s): %d created, %d updated\n", result.Fetched, result.Created, result.Updated)
	for _, c := range result.Collisions {
		fmt.Printf("  ⚠ %s (%s) maps to ID %d, already used by %s; skipped\n", c.Name, c.RecordID, c.LocalID, c.Existing)
	}
	for _, s := range result.Skipped {
		fmt.Printf("  ⚠ skipped %s %q: %s\n", s.RecordID, s.Name, s.Reason)
	}
	return nil
}

// AirtableExportCommand writes all creators as CSV for Airtable's importer.
func AirtableExportCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("airtable export", flag.ContinueOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	creators, err := db.ListCreators(database)
	if err != nil {
		return err
	}

	csv := sync.ExportCSV(creators)

	if *output != "" {
		if err := os.WriteFile(*output, []byte(csv), 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Printf("✓ Exported %d creator(s) to %s\n", len(creators), *output)
		return nil
	}

	fmt.Println(csv)
	return nil
}

// AirtableTemplateCommand prints the base layout to create in Airtable.
func AirtableTemplateCommand(args []string) error {
	fs := flag.NewFlagSet("airtable template", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Print(sync.BaseTemplate())
	return nil
}

// AirtableStatusCommand shows the configuration and the last sync run.
func AirtableStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("airtable status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := sync.LoadConfig()
	if err != nil {
		return err
	}

	redacted := cfg.Redacted()
	fmt.Println("Airtable Configuration")
	fmt.Println("======================")
	fmt.Printf("  Config file: %s\n", sync.ConfigPath())
	fmt.Printf("  API key:     %s\n", orDash(redacted.APIKey))
	fmt.Printf("  Base ID:     %s\n", orDash(cfg.BaseID))
	fmt.Printf("  Table:       %s\n", orDash(cfg.TableName))
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  ⚠ %v\n", err)
	} else {
		fmt.Println("  ✓ Configured")
	}

	state, err := db.GetSyncState(database, db.ServiceAirtable)
	if err != nil {
		return err
	}

	fmt.Println("\nLast Sync")
	fmt.Println("=========")
	if state == nil {
		fmt.Println("  Never synced")
		return nil
	}

	fmt.Printf("  Status: %s\n", state.Status)
	if state.LastSyncTime != nil {
		fmt.Printf("  Time:   %s\n", state.LastSyncTime.Local().Format("2006-01-02 15:04:05"))
	}
	if state.LastSyncToken != nil {
		fmt.Printf("  Run:    %s\n", *state.LastSyncToken)
	}
	if state.ErrorMessage != nil {
		fmt.Printf("  Error:  %s\n", *state.ErrorMessage)
	}

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
