// ABOUTME: Migration utility that loads a JSON export of creators into the stacked database.
// ABOUTME: Provides dry-run and backup capabilities; existing names are left untouched.

package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
)

func main() {
	dbPath := flag.String("db", "", "Path to database file (required)")
	input := flag.String("input", "", "JSON file holding an array of creators (required)")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Create backup before migration")
	flag.Parse()

	if *dbPath == "" || *input == "" {
		log.Fatal("Error: -db and -input flags are required")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	if *backup && !*dryRun {
		if err := backupDatabase(*dbPath); err != nil {
			log.Fatalf("Backup failed: %v", err)
		}
	}

	database, err := db.OpenDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = database.Close() }()

	report, err := migrate(database, data, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	prefix := ""
	if *dryRun {
		prefix = "[DRY RUN] "
	}
	for _, line := range report.Lines {
		log.Printf("%s%s", prefix, line)
	}
	log.Printf("%s%d imported, %d skipped", prefix, report.Imported, report.Skipped)
}

type migrationReport struct {
	Imported int
	Skipped  int
	Lines    []string
}

func backupDatabase(dbPath string) error {
	input, err := os.ReadFile(dbPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read database: %w", err)
	}

	backupPath := fmt.Sprintf("%s.backup.%s", dbPath, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backupPath, input, 0644); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	log.Printf("Backup created: %s", backupPath)
	return nil
}

// migrate inserts each creator whose name is not stored yet. The incoming id
// is kept when free, otherwise a new one is assigned.
func migrate(database *sql.DB, data []byte, dryRun bool) (*migrationReport, error) {
	var creators []models.Creator
	if err := json.Unmarshal(data, &creators); err != nil {
		return nil, fmt.Errorf("failed to decode creators: %w", err)
	}

	report := &migrationReport{}
	for i := range creators {
		c := &creators[i]

		existing, err := db.FindCreatorByName(database, c.Name)
		if err != nil {
			return report, err
		}
		if existing != nil {
			report.Skipped++
			report.Lines = append(report.Lines, fmt.Sprintf("skip %q: already stored as ID %d", c.Name, existing.ID))
			continue
		}

		if c.ID != 0 {
			holder, err := db.GetCreator(database, c.ID)
			if err != nil {
				return report, err
			}
			if holder != nil {
				c.ID = 0
			}
		}

		if dryRun {
			report.Imported++
			report.Lines = append(report.Lines, fmt.Sprintf("would import %q", c.Name))
			continue
		}

		err = db.CreateCreator(database, c)
		if errors.Is(err, models.ErrInvalidCreator) {
			report.Skipped++
			report.Lines = append(report.Lines, fmt.Sprintf("skip %q: %v", c.Name, err))
			continue
		}
		if err != nil {
			return report, fmt.Errorf("failed to import %q: %w", c.Name, err)
		}
		report.Imported++
		report.Lines = append(report.Lines, fmt.Sprintf("imported %q as ID %d", c.Name, c.ID))
	}

	return report, nil
}
