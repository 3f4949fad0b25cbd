// ABOUTME: Opens the stacked sqlite store
// ABOUTME: Creates the parent directory, sets WAL, busy timeout, and foreign keys, then applies the schema
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// storeDSN enables WAL, waits up to five seconds on a locked file, and
// enforces foreign keys.
const storeDSN = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// OpenDatabase opens the creator store at path and applies the schema.
// A single connection is used so the TUI, web, and MCP paths never race on the file.
func OpenDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	database, err := sql.Open("sqlite3", path+storeDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	database.SetMaxOpenConns(1)

	if err := InitSchema(database); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}
