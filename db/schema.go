// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation for creators and sync tracking
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS creators (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	phase TEXT NOT NULL DEFAULT '',
	phase_number INTEGER NOT NULL DEFAULT 0 CHECK(phase_number BETWEEN 0 AND 4),
	cards_sold INTEGER NOT NULL DEFAULT 0,
	total_cards INTEGER NOT NULL DEFAULT 100,
	card_price REAL NOT NULL DEFAULT 0,
	days_in_phase INTEGER NOT NULL DEFAULT 0,
	next_task TEXT NOT NULL DEFAULT '',
	sales_velocity TEXT NOT NULL DEFAULT 'Pending' CHECK(sales_velocity IN ('High', 'Medium', 'Low', 'Pending')),
	avatar TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	instagram TEXT NOT NULL DEFAULT '',
	twitter TEXT NOT NULL DEFAULT '',
	youtube TEXT NOT NULL DEFAULT '',
	tiktok TEXT NOT NULL DEFAULT '',
	launch_date TEXT NOT NULL DEFAULT '',
	target_audience TEXT NOT NULL DEFAULT '',
	content_plan TEXT NOT NULL DEFAULT '',
	assets TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL,
	last_updated TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_creators_phase_number ON creators(phase_number);

CREATE TABLE IF NOT EXISTS sync_state (
	service TEXT PRIMARY KEY,
	last_sync_time DATETIME,
	last_sync_token TEXT,
	status TEXT CHECK(status IN ('idle', 'syncing', 'error')),
	error_message TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sync_log (
	id TEXT PRIMARY KEY,
	source_service TEXT NOT NULL,
	source_id TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	metadata TEXT,
	UNIQUE(source_service, source_id)
);

CREATE INDEX IF NOT EXISTS idx_sync_log_source ON sync_log(source_service, source_id);
CREATE INDEX IF NOT EXISTS idx_sync_log_entity ON sync_log(entity_type, entity_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
