package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests use it via
// GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a repository
// that references a missing column fails with "no such column" immediately.
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Campaigns
CREATE TABLE IF NOT EXISTS campaigns (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	start_date TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Phases (sequential fundraising windows of a campaign)
CREATE TABLE IF NOT EXISTS phases (
	id TEXT PRIMARY KEY,
	campaign_id TEXT NOT NULL,
	phase_number INTEGER NOT NULL CHECK(phase_number >= 1),
	start_date TEXT NOT NULL,
	duration_days INTEGER NOT NULL CHECK(duration_days >= 14),
	funding_goal TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (campaign_id) REFERENCES campaigns(id) ON DELETE CASCADE,
	UNIQUE (campaign_id, phase_number)
);

CREATE INDEX IF NOT EXISTS idx_phases_campaign ON phases(campaign_id);

-- Phase audit trail
CREATE TABLE IF NOT EXISTS phase_audit (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	actor_id TEXT,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_phase_audit_entity ON phase_audit(entity_type, entity_id);
`

// InitSchema creates the database schema or upgrades an existing one.
func InitSchema(db *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}
	if tableCount > 0 {
		return RunMigrations(db)
	}

	// No schema_version: a database from before versioning still has phases
	var oldTableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = 'phases'").Scan(&oldTableCount)
	if err != nil {
		return err
	}
	if oldTableCount > 0 {
		return RunMigrations(db)
	}

	// Completely fresh install - create modern schema directly
	// and mark every migration as applied
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
