package db

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_campaigns_and_phases",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_version_to_phases",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_phase_audit_table",
		Up:      migrationV3,
	},
}

func createVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(db *sql.DB) error {
	if err := createVersionTable(db); err != nil {
		return err
	}

	currentVersion, err := CurrentVersion(db)
	if err != nil {
		return err
	}

	logger := zap.L()
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		logger.Info("running migration",
			zap.Int("version", migration.Version),
			zap.String("name", migration.Name),
		)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the campaigns and phases tables
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS campaigns (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			start_date TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create campaigns table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS phases (
			id TEXT PRIMARY KEY,
			campaign_id TEXT NOT NULL,
			phase_number INTEGER NOT NULL CHECK(phase_number >= 1),
			start_date TEXT NOT NULL,
			duration_days INTEGER NOT NULL CHECK(duration_days >= 14),
			funding_goal TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (campaign_id) REFERENCES campaigns(id) ON DELETE CASCADE,
			UNIQUE (campaign_id, phase_number)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create phases table: %w", err)
	}

	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_phases_campaign ON phases(campaign_id)`)
	if err != nil {
		return fmt.Errorf("failed to create phases index: %w", err)
	}
	return nil
}

// migrationV2 adds the optimistic locking version to phases
func migrationV2(tx *sql.Tx) error {
	var count int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info('phases') WHERE name = 'version'").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to inspect phases table: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = tx.Exec(`ALTER TABLE phases ADD COLUMN version INTEGER NOT NULL DEFAULT 1`)
	if err != nil {
		return fmt.Errorf("failed to add version column to phases: %w", err)
	}
	return nil
}

// migrationV3 adds the phase audit trail
func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create phase_audit table: %w", err)
	}

	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_phase_audit_entity ON phase_audit(entity_type, entity_id)`)
	if err != nil {
		return fmt.Errorf("failed to create phase_audit index: %w", err)
	}
	return nil
}
