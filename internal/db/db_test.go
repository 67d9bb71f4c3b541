package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openRaw(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func columnExists(t *testing.T, conn *sql.DB, table, column string) bool {
	t.Helper()
	var count int
	err := conn.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&count)
	if err != nil {
		t.Fatalf("failed to inspect %s: %v", table, err)
	}
	return count > 0
}

func TestInitSchema_FreshInstall(t *testing.T) {
	conn := openRaw(t)

	if err := InitSchema(conn); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	version, err := CurrentVersion(conn)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("version = %d, want %d", version, len(migrations))
	}
	for _, table := range []string{"campaigns", "phases", "phase_audit"} {
		if !columnExists(t, conn, table, "id") {
			t.Errorf("table %s missing", table)
		}
	}

	// running again is a no-op
	if err := InitSchema(conn); err != nil {
		t.Fatalf("second InitSchema failed: %v", err)
	}
}

func TestInitSchema_UpgradesUnversionedDatabase(t *testing.T) {
	conn := openRaw(t)
	tx, err := conn.Begin()
	if err != nil {
		t.Fatal(err)
	}
	if err := migrationV1(tx); err != nil {
		t.Fatalf("migrationV1 failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`INSERT INTO campaigns (id, title, start_date) VALUES ('CAMP-001', 'Old', '2024-01-01')`); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`INSERT INTO phases (id, campaign_id, phase_number, start_date, duration_days, funding_goal)
		VALUES ('PHASE-001', 'CAMP-001', 1, '2024-01-01', 14, '10')`); err != nil {
		t.Fatal(err)
	}

	if err := InitSchema(conn); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	if !columnExists(t, conn, "phases", "version") {
		t.Error("expected phases.version after upgrade")
	}
	if !columnExists(t, conn, "phase_audit", "entity_id") {
		t.Error("expected phase_audit after upgrade")
	}
	var version int
	if err := conn.QueryRow("SELECT version FROM phases WHERE id = 'PHASE-001'").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Errorf("existing phase version = %d, want 1", version)
	}
}

func TestSchema_Constraints(t *testing.T) {
	conn := openRaw(t)
	if _, err := conn.Exec(GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if err := SeedFixtures(conn); err != nil {
		t.Fatalf("SeedFixtures failed: %v", err)
	}

	tests := []struct {
		name  string
		query string
	}{
		{
			name: "duration below minimum",
			query: `INSERT INTO phases (id, campaign_id, phase_number, start_date, duration_days, funding_goal)
				VALUES ('PHASE-100', 'CAMP-001', 3, '2024-08-01', 13, '1')`,
		},
		{
			name: "duplicate phase number",
			query: `INSERT INTO phases (id, campaign_id, phase_number, start_date, duration_days, funding_goal)
				VALUES ('PHASE-100', 'CAMP-001', 2, '2024-08-01', 14, '1')`,
		},
		{
			name:  "unknown audit action",
			query: `INSERT INTO phase_audit (entity_type, entity_id, action) VALUES ('phase', 'PHASE-001', 'rename')`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := conn.Exec(tt.query); err == nil {
				t.Error("expected constraint violation")
			}
		})
	}
}

func TestOpen_Memory(t *testing.T) {
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	var fk int
	if err := conn.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}
