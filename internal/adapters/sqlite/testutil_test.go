// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/fundplan/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// Each :memory: connection is its own database, so the pool is pinned to one.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedCampaign inserts a test campaign and returns its ID.
func seedCampaign(t *testing.T, db *sql.DB, id, startDate string) string {
	t.Helper()
	if id == "" {
		id = "CAMP-001"
	}
	if startDate == "" {
		startDate = "2024-06-01"
	}
	_, err := db.Exec("INSERT INTO campaigns (id, title, start_date) VALUES (?, 'Test Campaign', ?)", id, startDate)
	if err != nil {
		t.Fatalf("failed to seed campaign: %v", err)
	}
	return id
}

// seedPhase inserts a test phase at version 1 and returns its ID.
func seedPhase(t *testing.T, db *sql.DB, id, campaignID string, number int, startDate string, days int, goal string) string {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO phases (id, campaign_id, phase_number, start_date, duration_days, funding_goal)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, campaignID, number, startDate, days, goal,
	)
	if err != nil {
		t.Fatalf("failed to seed phase: %v", err)
	}
	return id
}
