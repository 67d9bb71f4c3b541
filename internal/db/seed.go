package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with a demo campaign and its phases.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC().Format(time.RFC3339)

	campaigns := []struct{ id, title, start string }{
		{"CAMP-001", "Solar backpack", "2024-06-01"},
		{"CAMP-002", "Tabletop reprint", "2024-09-01"},
	}
	for _, c := range campaigns {
		if _, err := database.Exec(
			"INSERT INTO campaigns (id, title, start_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			c.id, c.title, c.start, now, now,
		); err != nil {
			return fmt.Errorf("seed campaigns: %w", err)
		}
	}

	phases := []struct {
		id, campaignID string
		number         int
		start          string
		days           int
		goal           string
	}{
		{"PHASE-001", "CAMP-001", 1, "2024-06-03", 30, "5000"},
		{"PHASE-002", "CAMP-001", 2, "2024-07-03", 14, "3000"},
		{"PHASE-003", "CAMP-002", 1, "2024-09-01", 21, "12000.50"},
	}
	for _, p := range phases {
		if _, err := database.Exec(
			`INSERT INTO phases (id, campaign_id, phase_number, start_date, duration_days, funding_goal, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.id, p.campaignID, p.number, p.start, p.days, p.goal, now, now,
		); err != nil {
			return fmt.Errorf("seed phases: %w", err)
		}
	}

	return nil
}
