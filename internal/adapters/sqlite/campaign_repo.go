package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/fundplan/internal/ports/secondary"
)

// CampaignRepository implements secondary.CampaignRepository with SQLite.
type CampaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new SQLite campaign repository.
func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create persists a new campaign.
func (r *CampaignRepository) Create(ctx context.Context, campaign *secondary.CampaignRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO campaigns (id, title, start_date) VALUES (?, ?, ?)",
		campaign.ID, campaign.Title, campaign.StartDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetByID retrieves a campaign by its ID.
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*secondary.CampaignRecord, error) {
	var (
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.CampaignRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, start_date, created_at, updated_at FROM campaigns WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Title, &record.StartDate, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("campaign %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// List retrieves campaigns, newest first.
func (r *CampaignRepository) List(ctx context.Context, filters secondary.CampaignFilters) ([]*secondary.CampaignRecord, error) {
	query := "SELECT id, title, start_date, created_at, updated_at FROM campaigns ORDER BY created_at DESC, id DESC"
	args := []any{}

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*secondary.CampaignRecord
	for rows.Next() {
		var (
			createdAt time.Time
			updatedAt time.Time
		)
		record := &secondary.CampaignRecord{}
		if err := rows.Scan(&record.ID, &record.Title, &record.StartDate, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		record.UpdatedAt = updatedAt.Format(time.RFC3339)
		campaigns = append(campaigns, record)
	}

	return campaigns, rows.Err()
}

// GetNextID returns the next available campaign ID.
func (r *CampaignRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM campaigns",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next campaign ID: %w", err)
	}

	return fmt.Sprintf("CAMP-%03d", maxID+1), nil
}

// Ensure CampaignRepository implements the interface
var _ secondary.CampaignRepository = (*CampaignRepository)(nil)
