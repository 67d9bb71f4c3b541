// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// PhaseRepository defines the secondary port for phase persistence.
type PhaseRepository interface {
	// FetchPhases retrieves a campaign's phases ordered by phase number.
	FetchPhases(ctx context.Context, campaignID string) ([]*PhaseRecord, error)

	// CreatePhase persists a new phase; the store assigns ID and Version.
	CreatePhase(ctx context.Context, campaignID string, phase *PhaseRecord) (*PhaseRecord, error)

	// UpdatePhase replaces a phase. phase.Version is the version the caller last saw.
	UpdatePhase(ctx context.Context, phaseID string, phase *PhaseRecord) (*PhaseRecord, error)

	// DeletePhase removes a phase.
	DeletePhase(ctx context.Context, phaseID string) error
}

// Transactor is implemented by repositories that can apply a batch atomically.
// fn receives a repository bound to the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo PhaseRepository) error) error
}

// PhaseRecord represents a phase as stored in persistence.
type PhaseRecord struct {
	ID           string
	CampaignID   string
	PhaseNumber  int
	StartDate    string // YYYY-MM-DD
	DurationDays int
	FundingGoal  string // decimal string
	Version      int
	CreatedAt    string
	UpdatedAt    string
}

// CampaignRepository defines the secondary port for campaign persistence.
type CampaignRepository interface {
	// Create persists a new campaign.
	Create(ctx context.Context, campaign *CampaignRecord) error

	// GetByID retrieves a campaign by its ID.
	GetByID(ctx context.Context, id string) (*CampaignRecord, error)

	// List retrieves campaigns, newest first.
	List(ctx context.Context, filters CampaignFilters) ([]*CampaignRecord, error)

	// GetNextID returns the next available campaign ID.
	GetNextID(ctx context.Context) (string, error)
}

// CampaignRecord represents a campaign as stored in persistence.
type CampaignRecord struct {
	ID        string
	Title     string
	StartDate string // YYYY-MM-DD, earliest date any phase may begin
	CreatedAt string
	UpdatedAt string
}

// CampaignFilters contains filter options for querying campaigns.
type CampaignFilters struct {
	Limit int
}
