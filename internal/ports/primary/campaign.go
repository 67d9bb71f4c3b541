package primary

import (
	"context"

	"github.com/example/fundplan/internal/core/phase"
)

// CampaignService defines the primary port for campaign operations.
type CampaignService interface {
	// CreateCampaign creates a new campaign with no phases.
	CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*Campaign, error)

	// GetCampaign retrieves a campaign by ID.
	GetCampaign(ctx context.Context, campaignID string) (*Campaign, error)

	// ListCampaigns lists campaigns.
	ListCampaigns(ctx context.Context) ([]*Campaign, error)

	// OpenDraft loads a campaign's phases into a new editing session.
	OpenDraft(ctx context.Context, campaignID string) (DraftSession, error)

	// PhaseHistory returns the audit trail of a persisted phase.
	PhaseHistory(ctx context.Context, phaseID string) ([]*AuditEntry, error)
}

// CreateCampaignRequest contains parameters for creating a campaign.
type CreateCampaignRequest struct {
	Title     string
	StartDate phase.Date
}

// Campaign represents a campaign entity at the port boundary.
type Campaign struct {
	ID        string
	Title     string
	StartDate phase.Date
	CreatedAt string
}

// AuditEntry is one change in a phase's history.
type AuditEntry struct {
	ActorID   string
	Action    string
	FieldName string
	OldValue  string
	NewValue  string
	CreatedAt string
}
