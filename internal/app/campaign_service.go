package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/fundplan/internal/core/phase"
	"github.com/example/fundplan/internal/ports/primary"
	"github.com/example/fundplan/internal/ports/secondary"
)

// CampaignServiceImpl implements the CampaignService interface.
type CampaignServiceImpl struct {
	campaignRepo secondary.CampaignRepository
	phaseRepo    secondary.PhaseRepository
	auditReader  secondary.AuditReader
	executor     CommitExecutor
	draftOpts    []DraftOption
	today        func() phase.Date
}

// NewCampaignService creates a new CampaignService with injected dependencies.
// auditReader is optional - if nil, PhaseHistory returns no entries.
func NewCampaignService(
	campaignRepo secondary.CampaignRepository,
	phaseRepo secondary.PhaseRepository,
	auditReader secondary.AuditReader,
	executor CommitExecutor,
	draftOpts ...DraftOption,
) *CampaignServiceImpl {
	return &CampaignServiceImpl{
		campaignRepo: campaignRepo,
		phaseRepo:    phaseRepo,
		auditReader:  auditReader,
		executor:     executor,
		draftOpts:    draftOpts,
		today:        phase.Today,
	}
}

// CreateCampaign creates a new campaign. A zero start date means today.
func (s *CampaignServiceImpl) CreateCampaign(ctx context.Context, req primary.CreateCampaignRequest) (*primary.Campaign, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("campaign title is required")
	}
	start := req.StartDate
	if start.IsZero() {
		start = s.today()
	}

	nextID, err := s.campaignRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate campaign ID: %w", err)
	}

	record := &secondary.CampaignRecord{
		ID:        nextID,
		Title:     title,
		StartDate: start.String(),
	}
	if err := s.campaignRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	created, err := s.campaignRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created campaign: %w", err)
	}
	return recordToCampaign(created)
}

// GetCampaign retrieves a campaign by ID.
func (s *CampaignServiceImpl) GetCampaign(ctx context.Context, campaignID string) (*primary.Campaign, error) {
	record, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return recordToCampaign(record)
}

// ListCampaigns lists campaigns.
func (s *CampaignServiceImpl) ListCampaigns(ctx context.Context) ([]*primary.Campaign, error) {
	records, err := s.campaignRepo.List(ctx, secondary.CampaignFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	campaigns := make([]*primary.Campaign, 0, len(records))
	for _, r := range records {
		c, err := recordToCampaign(r)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

// OpenDraft loads a campaign's phases into a new editing session.
func (s *CampaignServiceImpl) OpenDraft(ctx context.Context, campaignID string) (primary.DraftSession, error) {
	campaign, err := s.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	draft := NewDraftController(campaign.ID, campaign.StartDate, s.phaseRepo, s.executor, s.draftOpts...)
	if err := draft.Load(ctx); err != nil {
		return nil, err
	}
	return draft, nil
}

// PhaseHistory returns the audit trail of a persisted phase.
func (s *CampaignServiceImpl) PhaseHistory(ctx context.Context, phaseID string) ([]*primary.AuditEntry, error) {
	if s.auditReader == nil {
		return nil, nil
	}
	records, err := s.auditReader.ListForEntity(ctx, phase.EntityPhase, phaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to read phase history: %w", err)
	}

	entries := make([]*primary.AuditEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.AuditEntry{
			ActorID:   r.ActorID,
			Action:    r.Action,
			FieldName: r.FieldName,
			OldValue:  r.OldValue,
			NewValue:  r.NewValue,
			CreatedAt: r.CreatedAt,
		}
	}
	return entries, nil
}

// Helper methods

func recordToCampaign(r *secondary.CampaignRecord) (*primary.Campaign, error) {
	start, err := phase.ParseDate(r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("campaign %s: %w", r.ID, err)
	}
	return &primary.Campaign{
		ID:        r.ID,
		Title:     r.Title,
		StartDate: start,
		CreatedAt: r.CreatedAt,
	}, nil
}

// Ensure CampaignServiceImpl implements the interface
var _ primary.CampaignService = (*CampaignServiceImpl)(nil)
