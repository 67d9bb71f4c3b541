package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/fundplan/internal/core/phase"
	"github.com/example/fundplan/internal/ports/primary"
)

// CampaignAdapter is a thin adapter that translates CLI operations to CampaignService calls.
type CampaignAdapter struct {
	service primary.CampaignService
	out     io.Writer
}

// NewCampaignAdapter creates a new CampaignAdapter with the given service.
func NewCampaignAdapter(service primary.CampaignService, out io.Writer) *CampaignAdapter {
	return &CampaignAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new campaign. An empty start means today.
func (a *CampaignAdapter) Create(ctx context.Context, title, start string) error {
	req := primary.CreateCampaignRequest{Title: title}
	if start != "" {
		d, err := phase.ParseDate(start)
		if err != nil {
			return err
		}
		req.StartDate = d
	}

	campaign, err := a.service.CreateCampaign(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created campaign %s: %s (starts %s)\n", colorizeID(campaign.ID), campaign.Title, campaign.StartDate)
	return nil
}

// List lists campaigns.
func (a *CampaignAdapter) List(ctx context.Context) error {
	campaigns, err := a.service.ListCampaigns(ctx)
	if err != nil {
		return err
	}

	if len(campaigns) == 0 {
		fmt.Fprintln(a.out, "No campaigns found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-12s %s\n", "ID", "START", "TITLE")
	fmt.Fprintln(a.out, rule)
	for _, c := range campaigns {
		fmt.Fprintf(a.out, "%-10s %-12s %s\n", c.ID, c.StartDate, c.Title)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays a campaign with its committed phases and totals.
func (a *CampaignAdapter) Show(ctx context.Context, campaignID string) error {
	campaign, err := a.service.GetCampaign(ctx, campaignID)
	if err != nil {
		return fmt.Errorf("failed to get campaign: %w", err)
	}
	draft, err := a.service.OpenDraft(ctx, campaignID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nCampaign: %s\n", colorizeID(campaign.ID))
	fmt.Fprintf(a.out, "Title:    %s\n", campaign.Title)
	fmt.Fprintf(a.out, "Starts:   %s\n", campaign.StartDate)
	renderPhases(a.out, draft.Phases())
	renderTotals(a.out, draft.Totals())
	fmt.Fprintf(a.out, "Next phase may start on %s\n\n", draft.SuggestedStartDate())
	return nil
}
