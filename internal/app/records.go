package app

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/example/fundplan/internal/core/phase"
	"github.com/example/fundplan/internal/ports/secondary"
)

func phaseToRecord(campaignID string, p phase.Phase) *secondary.PhaseRecord {
	return &secondary.PhaseRecord{
		ID:           p.ID,
		CampaignID:   campaignID,
		PhaseNumber:  p.Number,
		StartDate:    p.StartDate.String(),
		DurationDays: p.DurationDays,
		FundingGoal:  p.FundingGoal.String(),
		Version:      p.Version,
	}
}

func recordToPhase(r *secondary.PhaseRecord, key string) (phase.Phase, error) {
	start, err := phase.ParseDate(r.StartDate)
	if err != nil {
		return phase.Phase{}, fmt.Errorf("phase %s: %w", r.ID, err)
	}
	goal, err := decimal.NewFromString(r.FundingGoal)
	if err != nil {
		return phase.Phase{}, fmt.Errorf("phase %s: invalid funding goal %q: %w", r.ID, r.FundingGoal, err)
	}
	return phase.Phase{
		Key:          key,
		ID:           r.ID,
		Number:       r.PhaseNumber,
		StartDate:    start,
		DurationDays: r.DurationDays,
		FundingGoal:  goal,
		Version:      r.Version,
	}, nil
}
