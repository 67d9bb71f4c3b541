// Package phase contains the pure business logic for campaign funding phases.
// Nothing in this package performs I/O; callers pre-fetch every input.
package phase

import (
	"github.com/shopspring/decimal"
)

// MinDurationDays is the business minimum length of a funding phase.
const MinDurationDays = 14

// Phase is one bounded funding window of a campaign.
type Phase struct {
	Key          string // session-local handle, stable across edits
	ID           string // persistence id; empty until first commit
	Number       int    // 1-based position in the campaign
	StartDate    Date
	DurationDays int
	FundingGoal  decimal.Decimal
	Version      int // persistence row version; 0 for unsaved phases
}

// EndDate is the exclusive end of the phase interval.
func (p Phase) EndDate() Date {
	return EndDate(p.StartDate, p.DurationDays)
}

// Interval returns the half-open interval [StartDate, EndDate).
func (p Phase) Interval() Interval {
	return Interval{Start: p.StartDate, End: p.EndDate()}
}

// Saved reports whether the phase has been persisted.
func (p Phase) Saved() bool { return p.ID != "" }

// SameFields reports whether two phases carry identical user-editable values.
func (p Phase) SameFields(other Phase) bool {
	return p.Number == other.Number &&
		p.StartDate.Equal(other.StartDate) &&
		p.DurationDays == other.DurationDays &&
		p.FundingGoal.Equal(other.FundingGoal)
}

// Interval is a half-open date range [Start, End).
type Interval struct {
	Start Date
	End   Date
}

// Overlaps reports whether two half-open intervals share at least one day.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Input carries the user-supplied fields of a phase. Nil means "not provided".
type Input struct {
	StartDate    *Date
	DurationDays *int
	FundingGoal  *decimal.Decimal
}

// MergeInto overlays the provided fields onto a copy of base.
func (in Input) MergeInto(base Phase) Phase {
	merged := base
	if in.StartDate != nil {
		merged.StartDate = *in.StartDate
	}
	if in.DurationDays != nil {
		merged.DurationDays = *in.DurationDays
	}
	if in.FundingGoal != nil {
		merged.FundingGoal = *in.FundingGoal
	}
	return merged
}

// InputOf returns a fully populated Input holding the phase's current values.
func InputOf(p Phase) Input {
	start := p.StartDate
	duration := p.DurationDays
	goal := p.FundingGoal
	return Input{StartDate: &start, DurationDays: &duration, FundingGoal: &goal}
}

// Empty reports whether no field is provided.
func (in Input) Empty() bool {
	return in.StartDate == nil && in.DurationDays == nil && in.FundingGoal == nil
}

// Clone returns a deep copy of the phase slice.
func Clone(phases []Phase) []Phase {
	if phases == nil {
		return nil
	}
	out := make([]Phase, len(phases))
	copy(out, phases)
	return out
}

// Renumber assigns contiguous numbers 1..N in slice order.
func Renumber(phases []Phase) {
	for i := range phases {
		phases[i].Number = i + 1
	}
}
