package phase

import "github.com/shopspring/decimal"

// Span is the closed display range from the first start to the last end.
type Span struct {
	Start Date
	End   Date
}

// Days returns the number of calendar days covered by the span.
func (s Span) Days() int { return s.Start.DaysUntil(s.End) }

// Totals holds the campaign-wide figures derived from a phase list.
type Totals struct {
	PhaseCount        int
	TotalFundingGoal  decimal.Decimal
	TotalDurationDays int
	// Span is nil when there are no phases.
	Span *Span
}

// Clone returns a copy that shares no memory with t.
func (t Totals) Clone() Totals {
	if t.Span != nil {
		span := *t.Span
		t.Span = &span
	}
	return t
}

// ComputeTotals reduces a phase list to its aggregates.
// TotalDurationDays sums each phase's duration and ignores gaps between phases.
func ComputeTotals(phases []Phase) Totals {
	totals := Totals{
		PhaseCount:       len(phases),
		TotalFundingGoal: decimal.Zero,
	}
	for i, p := range phases {
		totals.TotalFundingGoal = totals.TotalFundingGoal.Add(p.FundingGoal)
		totals.TotalDurationDays += p.DurationDays
		if i == 0 {
			totals.Span = &Span{Start: p.StartDate, End: p.EndDate()}
			continue
		}
		totals.Span.Start = MinDate(totals.Span.Start, p.StartDate)
		totals.Span.End = MaxDate(totals.Span.End, p.EndDate())
	}
	return totals
}
