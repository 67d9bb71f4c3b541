package phase

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CheckSequence evaluates whether a phase list is a consistent campaign timeline.
// Rules:
// - numbers are exactly 1..N in slice order
// - every phase has a valid duration and a positive goal
// - no phase starts before campaignStart
// - intervals are disjoint and ordered by number
func CheckSequence(phases []Phase, campaignStart Date) GuardResult {
	for i, p := range phases {
		if p.Number != i+1 {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("phase at position %d has number %d (expected %d)", i+1, p.Number, i+1),
			}
		}
		if p.DurationDays < MinDurationDays {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("phase %d has duration %d days (minimum %d)", p.Number, p.DurationDays, MinDurationDays),
			}
		}
		if limit := MaxDurationDays(p.StartDate); p.DurationDays > limit {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("phase %d has duration %d days, ending after %s", p.Number, p.DurationDays, LastDate),
			}
		}
		if !p.FundingGoal.GreaterThan(decimal.Zero) {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("phase %d has non-positive funding goal %s", p.Number, p.FundingGoal),
			}
		}
		if !campaignStart.IsZero() && p.StartDate.Before(campaignStart) {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("phase %d starts %s, before campaign start %s", p.Number, p.StartDate, campaignStart),
			}
		}
		if i > 0 && p.StartDate.Before(phases[i-1].EndDate()) {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("phase %d starts %s, before phase %d ends %s", p.Number, p.StartDate, i, phases[i-1].EndDate()),
			}
		}
	}
	return GuardResult{Allowed: true}
}
