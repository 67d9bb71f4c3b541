package phase

import "time"

// EndDate returns start plus the given number of calendar days.
func EndDate(start Date, durationDays int) Date {
	return start.AddDays(durationDays)
}

// MinimumStartDate returns the earliest date a new phase may begin.
// With no phases this is campaignStart; otherwise it is the latest end date,
// since a new phase is appended after every existing one. Gaps are allowed.
func MinimumStartDate(existing []Phase, campaignStart Date) Date {
	earliest := campaignStart
	for _, p := range existing {
		earliest = MaxDate(earliest, p.EndDate())
	}
	return earliest
}

// MinimumStartDateFor returns the earliest start for the phase at position number.
// Only phases numbered before it constrain the start, so an edited phase never
// blocks itself. Later phases are guarded by the overlap and sequence rules.
func MinimumStartDateFor(existing []Phase, campaignStart Date, number int) Date {
	earliest := campaignStart
	for _, p := range existing {
		if p.Number >= number {
			continue
		}
		earliest = MaxDate(earliest, p.EndDate())
	}
	return earliest
}

// MaxDurationDays returns the longest duration a phase starting at start may
// have while still ending by LastDate.
func MaxDurationDays(start Date) int {
	if start.IsZero() {
		start = NewDate(1, time.January, 1)
	}
	return start.DaysUntil(LastDate)
}
