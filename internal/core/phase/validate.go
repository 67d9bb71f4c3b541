package phase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ViolationKind identifies a broken phase rule.
type ViolationKind string

// Violation kinds, in the order the validator reports them.
const (
	MissingRequiredField ViolationKind = "MissingRequiredField"
	DurationTooShort     ViolationKind = "DurationTooShort"
	DurationTooLong      ViolationKind = "DurationTooLong"
	InvalidFundingGoal   ViolationKind = "InvalidFundingGoal"
	StartDateTooEarly    ViolationKind = "StartDateTooEarly"
	OverlappingPhase     ViolationKind = "OverlappingPhase"
	OutOfSequence        ViolationKind = "OutOfSequence"
)

// Field names used in violations.
const (
	FieldStartDate    = "startDate"
	FieldDurationDays = "durationDays"
	FieldFundingGoal  = "fundingGoal"
)

// Violation is one broken rule with a human readable message.
type Violation struct {
	Kind    ViolationKind
	Field   string
	Message string
	// PhaseNumber is the conflicting sibling for overlap and sequence violations.
	PhaseNumber int
}

// Result is the outcome of validating a candidate phase.
// An empty violation list means the candidate is acceptable.
type Result struct {
	Violations []Violation
}

// Ok reports whether no rule was violated.
func (r Result) Ok() bool { return len(r.Violations) == 0 }

// Kinds returns the violated kinds in report order.
func (r Result) Kinds() []ViolationKind {
	kinds := make([]ViolationKind, len(r.Violations))
	for i, v := range r.Violations {
		kinds[i] = v.Kind
	}
	return kinds
}

// Has reports whether the given kind was violated.
func (r Result) Has(kind ViolationKind) bool {
	for _, v := range r.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// Error converts the result to an error if any rule was violated.
func (r Result) Error() error {
	if r.Ok() {
		return nil
	}
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.Message
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Rules holds the tunable business limits.
type Rules struct {
	MinDurationDays int
}

// DefaultRules returns the standard limits.
func DefaultRules() Rules {
	return Rules{MinDurationDays: MinDurationDays}
}

// Candidate is a phase proposed for addition or replacement.
type Candidate struct {
	Number int
	// ExcludeKey names the phase being edited; it is skipped among siblings.
	ExcludeKey string
	Input      Input
}

// Validate checks a candidate against the default rules.
func Validate(c Candidate, siblings []Phase, minimumStart Date) Result {
	return ValidateWith(DefaultRules(), c, siblings, minimumStart)
}

// ValidateWith checks a candidate against every rule and collects all violations.
// Rules:
// - start date, duration and funding goal must be provided
// - duration must be at least rules.MinDurationDays
// - the phase must end by LastDate
// - funding goal must be strictly positive
// - start date must not precede minimumStart
// - [start, end) must not intersect any sibling
// - the candidate must not start at or after a later-numbered sibling
func ValidateWith(rules Rules, c Candidate, siblings []Phase, minimumStart Date) Result {
	if rules.MinDurationDays < MinDurationDays {
		rules.MinDurationDays = MinDurationDays
	}

	var violations []Violation
	in := c.Input

	if in.StartDate == nil || in.StartDate.IsZero() {
		violations = append(violations, missing(FieldStartDate))
	}
	if in.DurationDays == nil {
		violations = append(violations, missing(FieldDurationDays))
	}
	if in.FundingGoal == nil {
		violations = append(violations, missing(FieldFundingGoal))
	}

	if in.DurationDays != nil && *in.DurationDays < rules.MinDurationDays {
		violations = append(violations, Violation{
			Kind:    DurationTooShort,
			Field:   FieldDurationDays,
			Message: fmt.Sprintf("duration must be at least %d days (got %d)", rules.MinDurationDays, *in.DurationDays),
		})
	}

	hasStart := in.StartDate != nil && !in.StartDate.IsZero()
	inRange := in.DurationDays != nil && *in.DurationDays > 0
	if in.DurationDays != nil {
		var start Date
		if hasStart {
			start = *in.StartDate
		}
		if limit := MaxDurationDays(start); *in.DurationDays > limit {
			inRange = false
			violations = append(violations, Violation{
				Kind:    DurationTooLong,
				Field:   FieldDurationDays,
				Message: fmt.Sprintf("duration of %d days ends after %s (at most %d days)", *in.DurationDays, LastDate, limit),
			})
		}
	}

	if in.FundingGoal != nil && !in.FundingGoal.GreaterThan(decimal.Zero) {
		violations = append(violations, Violation{
			Kind:    InvalidFundingGoal,
			Field:   FieldFundingGoal,
			Message: fmt.Sprintf("funding goal must be greater than zero (got %s)", in.FundingGoal.String()),
		})
	}

	if hasStart && in.StartDate.Before(minimumStart) {
		violations = append(violations, Violation{
			Kind:    StartDateTooEarly,
			Field:   FieldStartDate,
			Message: fmt.Sprintf("start date %s is before the earliest allowed date %s", in.StartDate, minimumStart),
		})
	}

	// Interval checks need both ends and a duration that yields a real end date.
	if hasStart && inRange {
		candidate := Interval{Start: *in.StartDate, End: EndDate(*in.StartDate, *in.DurationDays)}
		for _, s := range siblings {
			if c.ExcludeKey != "" && s.Key == c.ExcludeKey {
				continue
			}
			if candidate.Overlaps(s.Interval()) {
				violations = append(violations, Violation{
					Kind:        OverlappingPhase,
					Field:       FieldStartDate,
					PhaseNumber: s.Number,
					Message: fmt.Sprintf("phase overlaps phase %d (%s to %s)",
						s.Number, s.StartDate, s.EndDate()),
				})
			}
		}
	}

	if hasStart && c.Number > 0 {
		for _, s := range siblings {
			if c.ExcludeKey != "" && s.Key == c.ExcludeKey {
				continue
			}
			if s.Number > c.Number && !in.StartDate.Before(s.StartDate) {
				violations = append(violations, Violation{
					Kind:        OutOfSequence,
					Field:       FieldStartDate,
					PhaseNumber: s.Number,
					Message: fmt.Sprintf("phase %d must start before phase %d (%s)",
						c.Number, s.Number, s.StartDate),
				})
			}
		}
	}

	return Result{Violations: violations}
}

func missing(field string) Violation {
	return Violation{
		Kind:    MissingRequiredField,
		Field:   field,
		Message: fmt.Sprintf("%s is required", field),
	}
}
