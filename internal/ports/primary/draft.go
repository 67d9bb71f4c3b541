package primary

import (
	"context"

	"github.com/example/fundplan/internal/core/phase"
)

// DraftSession defines the primary port for one phase-editing session.
// A session exclusively owns one campaign draft; callers serialise calls.
type DraftSession interface {
	// CampaignID returns the campaign being edited.
	CampaignID() string

	// CampaignStartDate returns the earliest date any phase may begin.
	CampaignStartDate() phase.Date

	// Phases returns a copy of the current phases ordered by number.
	Phases() []phase.Phase

	// Totals returns the current aggregate figures.
	Totals() phase.Totals

	// State returns the current operation state.
	State() DraftState

	// Dirty reports whether the draft differs from the last committed state.
	Dirty() bool

	// SuggestedStartDate returns the earliest start for a new phase.
	SuggestedStartDate() phase.Date

	// AddPhase appends a phase. Rule violations are returned, never raised.
	AddPhase(input phase.Input) MutationResult

	// EditPhase replaces the fields of an existing phase.
	// ref is a persistence ID, session key, or "#N" for phase number N.
	EditPhase(ref string, fields phase.Input) (MutationResult, error)

	// DeletePhase removes a phase and closes the numbering gap.
	DeletePhase(ref string) (MutationResult, error)

	// CommitDraft sends the draft to persistence. Concurrent calls are queued.
	CommitDraft(ctx context.Context) (*CommitResult, error)

	// Discard drops uncommitted changes, restoring the last committed state.
	Discard()
}

// OpKind identifies a draft operation.
type OpKind string

const (
	OpAdd    OpKind = "add"
	OpEdit   OpKind = "edit"
	OpDelete OpKind = "delete"
)

// Operation is one requested draft mutation.
type Operation struct {
	Kind OpKind
	Ref  string // empty for add
}

// Status is the controller's per-operation state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
)

// Outcome is how a mutation ended.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeRejected  Outcome = "rejected"
)

// MutationResult is the outcome of AddPhase, EditPhase or DeletePhase.
type MutationResult struct {
	Op         Operation
	Outcome    Outcome
	Violations []phase.Violation
	// Phase is the accepted (or removed) phase; nil when rejected.
	Phase  *phase.Phase
	Totals phase.Totals
}

// Committed reports whether the mutation was applied to the draft.
func (r MutationResult) Committed() bool { return r.Outcome == OutcomeCommitted }

// Clone returns a deep copy of r.
func (r MutationResult) Clone() MutationResult {
	if r.Phase != nil {
		p := *r.Phase
		r.Phase = &p
	}
	if r.Violations != nil {
		r.Violations = append([]phase.Violation(nil), r.Violations...)
	}
	r.Totals = r.Totals.Clone()
	return r
}

// DraftState is the presentation view of the controller's state machine.
type DraftState struct {
	Status         Status
	Pending        *Operation
	CommitInFlight bool
	// Last is the most recent mutation outcome, if any.
	Last *MutationResult
}

// CommitResult describes a successful commit.
type CommitResult struct {
	Created int
	Updated int
	Deleted int
	// Phases is the committed snapshot with persistence IDs merged in.
	Phases []phase.Phase
}

// Changed returns the number of store writes performed.
func (r CommitResult) Changed() int { return r.Created + r.Updated + r.Deleted }
