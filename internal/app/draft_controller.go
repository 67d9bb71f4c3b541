package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/example/fundplan/internal/core/effects"
	"github.com/example/fundplan/internal/core/phase"
	"github.com/example/fundplan/internal/logging"
	"github.com/example/fundplan/internal/ports/primary"
	"github.com/example/fundplan/internal/ports/secondary"
)

// ErrPhaseNotFound is returned when an edit or delete names no phase in the draft.
var ErrPhaseNotFound = errors.New("phase not found in draft")

// DraftController owns the in-memory phase draft for one editing session.
// Local mutations are synchronous; only CommitDraft performs I/O.
type DraftController struct {
	campaignID    string
	campaignStart phase.Date
	rules         phase.Rules
	repo          secondary.PhaseRepository
	executor      CommitExecutor
	logger        *zap.Logger
	metrics       *Metrics
	newKey        func() string

	// commitSlot serialises commits; a second commit waits for the first.
	commitSlot *semaphore.Weighted

	// mu guards the fields below. A commit merges IDs back while the
	// caller may keep editing.
	mu       sync.Mutex
	phases   []phase.Phase
	baseline []phase.Phase
	totals   phase.Totals
	state    primary.DraftState
}

// DraftOption configures a DraftController.
type DraftOption func(*DraftController)

// WithRules overrides the phase rules.
func WithRules(rules phase.Rules) DraftOption {
	return func(c *DraftController) { c.rules = rules }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) DraftOption {
	return func(c *DraftController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) DraftOption {
	return func(c *DraftController) { c.metrics = m }
}

// WithKeyGenerator replaces the session key generator (UUIDs by default).
func WithKeyGenerator(fn func() string) DraftOption {
	return func(c *DraftController) { c.newKey = fn }
}

// NewDraftController creates an empty draft for a campaign.
// Call Load to seed it from persistence.
func NewDraftController(
	campaignID string,
	campaignStart phase.Date,
	repo secondary.PhaseRepository,
	executor CommitExecutor,
	opts ...DraftOption,
) *DraftController {
	c := &DraftController{
		campaignID:    campaignID,
		campaignStart: campaignStart,
		rules:         phase.DefaultRules(),
		repo:          repo,
		executor:      executor,
		logger:        zap.NewNop(),
		newKey:        uuid.NewString,
		commitSlot:    semaphore.NewWeighted(1),
		state:         primary.DraftState{Status: primary.StatusIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.totals = phase.ComputeTotals(nil)
	return c
}

// Load replaces the draft with the campaign's persisted phases.
func (c *DraftController) Load(ctx context.Context) error {
	records, err := c.repo.FetchPhases(ctx, c.campaignID)
	if err != nil {
		return fmt.Errorf("failed to fetch phases: %w", err)
	}

	loaded := make([]phase.Phase, 0, len(records))
	for _, r := range records {
		p, err := recordToPhase(r, c.newKey())
		if err != nil {
			return fmt.Errorf("failed to load phases: %w", err)
		}
		loaded = append(loaded, p)
	}

	if guard := phase.CheckSequence(loaded, c.campaignStart); !guard.Allowed {
		return fmt.Errorf("stored phases for campaign %s are inconsistent: %w", c.campaignID, guard.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.phases = loaded
	c.baseline = phase.Clone(loaded)
	c.totals = phase.ComputeTotals(c.phases)

	c.logger.Debug("draft loaded",
		zap.String("campaign_id", c.campaignID),
		zap.Int("phases", len(loaded)),
	)
	return nil
}

// CampaignID returns the campaign being edited.
func (c *DraftController) CampaignID() string { return c.campaignID }

// CampaignStartDate returns the earliest date any phase may begin.
func (c *DraftController) CampaignStartDate() phase.Date { return c.campaignStart }

// Phases returns a copy of the current phases ordered by number.
func (c *DraftController) Phases() []phase.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return phase.Clone(c.phases)
}

// Totals returns the current aggregate figures.
func (c *DraftController) Totals() phase.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals.Clone()
}

// State returns the current operation state.
func (c *DraftController) State() primary.DraftState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.state
	if state.Pending != nil {
		op := *state.Pending
		state.Pending = &op
	}
	if state.Last != nil {
		last := state.Last.Clone()
		state.Last = &last
	}
	return state
}

// Dirty reports whether the draft differs from the last committed state.
func (c *DraftController) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !phase.PlanCommit(c.baseline, c.phases).Empty()
}

// SuggestedStartDate returns the earliest start for a new phase.
func (c *DraftController) SuggestedStartDate() phase.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return phase.MinimumStartDate(c.phases, c.campaignStart)
}

// AddPhase validates input as the next phase and appends it on success.
func (c *DraftController) AddPhase(input phase.Input) primary.MutationResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	op := primary.Operation{Kind: primary.OpAdd}
	c.begin(op)

	number := len(c.phases) + 1
	minStart := phase.MinimumStartDate(c.phases, c.campaignStart)
	result := phase.ValidateWith(c.rules, phase.Candidate{Number: number, Input: input}, c.phases, minStart)
	if !result.Ok() {
		return c.reject(op, result)
	}

	added := input.MergeInto(phase.Phase{Key: c.newKey(), Number: number})
	c.phases = append(c.phases, added)
	return c.accept(op, added)
}

// EditPhase replaces the provided fields of the phase named by ref.
// The phase keeps its number; its own interval never blocks the edit.
func (c *DraftController) EditPhase(ref string, fields phase.Input) (primary.MutationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := c.indexOf(ref)
	if err != nil {
		return primary.MutationResult{}, err
	}

	op := primary.Operation{Kind: primary.OpEdit, Ref: ref}
	c.begin(op)

	target := c.phases[idx]
	updated := fields.MergeInto(target)
	minStart := phase.MinimumStartDateFor(c.phases, c.campaignStart, target.Number)
	result := phase.ValidateWith(c.rules, phase.Candidate{
		Number:     target.Number,
		ExcludeKey: target.Key,
		Input:      phase.InputOf(updated),
	}, c.phases, minStart)
	if !result.Ok() {
		return c.reject(op, result), nil
	}

	c.phases[idx] = updated
	return c.accept(op, updated), nil
}

// DeletePhase removes the phase named by ref and decrements every later
// phase number. Start dates of the remaining phases never move.
func (c *DraftController) DeletePhase(ref string) (primary.MutationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := c.indexOf(ref)
	if err != nil {
		return primary.MutationResult{}, err
	}

	op := primary.Operation{Kind: primary.OpDelete, Ref: ref}
	c.begin(op)

	removed := c.phases[idx]
	remaining := make([]phase.Phase, 0, len(c.phases)-1)
	remaining = append(remaining, c.phases[:idx]...)
	remaining = append(remaining, c.phases[idx+1:]...)
	phase.Renumber(remaining)
	c.phases = remaining
	return c.accept(op, removed), nil
}

// Discard drops uncommitted changes.
func (c *DraftController) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phases = phase.Clone(c.baseline)
	c.totals = phase.ComputeTotals(c.phases)
	c.state.Last = nil
}

// CommitDraft sends the current draft to persistence.
// A failed commit never changes the draft's phase fields; changes that
// reached the store before the failure are recorded so a retry sends only
// the rest. Commits are serialised:
// a call made while another commit is in flight waits, then commits the
// draft as it stands at that point.
func (c *DraftController) CommitDraft(ctx context.Context) (*primary.CommitResult, error) {
	if err := c.commitSlot.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire commit slot: %w", err)
	}
	defer c.commitSlot.Release(1)

	c.mu.Lock()
	snapshot := phase.Clone(c.phases)
	baseline := phase.Clone(c.baseline)
	c.state.CommitInFlight = true
	c.mu.Unlock()

	plan := phase.PlanCommit(baseline, snapshot)
	if plan.Empty() {
		c.mu.Lock()
		c.state.CommitInFlight = false
		c.mu.Unlock()
		c.metrics.observeCommit(CommitOutcomeUnchanged, 0)
		return &primary.CommitResult{Phases: snapshot}, nil
	}

	logger := logging.WithActor(ctx, c.logger)
	started := time.Now()
	applied, err := c.executor.Execute(ctx, c.campaignID, plan.Effects())
	elapsed := time.Since(started)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CommitInFlight = false

	if err != nil {
		c.reconcile(applied)
		c.metrics.observeCommit(CommitOutcomeFailed, elapsed)
		logger.Warn("draft commit failed",
			zap.String("campaign_id", c.campaignID),
			zap.String("kind", string(secondary.KindOf(err))),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to commit draft for campaign %s: %w", c.campaignID, err)
	}

	result := &primary.CommitResult{}
	stored := make(map[string]phase.Phase, len(applied))
	for _, a := range applied {
		switch a.Operation {
		case effects.OpCreate:
			result.Created++
			stored[a.Key] = a.Phase
		case effects.OpUpdate:
			result.Updated++
			stored[a.Key] = a.Phase
		case effects.OpDelete:
			result.Deleted++
		}
	}

	for i := range snapshot {
		if s, ok := stored[snapshot[i].Key]; ok {
			snapshot[i].ID = s.ID
			snapshot[i].Version = s.Version
		}
	}
	c.baseline = snapshot

	// Phases edited or deleted meanwhile stay as they are; they only learn
	// their identity so the next commit updates instead of re-creating.
	for i := range c.phases {
		if s, ok := stored[c.phases[i].Key]; ok {
			c.phases[i].ID = s.ID
			c.phases[i].Version = s.Version
		}
	}

	c.metrics.observeCommit(CommitOutcomeCommitted, elapsed)
	logger.Info("draft committed",
		zap.String("campaign_id", c.campaignID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted),
		zap.Duration("elapsed", elapsed),
	)

	result.Phases = phase.Clone(snapshot)
	return result, nil
}

// reconcile folds the changes of a partly applied commit into the baseline
// and gives draft phases their stored identity. Phase fields are untouched.
func (c *DraftController) reconcile(applied []AppliedChange) {
	for _, a := range applied {
		switch a.Operation {
		case effects.OpCreate:
			c.baseline = append(c.baseline, a.Phase)
		case effects.OpUpdate:
			for i := range c.baseline {
				if c.baseline[i].ID == a.Phase.ID {
					c.baseline[i] = a.Phase
				}
			}
		case effects.OpDelete:
			kept := c.baseline[:0]
			for _, p := range c.baseline {
				if p.ID != a.Phase.ID {
					kept = append(kept, p)
				}
			}
			c.baseline = kept
		}

		if a.Operation == effects.OpDelete {
			continue
		}
		for i := range c.phases {
			if c.phases[i].Key == a.Key {
				c.phases[i].ID = a.Phase.ID
				c.phases[i].Version = a.Phase.Version
			}
		}
	}
}

// indexOf resolves a persistence ID, session key or "#N" phase number.
func (c *DraftController) indexOf(ref string) (int, error) {
	if strings.HasPrefix(ref, "#") {
		n, err := strconv.Atoi(strings.TrimPrefix(ref, "#"))
		if err == nil && n >= 1 && n <= len(c.phases) {
			return n - 1, nil
		}
		return -1, fmt.Errorf("%w: %s", ErrPhaseNotFound, ref)
	}
	for i, p := range c.phases {
		if ref != "" && (p.ID == ref || p.Key == ref) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrPhaseNotFound, ref)
}

func (c *DraftController) begin(op primary.Operation) {
	c.state.Status = primary.StatusPending
	c.state.Pending = &op
}

func (c *DraftController) accept(op primary.Operation, p phase.Phase) primary.MutationResult {
	c.totals = phase.ComputeTotals(c.phases)
	accepted := p
	return c.finish(primary.MutationResult{
		Op:      op,
		Outcome: primary.OutcomeCommitted,
		Phase:   &accepted,
		Totals:  c.totals.Clone(),
	})
}

func (c *DraftController) reject(op primary.Operation, result phase.Result) primary.MutationResult {
	kinds := make([]string, len(result.Violations))
	for i, v := range result.Violations {
		kinds[i] = string(v.Kind)
	}
	c.logger.Info("phase mutation rejected",
		zap.String("campaign_id", c.campaignID),
		zap.String("op", string(op.Kind)),
		zap.String("ref", op.Ref),
		zap.Strings("violations", kinds),
	)
	return c.finish(primary.MutationResult{
		Op:         op,
		Outcome:    primary.OutcomeRejected,
		Violations: result.Violations,
		Totals:     c.totals.Clone(),
	})
}

func (c *DraftController) finish(res primary.MutationResult) primary.MutationResult {
	c.state.Status = primary.StatusIdle
	c.state.Pending = nil
	last := res.Clone()
	c.state.Last = &last
	c.metrics.observeMutation(res.Op.Kind, res.Outcome)
	if res.Committed() {
		c.logger.Debug("phase mutation applied",
			zap.String("campaign_id", c.campaignID),
			zap.String("op", string(res.Op.Kind)),
			zap.Int("phase_number", res.Phase.Number),
		)
	}
	return res
}

// Ensure DraftController implements the interface
var _ primary.DraftSession = (*DraftController)(nil)
