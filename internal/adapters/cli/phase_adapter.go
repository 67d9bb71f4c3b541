package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/fundplan/internal/adapters/planfile"
	"github.com/example/fundplan/internal/core/phase"
	"github.com/example/fundplan/internal/ports/primary"
)

// ErrRejected is returned when a requested phase change broke a rule.
// The violations have already been printed.
var ErrRejected = errors.New("phase change rejected")

// PhaseAdapter runs one draft session per command: open, mutate, commit.
type PhaseAdapter struct {
	service primary.CampaignService
	out     io.Writer
}

// NewPhaseAdapter creates a new PhaseAdapter with the given service.
func NewPhaseAdapter(service primary.CampaignService, out io.Writer) *PhaseAdapter {
	return &PhaseAdapter{
		service: service,
		out:     out,
	}
}

// List prints a campaign's phases and totals.
func (a *PhaseAdapter) List(ctx context.Context, campaignID string) error {
	draft, err := a.service.OpenDraft(ctx, campaignID)
	if err != nil {
		return err
	}
	renderPhases(a.out, draft.Phases())
	renderTotals(a.out, draft.Totals())
	return nil
}

// Add appends a phase. A nil start date defaults to the earliest allowed date.
func (a *PhaseAdapter) Add(ctx context.Context, campaignID string, input phase.Input) error {
	draft, err := a.service.OpenDraft(ctx, campaignID)
	if err != nil {
		return err
	}
	if input.StartDate == nil {
		suggested := draft.SuggestedStartDate()
		input.StartDate = &suggested
	}

	res := draft.AddPhase(input)
	if !res.Committed() {
		return a.rejected("add", res)
	}
	return a.commit(ctx, draft, fmt.Sprintf("Added phase %d (%s to %s)",
		res.Phase.Number, res.Phase.StartDate, res.Phase.EndDate()))
}

// Edit changes the given fields of the phase named by ref.
func (a *PhaseAdapter) Edit(ctx context.Context, campaignID, ref string, fields phase.Input) error {
	if fields.Empty() {
		return fmt.Errorf("nothing to change: pass --start, --days or --goal")
	}
	draft, err := a.service.OpenDraft(ctx, campaignID)
	if err != nil {
		return err
	}

	res, err := draft.EditPhase(ref, fields)
	if err != nil {
		return err
	}
	if !res.Committed() {
		return a.rejected("edit "+ref, res)
	}
	return a.commit(ctx, draft, fmt.Sprintf("Updated phase %d", res.Phase.Number))
}

// Delete removes the phase named by ref and renumbers the rest.
func (a *PhaseAdapter) Delete(ctx context.Context, campaignID, ref string) error {
	draft, err := a.service.OpenDraft(ctx, campaignID)
	if err != nil {
		return err
	}

	res, err := draft.DeletePhase(ref)
	if err != nil {
		return err
	}
	return a.commit(ctx, draft, fmt.Sprintf("Deleted phase %d", res.Phase.Number))
}

// History prints the audit trail of a saved phase.
func (a *PhaseAdapter) History(ctx context.Context, phaseID string) error {
	entries, err := a.service.PhaseHistory(ctx, phaseID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(a.out, "No history for %s\n", phaseID)
		return nil
	}

	fmt.Fprintf(a.out, "\nHistory: %s\n", colorizeID(phaseID))
	fmt.Fprintln(a.out, rule)
	for _, e := range entries {
		actor := e.ActorID
		if actor == "" {
			actor = "-"
		}
		line := fmt.Sprintf("%-20s %-8s %-10s", e.CreatedAt, actor, e.Action)
		if e.FieldName != "" {
			line += fmt.Sprintf(" %s: %s → %s", e.FieldName, e.OldValue, e.NewValue)
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// Apply runs every operation of a plan in one session and commits once.
// Rejected operations are reported and skipped; with dryRun nothing is saved.
func (a *PhaseAdapter) Apply(ctx context.Context, campaignID string, plan *planfile.Plan, dryRun bool) error {
	draft, err := a.service.OpenDraft(ctx, campaignID)
	if err != nil {
		return err
	}

	rejected := 0
	for i, op := range plan.Operations {
		label := fmt.Sprintf("[%d] %s", i+1, op.Describe())

		res, err := applyOne(draft, op)
		if err != nil {
			return fmt.Errorf("%s (line %d): %w", label, op.Line, err)
		}
		if res.Committed() {
			fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), label)
			continue
		}
		rejected++
		fmt.Fprintf(a.out, "%s %s (line %d)\n", color.New(color.FgRed).Sprint("✗"), label, op.Line)
		renderViolations(a.out, res.Violations)
	}

	renderPhases(a.out, draft.Phases())
	renderTotals(a.out, draft.Totals())

	if dryRun {
		fmt.Fprintln(a.out, "Dry run: nothing saved")
	} else {
		result, err := draft.CommitDraft(ctx)
		if err != nil {
			return err
		}
		renderCommit(a.out, result)
	}

	if rejected > 0 {
		return fmt.Errorf("%w: %d of %d operations", ErrRejected, rejected, len(plan.Operations))
	}
	return nil
}

func applyOne(draft primary.DraftSession, op planfile.Operation) (primary.MutationResult, error) {
	input, err := op.Input()
	if err != nil {
		return primary.MutationResult{}, err
	}
	switch op.Op {
	case primary.OpAdd:
		return draft.AddPhase(input), nil
	case primary.OpEdit:
		return draft.EditPhase(op.Ref, input)
	case primary.OpDelete:
		return draft.DeletePhase(op.Ref)
	}
	return primary.MutationResult{}, fmt.Errorf("unknown op %q", op.Op)
}

func (a *PhaseAdapter) rejected(what string, res primary.MutationResult) error {
	fmt.Fprintf(a.out, "%s %s rejected:\n", color.New(color.FgRed).Sprint("✗"), what)
	renderViolations(a.out, res.Violations)
	return ErrRejected
}

func (a *PhaseAdapter) commit(ctx context.Context, draft primary.DraftSession, summary string) error {
	result, err := draft.CommitDraft(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s\n", summary)
	renderCommit(a.out, result)
	renderTotals(a.out, draft.Totals())
	return nil
}
