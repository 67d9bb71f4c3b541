// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/example/fundplan/internal/core/effects"
	"github.com/example/fundplan/internal/core/phase"
	"github.com/example/fundplan/internal/ports/secondary"
)

// AppliedChange is one persist effect that reached the store.
type AppliedChange struct {
	Operation string
	Key       string
	// Phase carries the stored ID and Version.
	Phase    phase.Phase
	Previous *phase.Phase
}

// CommitExecutor interprets and executes commit effects.
// This is the "Imperative Shell" - the only place draft I/O happens.
type CommitExecutor interface {
	Execute(ctx context.Context, campaignID string, effs []effects.Effect) ([]AppliedChange, error)
}

// EffectExecutor implements CommitExecutor against a PhaseRepository.
type EffectExecutor struct {
	repo   secondary.PhaseRepository
	audit  secondary.AuditLog
	logger *zap.Logger
}

// NewEffectExecutor creates a new EffectExecutor.
// audit and logger are optional.
func NewEffectExecutor(repo secondary.PhaseRepository, audit secondary.AuditLog, logger *zap.Logger) *EffectExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EffectExecutor{repo: repo, audit: audit, logger: logger}
}

// Execute processes effects in sequence. When the repository implements
// secondary.Transactor the whole batch is applied in one transaction.
// On error the returned changes are those that reached the store before the
// failure; a transactional batch rolls back, so it returns none.
func (e *EffectExecutor) Execute(ctx context.Context, campaignID string, effs []effects.Effect) ([]AppliedChange, error) {
	var applied []AppliedChange
	run := func(ctx context.Context, repo secondary.PhaseRepository) error {
		applied = applied[:0]
		return e.executeAll(ctx, repo, campaignID, effs, &applied)
	}

	var err error
	if tx, ok := e.repo.(secondary.Transactor); ok {
		if err = tx.WithinTx(ctx, run); err != nil {
			return nil, err
		}
	} else {
		err = run(ctx, e.repo)
	}

	e.writeAudit(ctx, applied)
	return applied, err
}

func (e *EffectExecutor) executeAll(ctx context.Context, repo secondary.PhaseRepository, campaignID string, effs []effects.Effect, applied *[]AppliedChange) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, repo, campaignID, eff, applied); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *EffectExecutor) executeOne(ctx context.Context, repo secondary.PhaseRepository, campaignID string, eff effects.Effect, applied *[]AppliedChange) error {
	switch typed := eff.(type) {
	case effects.PersistEffect:
		return e.executePersist(ctx, repo, campaignID, typed, applied)
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *EffectExecutor) executePersist(ctx context.Context, repo secondary.PhaseRepository, campaignID string, eff effects.PersistEffect, applied *[]AppliedChange) error {
	if eff.Entity != phase.EntityPhase {
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
	change, ok := eff.Data.(phase.Change)
	if !ok {
		return fmt.Errorf("invalid phase %s data type: %T", eff.Operation, eff.Data)
	}

	switch eff.Operation {
	case effects.OpCreate:
		rec, err := repo.CreatePhase(ctx, campaignID, phaseToRecord(campaignID, change.Phase))
		if err != nil {
			return err
		}
		stored := change.Phase
		stored.ID = rec.ID
		stored.Version = rec.Version
		*applied = append(*applied, AppliedChange{Operation: eff.Operation, Key: change.Key, Phase: stored})
	case effects.OpUpdate:
		rec, err := repo.UpdatePhase(ctx, change.Phase.ID, phaseToRecord(campaignID, change.Phase))
		if err != nil {
			return err
		}
		stored := change.Phase
		stored.Version = rec.Version
		*applied = append(*applied, AppliedChange{Operation: eff.Operation, Key: change.Key, Phase: stored, Previous: change.Previous})
	case effects.OpDelete:
		if err := repo.DeletePhase(ctx, change.Phase.ID); err != nil {
			return err
		}
		*applied = append(*applied, AppliedChange{Operation: eff.Operation, Key: change.Key, Phase: change.Phase})
	default:
		return fmt.Errorf("unknown phase operation: %s", eff.Operation)
	}

	e.logger.Debug("phase effect applied",
		zap.String("campaign_id", campaignID),
		zap.String("operation", eff.Operation),
		zap.Int("phase_number", change.Phase.Number),
	)
	return nil
}

// writeAudit records applied changes. Audit failures never fail a commit.
func (e *EffectExecutor) writeAudit(ctx context.Context, applied []AppliedChange) {
	if e.audit == nil {
		return
	}
	for _, a := range applied {
		var err error
		switch a.Operation {
		case effects.OpCreate:
			err = e.audit.LogCreate(ctx, phase.EntityPhase, a.Phase.ID)
		case effects.OpDelete:
			err = e.audit.LogDelete(ctx, phase.EntityPhase, a.Phase.ID)
		case effects.OpUpdate:
			err = e.auditUpdate(ctx, a)
		}
		if err != nil {
			e.logger.Warn("failed to write audit entry",
				zap.String("phase_id", a.Phase.ID),
				zap.String("operation", a.Operation),
				zap.Error(err),
			)
		}
	}
}

func (e *EffectExecutor) auditUpdate(ctx context.Context, a AppliedChange) error {
	if a.Previous == nil {
		return e.audit.LogUpdate(ctx, phase.EntityPhase, a.Phase.ID, "", "", "")
	}
	prev, next := *a.Previous, a.Phase
	fields := []struct {
		name     string
		old, new string
	}{
		{"phase_number", strconv.Itoa(prev.Number), strconv.Itoa(next.Number)},
		{"start_date", prev.StartDate.String(), next.StartDate.String()},
		{"duration_days", strconv.Itoa(prev.DurationDays), strconv.Itoa(next.DurationDays)},
		{"funding_goal", prev.FundingGoal.String(), next.FundingGoal.String()},
	}
	for _, f := range fields {
		if f.old == f.new {
			continue
		}
		if err := e.audit.LogUpdate(ctx, phase.EntityPhase, a.Phase.ID, f.name, f.old, f.new); err != nil {
			return err
		}
	}
	return nil
}

// Ensure EffectExecutor implements the interface
var _ CommitExecutor = (*EffectExecutor)(nil)
