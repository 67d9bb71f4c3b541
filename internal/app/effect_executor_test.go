package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fundplan/internal/core/effects"
	"github.com/example/fundplan/internal/core/phase"
	"github.com/example/fundplan/internal/ports/secondary"
)

// txPhaseRepository wraps the map mock with a Transactor that records outcomes.
type txPhaseRepository struct {
	*mockPhaseRepository
	committed  int
	rolledBack int
}

func (r *txPhaseRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, repo secondary.PhaseRepository) error) error {
	if err := fn(ctx, r.mockPhaseRepository); err != nil {
		r.rolledBack++
		return err
	}
	r.committed++
	return nil
}

var _ secondary.Transactor = (*txPhaseRepository)(nil)

func persist(op string, change phase.Change) effects.PersistEffect {
	return effects.PersistEffect{Entity: phase.EntityPhase, Operation: op, Data: change}
}

func TestEffectExecutor_Execute(t *testing.T) {
	repo := newMockPhaseRepository()
	existing := repo.seed("CAMP-001", 1, "2024-06-01", 30, "100")
	audit := &mockAuditLog{}
	executor := NewEffectExecutor(repo, audit, nil)

	saved := phase.Phase{Key: "k1", ID: existing, Number: 1, StartDate: date("2024-06-01"), DurationDays: 30, FundingGoal: money("100"), Version: 1}
	edited := saved
	edited.FundingGoal = money("120")
	fresh := phase.Phase{Key: "k2", Number: 2, StartDate: date("2024-07-01"), DurationDays: 14, FundingGoal: money("50")}

	applied, err := executor.Execute(context.Background(), "CAMP-001", []effects.Effect{
		persist(effects.OpUpdate, phase.Change{Key: "k1", Phase: edited, Previous: &saved}),
		persist(effects.OpCreate, phase.Change{Key: "k2", Phase: fresh}),
	})

	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "k1", applied[0].Key)
	assert.Equal(t, 2, applied[0].Phase.Version)
	assert.Equal(t, "k2", applied[1].Key)
	assert.Equal(t, "PHASE-002", applied[1].Phase.ID)
	assert.Equal(t, 1, applied[1].Phase.Version)

	require.Len(t, audit.entries, 2)
	assert.Equal(t, "update", audit.entries[0].Action)
	assert.Equal(t, "funding_goal", audit.entries[0].FieldName)
	assert.Equal(t, "100", audit.entries[0].OldValue)
	assert.Equal(t, "120", audit.entries[0].NewValue)
	assert.Equal(t, "create", audit.entries[1].Action)
	assert.Equal(t, "PHASE-002", audit.entries[1].EntityID)
}

func TestEffectExecutor_Errors(t *testing.T) {
	tests := []struct {
		name    string
		effect  effects.Effect
		wantErr string
	}{
		{
			name:    "unknown entity",
			effect:  effects.PersistEffect{Entity: "campaign", Operation: effects.OpCreate},
			wantErr: "unknown entity: campaign",
		},
		{
			name:    "bad payload",
			effect:  effects.PersistEffect{Entity: phase.EntityPhase, Operation: effects.OpCreate, Data: "nope"},
			wantErr: "invalid phase create data type",
		},
		{
			name:    "unknown operation",
			effect:  persist("upsert", phase.Change{Key: "k"}),
			wantErr: "unknown phase operation: upsert",
		},
		{
			name:    "vanished row",
			effect:  persist(effects.OpDelete, phase.Change{Key: "k", Phase: phase.Phase{ID: "PHASE-404"}}),
			wantErr: "failed to execute persist effect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := NewEffectExecutor(newMockPhaseRepository(), nil, nil)

			applied, err := executor.Execute(context.Background(), "CAMP-001", []effects.Effect{tt.effect})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, applied)
		})
	}
}

func TestEffectExecutor_UsesTransaction(t *testing.T) {
	repo := &txPhaseRepository{mockPhaseRepository: newMockPhaseRepository()}
	audit := &mockAuditLog{}
	executor := NewEffectExecutor(repo, audit, nil)
	fresh := phase.Phase{Key: "k1", Number: 1, StartDate: date("2024-06-01"), DurationDays: 14, FundingGoal: money("1")}

	_, err := executor.Execute(context.Background(), "CAMP-001", []effects.Effect{
		persist(effects.OpCreate, phase.Change{Key: "k1", Phase: fresh}),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.committed)

	repo.updateErr = secondary.NewPersistenceError(secondary.ServerRejected, "update phase", "PHASE-001", errors.New("CHECK constraint failed"))
	_, err = executor.Execute(context.Background(), "CAMP-001", []effects.Effect{
		persist(effects.OpUpdate, phase.Change{Key: "k1", Phase: fresh}),
	})
	assert.ErrorIs(t, err, secondary.ErrServerRejected)
	assert.Equal(t, 1, repo.rolledBack)
	// only the successful commit was audited
	assert.Len(t, audit.entries, 1)
}

func TestEffectExecutor_AuditFailureIgnored(t *testing.T) {
	repo := newMockPhaseRepository()
	executor := NewEffectExecutor(repo, &mockAuditLog{err: errors.New("audit table missing")}, nil)
	fresh := phase.Phase{Key: "k1", Number: 1, StartDate: date("2024-06-01"), DurationDays: 14, FundingGoal: money("1")}

	applied, err := executor.Execute(context.Background(), "CAMP-001", []effects.Effect{
		persist(effects.OpCreate, phase.Change{Key: "k1", Phase: fresh}),
	})

	require.NoError(t, err)
	assert.Len(t, applied, 1)
	assert.Equal(t, 1, repo.count())
}

func TestEffectExecutor_PartialFailureWithoutTransaction(t *testing.T) {
	repo := newMockPhaseRepository()
	repo.createErr = secondary.NewPersistenceError(secondary.NetworkFailure, "create phase", "", errors.New("timeout"))
	repo.createErrAfter = 1
	audit := &mockAuditLog{}
	executor := NewEffectExecutor(repo, audit, nil)
	first := phase.Phase{Key: "k1", Number: 1, StartDate: date("2024-06-01"), DurationDays: 14, FundingGoal: money("1")}
	second := phase.Phase{Key: "k2", Number: 2, StartDate: date("2024-06-15"), DurationDays: 14, FundingGoal: money("1")}

	applied, err := executor.Execute(context.Background(), "CAMP-001", []effects.Effect{
		persist(effects.OpCreate, phase.Change{Key: "k1", Phase: first}),
		persist(effects.OpCreate, phase.Change{Key: "k2", Phase: second}),
	})

	assert.ErrorIs(t, err, secondary.ErrNetworkFailure)
	require.Len(t, applied, 1)
	assert.Equal(t, "k1", applied[0].Key)
	assert.Equal(t, "PHASE-001", applied[0].Phase.ID)
	// the stored row is audited even though the batch failed
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "PHASE-001", audit.entries[0].EntityID)
}
