package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/fundplan/internal/adapters/sqlite"
	"github.com/example/fundplan/internal/ports/secondary"
)

func setupPhaseTestDB(t *testing.T) (*sqlite.PhaseRepository, context.Context) {
	t.Helper()
	testDB := setupTestDB(t)
	seedCampaign(t, testDB, "CAMP-001", "2024-06-01")
	seedPhase(t, testDB, "PHASE-001", "CAMP-001", 1, "2024-06-03", 30, "5000")
	seedPhase(t, testDB, "PHASE-002", "CAMP-001", 2, "2024-07-03", 14, "3000")
	return sqlite.NewPhaseRepository(testDB, nil), context.Background()
}

func TestPhaseRepository_FetchPhases(t *testing.T) {
	repo, ctx := setupPhaseTestDB(t)

	phases, err := repo.FetchPhases(ctx, "CAMP-001")
	if err != nil {
		t.Fatalf("FetchPhases failed: %v", err)
	}
	if len(phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(phases))
	}
	if phases[0].ID != "PHASE-001" || phases[1].ID != "PHASE-002" {
		t.Errorf("unexpected order: %s, %s", phases[0].ID, phases[1].ID)
	}
	if phases[1].StartDate != "2024-07-03" {
		t.Errorf("StartDate = %q, want 2024-07-03", phases[1].StartDate)
	}
	if phases[0].FundingGoal != "5000" {
		t.Errorf("FundingGoal = %q, want 5000", phases[0].FundingGoal)
	}
	if phases[0].Version != 1 {
		t.Errorf("Version = %d, want 1", phases[0].Version)
	}

	empty, err := repo.FetchPhases(ctx, "CAMP-999")
	if err != nil {
		t.Fatalf("FetchPhases failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no phases, got %d", len(empty))
	}
}

func TestPhaseRepository_CreatePhase(t *testing.T) {
	repo, ctx := setupPhaseTestDB(t)

	created, err := repo.CreatePhase(ctx, "CAMP-001", &secondary.PhaseRecord{
		PhaseNumber:  3,
		StartDate:    "2024-07-17",
		DurationDays: 21,
		FundingGoal:  "1250.75",
	})
	if err != nil {
		t.Fatalf("CreatePhase failed: %v", err)
	}
	if created.ID != "PHASE-003" {
		t.Errorf("ID = %q, want PHASE-003", created.ID)
	}
	if created.Version != 1 {
		t.Errorf("Version = %d, want 1", created.Version)
	}
	if created.CampaignID != "CAMP-001" {
		t.Errorf("CampaignID = %q, want CAMP-001", created.CampaignID)
	}
	if created.FundingGoal != "1250.75" {
		t.Errorf("FundingGoal = %q, want 1250.75", created.FundingGoal)
	}
	if created.CreatedAt == "" {
		t.Error("expected CreatedAt to be set")
	}
}

func TestPhaseRepository_CreatePhase_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		record secondary.PhaseRecord
		campID string
	}{
		{
			name:   "duplicate phase number",
			record: secondary.PhaseRecord{PhaseNumber: 2, StartDate: "2024-08-01", DurationDays: 14, FundingGoal: "1"},
			campID: "CAMP-001",
		},
		{
			name:   "duration below minimum",
			record: secondary.PhaseRecord{PhaseNumber: 3, StartDate: "2024-08-01", DurationDays: 13, FundingGoal: "1"},
			campID: "CAMP-001",
		},
		{
			name:   "unknown campaign",
			record: secondary.PhaseRecord{PhaseNumber: 1, StartDate: "2024-08-01", DurationDays: 14, FundingGoal: "1"},
			campID: "CAMP-404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, ctx := setupPhaseTestDB(t)

			_, err := repo.CreatePhase(ctx, tt.campID, &tt.record)

			if !errors.Is(err, secondary.ErrServerRejected) {
				t.Errorf("expected ServerRejected, got %v", err)
			}
		})
	}
}

func TestPhaseRepository_UpdatePhase(t *testing.T) {
	repo, ctx := setupPhaseTestDB(t)

	updated, err := repo.UpdatePhase(ctx, "PHASE-001", &secondary.PhaseRecord{
		PhaseNumber:  1,
		StartDate:    "2024-06-03",
		DurationDays: 30,
		FundingGoal:  "4000",
		Version:      1,
	})
	if err != nil {
		t.Fatalf("UpdatePhase failed: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("Version = %d, want 2", updated.Version)
	}
	if updated.FundingGoal != "4000" {
		t.Errorf("FundingGoal = %q, want 4000", updated.FundingGoal)
	}
}

func TestPhaseRepository_UpdatePhase_Conflict(t *testing.T) {
	tests := []struct {
		name    string
		phaseID string
		version int
	}{
		{name: "stale version", phaseID: "PHASE-001", version: 7},
		{name: "vanished row", phaseID: "PHASE-404", version: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, ctx := setupPhaseTestDB(t)

			_, err := repo.UpdatePhase(ctx, tt.phaseID, &secondary.PhaseRecord{
				PhaseNumber: 1, StartDate: "2024-06-03", DurationDays: 30, FundingGoal: "1", Version: tt.version,
			})

			if !errors.Is(err, secondary.ErrConflict) {
				t.Errorf("expected Conflict, got %v", err)
			}
		})
	}
}

func TestPhaseRepository_DeletePhase(t *testing.T) {
	repo, ctx := setupPhaseTestDB(t)

	if err := repo.DeletePhase(ctx, "PHASE-002"); err != nil {
		t.Fatalf("DeletePhase failed: %v", err)
	}
	phases, _ := repo.FetchPhases(ctx, "CAMP-001")
	if len(phases) != 1 {
		t.Errorf("expected 1 phase after delete, got %d", len(phases))
	}

	err := repo.DeletePhase(ctx, "PHASE-002")
	if !errors.Is(err, secondary.ErrConflict) {
		t.Errorf("expected Conflict deleting twice, got %v", err)
	}
}

func TestPhaseRepository_WithinTx_RollsBack(t *testing.T) {
	repo, ctx := setupPhaseTestDB(t)
	sentinel := errors.New("abort")

	err := repo.WithinTx(ctx, func(ctx context.Context, tx secondary.PhaseRepository) error {
		if err := tx.DeletePhase(ctx, "PHASE-001"); err != nil {
			return err
		}
		if _, err := tx.UpdatePhase(ctx, "PHASE-002", &secondary.PhaseRecord{
			PhaseNumber: 1, StartDate: "2024-07-03", DurationDays: 14, FundingGoal: "3000", Version: 1,
		}); err != nil {
			return err
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	phases, _ := repo.FetchPhases(ctx, "CAMP-001")
	if len(phases) != 2 {
		t.Fatalf("expected rollback to keep 2 phases, got %d", len(phases))
	}
	if phases[1].PhaseNumber != 2 || phases[1].Version != 1 {
		t.Errorf("phase 2 changed despite rollback: %+v", phases[1])
	}
}

func TestPhaseRepository_WithinTx_Commits(t *testing.T) {
	repo, ctx := setupPhaseTestDB(t)

	err := repo.WithinTx(ctx, func(ctx context.Context, tx secondary.PhaseRepository) error {
		if err := tx.DeletePhase(ctx, "PHASE-001"); err != nil {
			return err
		}
		_, err := tx.UpdatePhase(ctx, "PHASE-002", &secondary.PhaseRecord{
			PhaseNumber: 1, StartDate: "2024-07-03", DurationDays: 14, FundingGoal: "3000", Version: 1,
		})
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx failed: %v", err)
	}

	phases, _ := repo.FetchPhases(ctx, "CAMP-001")
	if len(phases) != 1 || phases[0].ID != "PHASE-002" || phases[0].PhaseNumber != 1 {
		t.Errorf("unexpected phases after commit: %+v", phases)
	}
}

func TestPhaseRepository_CancelledContext(t *testing.T) {
	repo, _ := setupPhaseTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FetchPhases(ctx, "CAMP-001")

	if !errors.Is(err, secondary.ErrNetworkFailure) {
		t.Errorf("expected NetworkFailure, got %v", err)
	}
}
