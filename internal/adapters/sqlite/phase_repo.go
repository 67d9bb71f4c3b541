// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/example/fundplan/internal/ports/secondary"
)

// querier is the subset of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PhaseRepository implements secondary.PhaseRepository with SQLite.
type PhaseRepository struct {
	db     *sql.DB
	q      querier
	logger *zap.Logger
}

// NewPhaseRepository creates a new SQLite phase repository.
// logger is optional.
func NewPhaseRepository(db *sql.DB, logger *zap.Logger) *PhaseRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhaseRepository{db: db, q: db, logger: logger}
}

const phaseColumns = `id, campaign_id, phase_number, start_date, duration_days, funding_goal, version, created_at, updated_at`

// FetchPhases retrieves a campaign's phases ordered by phase number.
func (r *PhaseRepository) FetchPhases(ctx context.Context, campaignID string) ([]*secondary.PhaseRecord, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+phaseColumns+" FROM phases WHERE campaign_id = ? ORDER BY phase_number ASC",
		campaignID,
	)
	if err != nil {
		return nil, classify("fetch phases", "", err)
	}
	defer rows.Close()

	var phases []*secondary.PhaseRecord
	for rows.Next() {
		record, err := scanPhase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phase: %w", err)
		}
		phases = append(phases, record)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("fetch phases", "", err)
	}
	return phases, nil
}

// GetByID retrieves a phase by its ID.
func (r *PhaseRepository) GetByID(ctx context.Context, id string) (*secondary.PhaseRecord, error) {
	record, err := scanPhase(r.q.QueryRowContext(ctx,
		"SELECT "+phaseColumns+" FROM phases WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, secondary.NewPersistenceError(secondary.Conflict, "get phase", id, fmt.Errorf("phase %s not found", id))
	}
	if err != nil {
		return nil, classify("get phase", id, err)
	}
	return record, nil
}

// CreatePhase persists a new phase with a generated ID at version 1.
func (r *PhaseRepository) CreatePhase(ctx context.Context, campaignID string, phase *secondary.PhaseRecord) (*secondary.PhaseRecord, error) {
	id, err := r.GetNextID(ctx)
	if err != nil {
		return nil, err
	}

	_, err = r.q.ExecContext(ctx,
		`INSERT INTO phases (id, campaign_id, phase_number, start_date, duration_days, funding_goal, version)
		VALUES (?, ?, ?, ?, ?, ?, 1)`,
		id, campaignID, phase.PhaseNumber, phase.StartDate, phase.DurationDays, phase.FundingGoal,
	)
	if err != nil {
		return nil, classify("create phase", id, err)
	}

	r.logger.Debug("phase created", zap.String("phase_id", id), zap.Int("phase_number", phase.PhaseNumber))
	return r.GetByID(ctx, id)
}

// UpdatePhase replaces a phase if its stored version still matches phase.Version.
func (r *PhaseRepository) UpdatePhase(ctx context.Context, phaseID string, phase *secondary.PhaseRecord) (*secondary.PhaseRecord, error) {
	result, err := r.q.ExecContext(ctx,
		`UPDATE phases SET phase_number = ?, start_date = ?, duration_days = ?, funding_goal = ?,
			version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?`,
		phase.PhaseNumber, phase.StartDate, phase.DurationDays, phase.FundingGoal,
		phaseID, phase.Version,
	)
	if err != nil {
		return nil, classify("update phase", phaseID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, classify("update phase", phaseID, err)
	}
	if rowsAffected == 0 {
		return nil, secondary.NewPersistenceError(secondary.Conflict, "update phase", phaseID,
			fmt.Errorf("phase %s not found at version %d", phaseID, phase.Version))
	}

	r.logger.Debug("phase updated", zap.String("phase_id", phaseID), zap.Int("phase_number", phase.PhaseNumber))
	return r.GetByID(ctx, phaseID)
}

// DeletePhase removes a phase.
func (r *PhaseRepository) DeletePhase(ctx context.Context, phaseID string) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM phases WHERE id = ?", phaseID)
	if err != nil {
		return classify("delete phase", phaseID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classify("delete phase", phaseID, err)
	}
	if rowsAffected == 0 {
		return secondary.NewPersistenceError(secondary.Conflict, "delete phase", phaseID,
			fmt.Errorf("phase %s not found", phaseID))
	}

	r.logger.Debug("phase deleted", zap.String("phase_id", phaseID))
	return nil
}

// GetNextID returns the next available phase ID.
func (r *PhaseRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.q.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 7) AS INTEGER)), 0) FROM phases",
	).Scan(&maxID)
	if err != nil {
		return "", classify("get next phase ID", "", err)
	}

	return fmt.Sprintf("PHASE-%03d", maxID+1), nil
}

// WithinTx runs fn against a repository bound to one transaction.
// The transaction commits only if fn returns nil.
func (r *PhaseRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, repo secondary.PhaseRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin transaction", "", err)
	}

	txRepo := &PhaseRepository{db: r.db, q: tx, logger: r.logger}
	if err := fn(ctx, txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Warn("failed to roll back phase transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("commit transaction", "", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhase(row rowScanner) (*secondary.PhaseRecord, error) {
	var (
		createdAt time.Time
		updatedAt time.Time
	)
	record := &secondary.PhaseRecord{}
	err := row.Scan(&record.ID, &record.CampaignID, &record.PhaseNumber, &record.StartDate,
		&record.DurationDays, &record.FundingGoal, &record.Version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// classify maps a driver error onto the persistence error kinds.
func classify(op, phaseID string, err error) error {
	kind := secondary.ServerRejected

	var sqliteErr sqlite3.Error
	switch {
	case errors.As(err, &sqliteErr):
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrIoErr, sqlite3.ErrCantOpen, sqlite3.ErrProtocol:
			kind = secondary.NetworkFailure
		}
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, sql.ErrTxDone):
		kind = secondary.NetworkFailure
	}

	return secondary.NewPersistenceError(kind, op, phaseID, err)
}

// Ensure PhaseRepository implements the interfaces
var (
	_ secondary.PhaseRepository = (*PhaseRepository)(nil)
	_ secondary.Transactor      = (*PhaseRepository)(nil)
)
