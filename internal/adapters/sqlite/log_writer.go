package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/fundplan/internal/ctxutil"
	"github.com/example/fundplan/internal/ports/secondary"
)

// AuditLogWriter implements secondary.AuditLog and secondary.AuditReader
// on the phase_audit table.
type AuditLogWriter struct {
	db *sql.DB
}

// NewAuditLogWriter creates a new AuditLogWriter.
func NewAuditLogWriter(db *sql.DB) *AuditLogWriter {
	return &AuditLogWriter{db: db}
}

// LogCreate logs a create operation for an entity.
func (w *AuditLogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, entityType, entityID, "create", "", "", "")
}

// LogUpdate logs an update operation for an entity field.
func (w *AuditLogWriter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, entityType, entityID, "update", fieldName, oldValue, newValue)
}

// LogDelete logs a delete operation for an entity.
func (w *AuditLogWriter) LogDelete(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, entityType, entityID, "delete", "", "", "")
}

// writeLog writes a log entry with common logic.
func (w *AuditLogWriter) writeLog(ctx context.Context, entityType, entityID, action, fieldName, oldValue, newValue string) error {
	actorID := ctxutil.ActorFromContext(ctx)

	_, err := w.db.ExecContext(ctx,
		`INSERT INTO phase_audit (actor_id, entity_type, entity_id, action, field_name, old_value, new_value)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullString(actorID), entityType, entityID, action,
		nullString(fieldName), nullString(oldValue), nullString(newValue),
	)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// ListForEntity returns an entity's audit entries, oldest first.
func (w *AuditLogWriter) ListForEntity(ctx context.Context, entityType, entityID string) ([]*secondary.AuditRecord, error) {
	rows, err := w.db.QueryContext(ctx,
		`SELECT id, actor_id, entity_type, entity_id, action, field_name, old_value, new_value, created_at
		FROM phase_audit WHERE entity_type = ? AND entity_id = ? ORDER BY id ASC`,
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.AuditRecord
	for rows.Next() {
		var (
			actorID   sql.NullString
			fieldName sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
			createdAt time.Time
		)
		record := &secondary.AuditRecord{}
		if err := rows.Scan(&record.ID, &actorID, &record.EntityType, &record.EntityID, &record.Action,
			&fieldName, &oldValue, &newValue, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		record.ActorID = actorID.String
		record.FieldName = fieldName.String
		record.OldValue = oldValue.String
		record.NewValue = newValue.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, record)
	}

	return entries, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Ensure AuditLogWriter implements the interfaces
var (
	_ secondary.AuditLog    = (*AuditLogWriter)(nil)
	_ secondary.AuditReader = (*AuditLogWriter)(nil)
)
