package secondary

import "context"

// AuditLog defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type AuditLog interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error

	// LogDelete logs a delete operation for an entity.
	LogDelete(ctx context.Context, entityType, entityID string) error
}

// AuditRecord is one stored audit entry.
type AuditRecord struct {
	ID         int64
	ActorID    string
	EntityType string
	EntityID   string
	Action     string
	FieldName  string
	OldValue   string
	NewValue   string
	CreatedAt  string
}

// AuditReader reads audit entries back.
type AuditReader interface {
	// ListForEntity returns entries for an entity, oldest first.
	ListForEntity(ctx context.Context, entityType, entityID string) ([]*AuditRecord, error)
}
