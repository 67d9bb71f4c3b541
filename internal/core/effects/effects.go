// Package effects defines effect types as data structures representing I/O operations.
// Planners in the core emit effects; the app layer executes them.
package effects

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// Persist operations.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// PersistEffect represents a persistence operation.
type PersistEffect struct {
	Entity    string // e.g. "phase"
	Operation string // OpCreate, OpUpdate or OpDelete
	Data      any    // The entity data
}

func (e PersistEffect) EffectType() string { return "persist" }
