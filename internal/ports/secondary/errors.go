package secondary

import (
	"errors"
	"fmt"
)

// PersistenceErrorKind classifies a failed persistence call.
type PersistenceErrorKind string

const (
	// NetworkFailure means the store could not be reached or timed out; retrying may help.
	NetworkFailure PersistenceErrorKind = "NetworkFailure"
	// ServerRejected means the store refused the data.
	ServerRejected PersistenceErrorKind = "ServerRejected"
	// Conflict means another writer changed or removed the row.
	Conflict PersistenceErrorKind = "Conflict"
)

// Sentinels for errors.Is against a *PersistenceError.
var (
	ErrNetworkFailure = errors.New("network failure")
	ErrServerRejected = errors.New("server rejected")
	ErrConflict       = errors.New("conflict")
)

// PersistenceError is returned by persistence adapters.
type PersistenceError struct {
	Kind    PersistenceErrorKind
	Op      string // e.g. "create phase"
	PhaseID string
	Err     error
}

// NewPersistenceError builds a PersistenceError.
func NewPersistenceError(kind PersistenceErrorKind, op, phaseID string, err error) *PersistenceError {
	return &PersistenceError{Kind: kind, Op: op, PhaseID: phaseID, Err: err}
}

func (e *PersistenceError) Error() string {
	msg := fmt.Sprintf("%s: failed to %s", e.Kind, e.Op)
	if e.PhaseID != "" {
		msg += " " + e.PhaseID
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is matches the kind sentinels.
func (e *PersistenceError) Is(target error) bool {
	switch target {
	case ErrNetworkFailure:
		return e.Kind == NetworkFailure
	case ErrServerRejected:
		return e.Kind == ServerRejected
	case ErrConflict:
		return e.Kind == Conflict
	}
	return false
}

// KindOf returns the persistence kind of err, or "" if err is not a PersistenceError.
func KindOf(err error) PersistenceErrorKind {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
