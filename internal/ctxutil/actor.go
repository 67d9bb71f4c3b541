// Package ctxutil carries request-scoped values through context.
// It has no internal dependencies so any layer may import it.
package ctxutil

import (
	"context"
	"strings"
)

type actorKey struct{}

// WithActorID returns a copy of ctx that records who is making changes.
// Surrounding whitespace is dropped; a blank actor leaves ctx unchanged.
func WithActorID(ctx context.Context, actorID string) context.Context {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the actor recorded by WithActorID, or "".
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
