// Package cli provides CLI commands for the fundplan application.
package cli

import (
	gocontext "context"
	"os"

	"github.com/example/fundplan/internal/ctxutil"
)

// globalActorID stores the actor ID for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor stores the configured actor, falling back to $USER.
// Should be called once at CLI startup in PersistentPreRunE.
func DetectAndStoreActor(configured string) {
	if configured != "" {
		globalActorID = configured
		return
	}
	globalActorID = os.Getenv("USER")
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if DetectAndStoreActor() was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
