package notifications

import (
	"context"

	"github.com/housersapp/housers/internal/logging"
)

// Mark scopes.
const (
	ScopeSingle = "single"
	ScopeAll    = "all"
)

// MarkFailure describes a remote mark-as-read call that failed after the
// local list was already updated.
type MarkFailure struct {
	Scope  string
	UserID string
	IDs    []string
	Err    error
}

// FailurePolicy decides what happens to local state after a failed remote
// mark. It is called without the engine lock held.
type FailurePolicy interface {
	OnMarkFailed(ctx context.Context, f MarkFailure)
}

// KeepOptimistic leaves the local read state as is and logs the failure.
type KeepOptimistic struct {
	Log logging.Logger
}

func (p KeepOptimistic) OnMarkFailed(ctx context.Context, f MarkFailure) {
	if p.Log == nil {
		return
	}
	p.Log.Warn(ctx, "mark read failed, keeping local state",
		"scope", f.Scope, "user_id", f.UserID, "ids", len(f.IDs), "error", f.Err)
}

// PolicyFunc adapts a function to FailurePolicy.
type PolicyFunc func(ctx context.Context, f MarkFailure)

func (fn PolicyFunc) OnMarkFailed(ctx context.Context, f MarkFailure) { fn(ctx, f) }
