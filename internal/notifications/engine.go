package notifications

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/housersapp/housers/internal/backend"
	"github.com/housersapp/housers/internal/common"
	"github.com/housersapp/housers/internal/events"
	"github.com/housersapp/housers/internal/logging"
	"github.com/housersapp/housers/internal/metrics"
	"github.com/housersapp/housers/internal/models"
	snapshots "github.com/housersapp/housers/internal/repositories/notifications"
)

// MaxItems caps the held list.
const MaxItems = 50

// Engine is safe for concurrent use.
type Engine struct {
	store    backend.NotificationStore
	bus      *events.Bus
	log      logging.Logger
	snapshot snapshots.Repository
	policy   FailurePolicy
	metrics  *metrics.Metrics

	mu      sync.Mutex
	userID  string
	items   []models.Notification
	readIDs map[string]struct{}
	state   State
	pending int
	// gen changes on every user switch or reset; loads issued under an
	// older gen are dropped on completion.
	gen uint64
	// seq numbers loads; held is the seq of the load whose list is held.
	seq  uint64
	held uint64

	saveMu sync.Mutex
}

type Option func(*Engine)

// WithSnapshot persists every successful load and local mark.
func WithSnapshot(r snapshots.Repository) Option {
	return func(e *Engine) { e.snapshot = r }
}

func WithFailurePolicy(p FailurePolicy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func NewEngine(store backend.NotificationStore, bus *events.Bus, log logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		bus:     bus,
		log:     log,
		readIDs: make(map[string]struct{}),
	}
	if e.bus == nil {
		e.bus = events.NewBus()
	}
	e.policy = KeepOptimistic{Log: log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load fetches the newest notifications of userID and replaces the held list.
func (e *Engine) Load(ctx context.Context, userID string) ([]models.Notification, error) {
	e.mu.Lock()
	e.switchUserLocked(userID)
	e.pending++
	e.seq++
	gen, seq := e.gen, e.seq
	e.state = Loading
	e.mu.Unlock()

	fetched, err := e.store.ListNotifications(ctx, userID, MaxItems)

	e.mu.Lock()
	if e.gen != gen {
		// the user signed out or switched while this load was in flight
		e.mu.Unlock()
		if err != nil {
			e.log.Debug(ctx, "stale notification load failed", "user_id", userID, "error", err)
		}
		return nil, fmt.Errorf("%w: session changed during load", common.ErrFetch)
	}
	e.pending--
	if err != nil {
		if e.pending == 0 {
			e.state = LoadFailed
		}
		e.mu.Unlock()
		e.metrics.NotificationLoad(metrics.ResultError)
		e.log.Warn(ctx, "notification load failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrFetch, err)
	}
	items := e.normalizeLocked(fetched)
	e.items = items
	e.held = seq
	if e.pending == 0 {
		e.state = Loaded
	}
	out := slices.Clone(items)
	e.mu.Unlock()

	e.metrics.NotificationLoad(metrics.ResultOK)
	e.bus.Publish(events.UnreadCountStale{})

	e.saveSnapshot(ctx, userID, seq, out)
	return out, nil
}

// saveSnapshot persists items only while they are still the held list, so
// the stored snapshot never lags behind a newer load.
func (e *Engine) saveSnapshot(ctx context.Context, userID string, seq uint64, items []models.Notification) {
	if e.snapshot == nil {
		return
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	current := e.held == seq
	e.mu.Unlock()
	if !current {
		return
	}
	if err := e.snapshot.Save(ctx, userID, items); err != nil {
		e.log.Warn(ctx, "notification snapshot save failed", "user_id", userID, "error", err)
	}
}

// Restore seeds an engine that has not loaded anything yet from the local
// snapshot. It is a no-op once a list is held.
func (e *Engine) Restore(ctx context.Context, userID string) error {
	if e.snapshot == nil {
		return nil
	}
	stored, err := e.snapshot.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("restore notifications: %w", err)
	}

	e.mu.Lock()
	e.switchUserLocked(userID)
	if e.items != nil || e.state == Loaded {
		e.mu.Unlock()
		return nil
	}
	e.items = e.normalizeLocked(stored)
	e.mu.Unlock()

	e.bus.Publish(events.UnreadCountStale{})
	return nil
}

// MarkRead marks one held notification as read. Unknown or already read ids
// are a no-op without any remote call.
func (e *Engine) MarkRead(ctx context.Context, id string) error {
	e.mu.Lock()
	i := slices.IndexFunc(e.items, func(n models.Notification) bool { return n.ID == id })
	if i < 0 || e.items[i].IsRead {
		e.mu.Unlock()
		e.metrics.MarkRead(ScopeSingle, metrics.ResultNoop)
		return nil
	}
	e.items[i].IsRead = true
	e.readIDs[id] = struct{}{}
	userID := e.userID
	e.mu.Unlock()

	e.bus.Publish(events.UnreadCountStale{})
	e.persistRead(ctx, func() error { return e.snapshot.MarkRead(ctx, id) })

	if err := e.store.MarkNotificationRead(ctx, id); err != nil {
		e.metrics.MarkRead(ScopeSingle, metrics.ResultError)
		e.policy.OnMarkFailed(ctx, MarkFailure{Scope: ScopeSingle, UserID: userID, IDs: []string{id}, Err: err})
		return fmt.Errorf("%w: mark read: %w", common.ErrNetwork, err)
	}
	e.metrics.MarkRead(ScopeSingle, metrics.ResultOK)
	return nil
}

// MarkAllRead marks every notification of userID as read with one remote
// update.
func (e *Engine) MarkAllRead(ctx context.Context, userID string) error {
	e.mu.Lock()
	var flipped []string
	if e.userID == userID {
		for i := range e.items {
			e.readIDs[e.items[i].ID] = struct{}{}
			if !e.items[i].IsRead {
				e.items[i].IsRead = true
				flipped = append(flipped, e.items[i].ID)
			}
		}
	}
	e.mu.Unlock()

	e.bus.Publish(events.UnreadCountStale{})
	e.persistRead(ctx, func() error { return e.snapshot.MarkAllRead(ctx, userID) })

	if err := e.store.MarkAllNotificationsRead(ctx, userID); err != nil {
		e.metrics.MarkRead(ScopeAll, metrics.ResultError)
		e.policy.OnMarkFailed(ctx, MarkFailure{Scope: ScopeAll, UserID: userID, IDs: flipped, Err: err})
		return fmt.Errorf("%w: mark all read: %w", common.ErrNetwork, err)
	}
	e.metrics.MarkRead(ScopeAll, metrics.ResultOK)
	return nil
}

// Notifications returns a copy of the held list, newest first.
func (e *Engine) Notifications() []models.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, it := range e.items {
		if !it.IsRead {
			n++
		}
	}
	return n
}

// Reset drops all held state, e.g. on sign-out.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.userID = ""
	e.clearLocked()
	e.mu.Unlock()
	e.bus.Publish(events.UnreadCountStale{})
}

func (e *Engine) switchUserLocked(userID string) {
	if e.userID == userID {
		return
	}
	e.userID = userID
	e.clearLocked()
}

func (e *Engine) clearLocked() {
	e.gen++
	e.pending = 0
	e.held = 0
	e.items = nil
	e.readIDs = make(map[string]struct{})
	e.state = Idle
}

// normalizeLocked sorts newest first, caps at MaxItems and reapplies
// session-local reads.
func (e *Engine) normalizeLocked(in []models.Notification) []models.Notification {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b models.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > MaxItems {
		out = out[:MaxItems]
	}
	for i := range out {
		if _, ok := e.readIDs[out[i].ID]; ok {
			out[i].IsRead = true
		}
	}
	if out == nil {
		out = []models.Notification{}
	}
	return out
}

func (e *Engine) persistRead(ctx context.Context, fn func() error) {
	if e.snapshot == nil {
		return
	}
	if err := fn(); err != nil {
		e.log.Warn(ctx, "notification snapshot update failed", "error", err)
	}
}
