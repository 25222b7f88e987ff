package mention

import (
	"context"
	"sync"
	"time"

	"github.com/housersapp/housers/internal/logging"
	"github.com/housersapp/housers/internal/metrics"
	"github.com/housersapp/housers/internal/models"
)

// DefaultLookupTimeout bounds a detached lookup.
const DefaultLookupTimeout = 15 * time.Second

// Directory is the profiles lookup the Resolver depends on.
type Directory interface {
	ProfilesByUsernames(ctx context.Context, usernames []string) ([]models.Profile, error)
}

// lookup is one batched request. done is closed after the cache has been
// updated and the in-flight entries removed.
type lookup struct {
	done chan struct{}
}

// Resolver is safe for concurrent use.
type Resolver struct {
	dir     Directory
	log     logging.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	mu       sync.Mutex
	cache    map[string]string
	inflight map[string]*lookup
}

type Option func(*Resolver)

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

func WithLookupTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.timeout = d }
}

func NewResolver(dir Directory, log logging.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		dir:      dir,
		log:      log,
		timeout:  DefaultLookupTimeout,
		cache:    make(map[string]string),
		inflight: make(map[string]*lookup),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cached returns the cached id for username.
func (r *Resolver) Cached(username string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.cache[username]
	return id, ok
}

// Resolve returns the ids of the given usernames that exist. Usernames with
// no account, or whose lookup failed, are absent from the result. If ctx ends
// first, Resolve returns what is cached at that moment.
func (r *Resolver) Resolve(ctx context.Context, usernames []string) map[string]string {
	names := distinct(usernames)
	if len(names) == 0 {
		return map[string]string{}
	}

	waits := make(map[*lookup]struct{})
	var missing []string
	hits := 0

	r.mu.Lock()
	for _, n := range names {
		if _, ok := r.cache[n]; ok {
			hits++
			continue
		}
		if l, ok := r.inflight[n]; ok {
			waits[l] = struct{}{}
			continue
		}
		missing = append(missing, n)
	}
	if len(missing) > 0 {
		l := &lookup{done: make(chan struct{})}
		for _, n := range missing {
			r.inflight[n] = l
		}
		waits[l] = struct{}{}
		go r.fetch(context.WithoutCancel(ctx), l, missing)
	}
	r.mu.Unlock()

	r.metrics.MentionCacheHits(hits)

	for l := range waits {
		select {
		case <-l.done:
		case <-ctx.Done():
			return r.snapshot(names)
		}
	}
	return r.snapshot(names)
}

// Activate resolves a single tapped mention. ok is false when the user does
// not exist, the lookup failed, or ctx ended first; callers treat all three
// as a silent no-op.
func (r *Resolver) Activate(ctx context.Context, username string) (string, bool) {
	if id, ok := r.Cached(username); ok {
		return id, true
	}
	id, ok := r.Resolve(ctx, []string{username})[username]
	return id, ok
}

func (r *Resolver) fetch(ctx context.Context, l *lookup, names []string) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	profiles, err := r.dir.ProfilesByUsernames(ctx, names)

	r.mu.Lock()
	for _, n := range names {
		if r.inflight[n] == l {
			delete(r.inflight, n)
		}
	}
	if err == nil {
		requested := make(map[string]struct{}, len(names))
		for _, n := range names {
			requested[n] = struct{}{}
		}
		for _, p := range profiles {
			if _, ok := requested[p.Username]; ok && p.ID != "" {
				r.cache[p.Username] = p.ID
			}
		}
	}
	r.mu.Unlock()
	close(l.done)

	if err != nil {
		r.metrics.MentionLookup(metrics.ResultError)
		r.log.Warn(ctx, "mention lookup failed", "usernames", len(names), "error", err)
		return
	}
	r.metrics.MentionLookup(metrics.ResultOK)
	r.log.Debug(ctx, "mention lookup done", "requested", len(names), "found", len(profiles))
}

func (r *Resolver) snapshot(names []string) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(names))
	for _, n := range names {
		if id, ok := r.cache[n]; ok {
			out[n] = id
		}
	}
	return out
}

func distinct(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
