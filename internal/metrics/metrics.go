// Package metrics exposes client counters on a private Prometheus registry.
//
// Every recording method is safe to call on a nil *Metrics, so components
// take an optional *Metrics and never check for it.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/housersapp/housers/internal/logging"
)

const namespace = "housers"

// Result label values.
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultNoop      = "noop"
	ResultThrottled = "throttled"
	ResultBusy      = "busy"
)

type Metrics struct {
	registry *prometheus.Registry

	notificationLoads *prometheus.CounterVec
	markRead          *prometheus.CounterVec
	mentionLookups    *prometheus.CounterVec
	mentionCacheHits  prometheus.Counter
	discoverImports   *prometheus.CounterVec
	avatarPresigns    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		notificationLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_loads_total",
			Help:      "Notification list fetches by result.",
		}, []string{"result"}),
		markRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_mark_read_total",
			Help:      "Mark-as-read requests by scope (single, all) and result.",
		}, []string{"scope", "result"}),
		mentionLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mention_lookups_total",
			Help:      "Batched username lookups by result.",
		}, []string{"result"}),
		mentionCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mention_cache_hits_total",
			Help:      "Usernames answered from the session cache.",
		}),
		discoverImports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discover_imports_total",
			Help:      "Discover-more import attempts by result.",
		}, []string{"result"}),
		avatarPresigns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "avatar_presigns_total",
			Help:      "Avatar URL presign attempts by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.notificationLoads,
		m.markRead,
		m.mentionLookups,
		m.mentionCacheHits,
		m.discoverImports,
		m.avatarPresigns,
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) NotificationLoad(result string) {
	if m == nil {
		return
	}
	m.notificationLoads.WithLabelValues(result).Inc()
}

func (m *Metrics) MarkRead(scope, result string) {
	if m == nil {
		return
	}
	m.markRead.WithLabelValues(scope, result).Inc()
}

func (m *Metrics) MentionLookup(result string) {
	if m == nil {
		return
	}
	m.mentionLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) MentionCacheHits(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.mentionCacheHits.Add(float64(n))
}

func (m *Metrics) DiscoverImport(result string) {
	if m == nil {
		return
	}
	m.discoverImports.WithLabelValues(result).Inc()
}

func (m *Metrics) AvatarPresign(result string) {
	if m == nil {
		return
	}
	m.avatarPresigns.WithLabelValues(result).Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, m *Metrics, log logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
