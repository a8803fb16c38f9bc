// Package metrics exposes Prometheus metrics for the FinEdu backend.
//
// Counters are recorded at the interface layer so that the application
// and domain layers stay free of observability concerns. Progression
// events (level-ups, achievements, XP) are derived from the notification
// stream the avatar engine returns.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
)

// Metrics holds all Prometheus collectors for the backend.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequests counts requests by method, route and status class.
	HTTPRequests *prometheus.CounterVec

	// HTTPDuration observes request latency by route.
	HTTPDuration *prometheus.HistogramVec

	// XPGranted counts XP by source (lesson, task, game, streak, ...).
	XPGranted *prometheus.CounterVec

	// XPReversed counts XP taken back by source (task un-completion).
	XPReversed *prometheus.CounterVec

	// LevelUps counts avatar level-up events.
	LevelUps prometheus.Counter

	// AchievementsUnlocked counts unlocked achievements by type.
	AchievementsUnlocked *prometheus.CounterVec

	// StreaksBroken counts streak resets.
	StreaksBroken prometheus.Counter

	// Completions counts lesson/task/game completions by kind.
	Completions *prometheus.CounterVec
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finedu",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "finedu",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		XPGranted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finedu",
			Subsystem: "progression",
			Name:      "xp_granted_total",
			Help:      "XP granted by source.",
		}, []string{"source"}),

		XPReversed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finedu",
			Subsystem: "progression",
			Name:      "xp_reversed_total",
			Help:      "XP taken back by source.",
		}, []string{"source"}),

		LevelUps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "finedu",
			Subsystem: "progression",
			Name:      "level_ups_total",
			Help:      "Avatar level-up events.",
		}),

		AchievementsUnlocked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finedu",
			Subsystem: "progression",
			Name:      "achievements_unlocked_total",
			Help:      "Achievements unlocked by type.",
		}, []string{"type"}),

		StreaksBroken: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "finedu",
			Subsystem: "progression",
			Name:      "streaks_broken_total",
			Help:      "Daily streak resets.",
		}),

		Completions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finedu",
			Subsystem: "progression",
			Name:      "completions_total",
			Help:      "Completed activities by kind (lesson, task, game).",
		}, []string{"kind"}),
	}
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveNotifications derives progression counters from engine notifications.
func (m *Metrics) ObserveNotifications(notifications []avatar.Notification) {
	if m == nil {
		return
	}

	for _, n := range notifications {
		switch n.Type {
		case avatar.NotificationLevelUp:
			m.LevelUps.Inc()
		case avatar.NotificationAchievementUnlocked:
			m.AchievementsUnlocked.WithLabelValues(string(n.Achievement)).Inc()
		case avatar.NotificationStreakBroken:
			m.StreaksBroken.Inc()
		case avatar.NotificationXPGained:
			// Amount is signed (un-completing a task yields a negative
			// value) and Prometheus counters are monotonic.
			switch {
			case n.Amount > 0:
				m.XPGranted.WithLabelValues(n.Source).Add(float64(n.Amount))
			case n.Amount < 0:
				m.XPReversed.WithLabelValues(n.Source).Add(float64(-n.Amount))
			}
		}
	}
}

// ObserveCompletion records a completed activity.
func (m *Metrics) ObserveCompletion(kind string) {
	if m == nil {
		return
	}
	m.Completions.WithLabelValues(kind).Inc()
}
