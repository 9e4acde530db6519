// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors shared by the API and the worker.
type Metrics struct {
	Logins          *prometheus.CounterVec
	Edits           *prometheus.CounterVec
	Commits         prometheus.Counter
	OpenDrafts      prometheus.Gauge
	Refreshes       *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	SummaryScores   prometheus.Histogram
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evaluation",
			Name:      "logins_total",
			Help:      "Login attempts by role and result.",
		}, []string{"role", "result"}),
		Edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evaluation",
			Name:      "draft_edits_total",
			Help:      "Draft edits by category and result.",
		}, []string{"category", "result"}),
		Commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "evaluation",
			Name:      "commits_total",
			Help:      "Drafts committed to the canonical roster.",
		}),
		OpenDrafts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "evaluation",
			Name:      "open_drafts",
			Help:      "Drafts neither committed nor discarded.",
		}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evaluation",
			Name:      "leaderboard_refreshes_total",
			Help:      "Leaderboard recomputations by result.",
		}, []string{"result"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "evaluation",
			Name:      "leaderboard_refresh_seconds",
			Help:      "Time spent ranking a committed roster.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		SummaryScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "evaluation",
			Name:      "summary_score",
			Help:      "Student summary scores observed on every leaderboard refresh.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Logins, m.Edits, m.Commits, m.OpenDrafts, m.Refreshes, m.RefreshDuration, m.SummaryScores)
	}
	return m
}

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
