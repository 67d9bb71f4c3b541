package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/example/fundplan/internal/ports/primary"
)

// Commit outcome labels.
const (
	CommitOutcomeCommitted = "committed"
	CommitOutcomeUnchanged = "unchanged"
	CommitOutcomeFailed    = "failed"
)

// Metrics counts draft activity. A nil *Metrics records nothing.
type Metrics struct {
	mutations      *prometheus.CounterVec
	commits        *prometheus.CounterVec
	commitDuration prometheus.Histogram
}

// NewMetrics registers the draft metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundplan_phase_mutations_total",
				Help: "Draft phase mutations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		commits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundplan_commits_total",
				Help: "Draft commits by outcome",
			},
			[]string{"outcome"},
		),
		commitDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fundplan_commit_duration_seconds",
				Help:    "Time spent sending a draft to persistence",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
		),
	}
}

func (m *Metrics) observeMutation(op primary.OpKind, outcome primary.Outcome) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(string(op), string(outcome)).Inc()
}

func (m *Metrics) observeCommit(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(outcome).Inc()
	if outcome != CommitOutcomeUnchanged {
		m.commitDuration.Observe(elapsed.Seconds())
	}
}
