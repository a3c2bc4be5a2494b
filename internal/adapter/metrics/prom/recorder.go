// Package prom exports diplomacy metrics to Prometheus.
package prom

import (
	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// RESOLUTION METRICS
// =============================================================================

var (
	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "botf2_diplomacy_resolutions_total",
			Help: "Proposals and agreements resolved, by outcome and category",
		},
		[]string{"outcome", "category"}, // outcome: accepted, rejected, broken, expired
	)

	creditsTransferredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "botf2_diplomacy_credits_transferred_total",
			Help: "Credits moved between treasuries by agreements",
		},
	)
)

// =============================================================================
// TURN METRICS
// =============================================================================

var (
	activeAgreements = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "botf2_diplomacy_active_agreements",
			Help: "Agreements in force after the last turn sweep",
		},
	)

	turnDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "botf2_diplomacy_turn_duration_seconds",
			Help:    "Time spent fulfilling agreements at turn end",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)

// =============================================================================
// STORAGE METRICS
// =============================================================================

var mutationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "botf2_diplomacy_mutation_errors_total",
		Help: "Failed state mutations",
	},
	[]string{"kind"}, // kind: conflict, failure
)

// Recorder publishes to Prometheus and forwards every call to Next when set.
type Recorder struct {
	Next ports.DiplomacyMetrics
}

var _ ports.DiplomacyMetrics = Recorder{}

func (r Recorder) RecordResolution(outcome ports.Outcome, category diplomacy.ProposalCategory) {
	resolutionsTotal.WithLabelValues(string(outcome), string(category)).Inc()
	if r.Next != nil {
		r.Next.RecordResolution(outcome, category)
	}
}

func (r Recorder) RecordCreditsTransferred(amount int64) {
	if amount > 0 {
		creditsTransferredTotal.Add(float64(amount))
	}
	if r.Next != nil {
		r.Next.RecordCreditsTransferred(amount)
	}
}

func (r Recorder) RecordTurn(active int, seconds float64) {
	activeAgreements.Set(float64(active))
	turnDurationSeconds.Observe(seconds)
	if r.Next != nil {
		r.Next.RecordTurn(active, seconds)
	}
}

func (r Recorder) RecordConflict() {
	mutationErrorsTotal.WithLabelValues("conflict").Inc()
	if r.Next != nil {
		r.Next.RecordConflict()
	}
}

func (r Recorder) RecordFailure() {
	mutationErrorsTotal.WithLabelValues("failure").Inc()
	if r.Next != nil {
		r.Next.RecordFailure()
	}
}
