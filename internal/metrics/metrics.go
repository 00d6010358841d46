// Package metrics holds the Prometheus instruments for the matching lifecycle.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pkordes/sharespace/backend/internal/domain"
)

// Outcome labels for transition counters.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics tracks matching creations and lifecycle transitions.
type Metrics struct {
	MatchingsCreated   *prometheus.CounterVec
	Transitions        *prometheus.CounterVec
	RuleViolations     *prometheus.CounterVec
	TransitionDuration *prometheus.HistogramVec
}

// New creates the instruments and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MatchingsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sharespace_matchings_created_total",
			Help: "Total number of matchings created, by initial status",
		}, []string{"status"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sharespace_matching_transitions_total",
			Help: "Total number of matching transitions attempted, by operation and outcome",
		}, []string{"operation", "outcome"}),
		RuleViolations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sharespace_matching_rule_violations_total",
			Help: "Total number of rejected transitions, by violated rule",
		}, []string{"rule"}),
		TransitionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sharespace_matching_transition_duration_seconds",
			Help:    "Duration of matching transitions including the database round trip",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementCreated records a new matching in its initial status.
func (m *Metrics) IncrementCreated(status domain.Status) {
	m.MatchingsCreated.WithLabelValues(string(status)).Inc()
}

// ObserveTransition records the outcome and duration of operation.
// Call with time.Now() taken at the start of the operation.
func (m *Metrics) ObserveTransition(operation string, start time.Time, err error) {
	m.TransitionDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	var re *domain.RuleError
	switch {
	case err == nil:
		m.Transitions.WithLabelValues(operation, OutcomeOK).Inc()
	case errors.As(err, &re):
		m.Transitions.WithLabelValues(operation, OutcomeRejected).Inc()
		m.RuleViolations.WithLabelValues(string(re.Rule)).Inc()
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		m.Transitions.WithLabelValues(operation, OutcomeRejected).Inc()
	default:
		m.Transitions.WithLabelValues(operation, OutcomeError).Inc()
	}
}
