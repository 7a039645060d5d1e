package webhook

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/m3rciful/quizbot/core/boterr"
	"github.com/m3rciful/quizbot/core/dispatch"
)

// Metrics holds the update counters. A nil *Metrics records nothing.
type Metrics struct {
	updates     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizbot_updates_total",
				Help: "Webhook updates by outcome (ok or the failure kind).",
			},
			[]string{"outcome"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizbot_transitions_total",
				Help: "Completed conversation transitions.",
			},
			[]string{"command", "from", "to"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quizbot_update_duration_seconds",
				Help:    "Time spent handling one webhook update.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.updates, m.transitions, m.duration)
	}
	return m
}

func (m *Metrics) observe(err error, tr *dispatch.Transition, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = boterr.KindOf(err).String()
	}
	m.updates.WithLabelValues(outcome).Inc()
	m.duration.Observe(took.Seconds())
	if err == nil && tr != nil {
		m.transitions.WithLabelValues(tr.Command.String(), tr.From.String(), tr.To.String()).Inc()
	}
}
