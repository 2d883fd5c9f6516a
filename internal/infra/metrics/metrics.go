package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Ozy-Viking/honeybot/internal/domain/enums"
)

const (
	StepBan    = "ban"
	StepNotify = "notify"
)

type Metrics struct {
	Decisions       *prometheus.CounterVec
	EnforcementStep *prometheus.CounterVec
	ContextFailures prometheus.Counter
}

// New registers the bot metrics on reg. A nil reg gets a private registry so
// tests and disabled setups can still record.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		Decisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "honeybot_decisions_total",
			Help: "Moderation decisions by outcome.",
		}, []string{"decision"}),

		EnforcementStep: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "honeybot_enforcement_steps_total",
			Help: "Enforcement step attempts by step and result.",
		}, []string{"step", "result"}),

		ContextFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "honeybot_context_failures_total",
			Help: "Messages dropped because the guild context could not be resolved.",
		}),
	}

	for _, decision := range enums.AllDecisions {
		m.Decisions.WithLabelValues(string(decision))
	}

	return m
}

func (m *Metrics) ObserveDecision(decision enums.Decision) {
	m.Decisions.WithLabelValues(string(decision)).Inc()
}

func (m *Metrics) ObserveStep(step string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EnforcementStep.WithLabelValues(step, result).Inc()
}

func (m *Metrics) ObserveContextFailure() {
	m.ContextFailures.Inc()
}
