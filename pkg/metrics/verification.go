package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// VerificationMetrics counts onboarding submissions and admin decisions.
type VerificationMetrics struct {
	steps     *prometheus.CounterVec
	decisions *prometheus.CounterVec
}

// NewVerificationMetrics registers the vendor workflow metrics on the provided registerer.
func NewVerificationMetrics(reg prometheus.Registerer) *VerificationMetrics {
	if reg == nil {
		return &VerificationMetrics{}
	}
	steps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vendor_onboarding_submissions_total",
		Help: "Vendor onboarding step submissions by step and result.",
	}, []string{"step", "result"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vendor_verification_decisions_total",
		Help: "Admin verification decisions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(steps, decisions)
	return &VerificationMetrics{
		steps:     steps,
		decisions: decisions,
	}
}

// ObserveStep records a step submission; result is "ok" or the error code.
func (m *VerificationMetrics) ObserveStep(step, result string) {
	if m == nil || m.steps == nil {
		return
	}
	m.steps.WithLabelValues(normalizeLabel(step), normalizeLabel(result)).Inc()
}

// ObserveDecision records verified, rejected or cleared outcomes.
func (m *VerificationMetrics) ObserveDecision(outcome string) {
	if m == nil || m.decisions == nil {
		return
	}
	m.decisions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
