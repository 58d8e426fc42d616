package auth

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeAnonymous = "anonymous"
	OutcomeSigned    = "signed"
	OutcomeFailed    = "failed"
	OutcomeVerified  = "verified"
	OutcomeRejected  = "rejected"
)

// Metrics counts signing and verification outcomes. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	requests      *prometheus.CounterVec
	verifications *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sorawallet",
			Subsystem: "auth",
			Name:      "requests_total",
			Help:      "Outbound requests seen by the signing transport, by outcome.",
		}, []string{"outcome"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sorawallet",
			Subsystem: "auth",
			Name:      "verifications_total",
			Help:      "Inbound requests checked by the verifier, by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.verifications)
	}
	return m
}

func (m *Metrics) request(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) verification(outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

// ObserveVerification counts the outcome of one server-side check. Callers
// that run several checks for one request count only the final result.
func (m *Metrics) ObserveVerification(err error) {
	if err != nil {
		m.verification(OutcomeRejected)
		return
	}
	m.verification(OutcomeVerified)
}
