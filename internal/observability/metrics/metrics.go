package metrics

import "github.com/prometheus/client_golang/prometheus"

// HoneypotMetrics exposes counters/histograms for the decision pipeline.
type HoneypotMetrics struct {
	decisionsTotal   *prometheus.CounterVec
	providerAttempts *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	callbackTotal    *prometheus.CounterVec
	injectionSignals *prometheus.CounterVec
	replyGuardTotal  *prometheus.CounterVec
}

func NewHoneypotMetrics(reg prometheus.Registerer) *HoneypotMetrics {
	m := &HoneypotMetrics{
		decisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Subsystem: "decision",
			Name:      "total",
			Help:      "Decisions by outcome (not_scam, engaged, agent_unavailable)",
		}, []string{"outcome"}),
		providerAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Subsystem: "llm",
			Name:      "attempts_total",
			Help:      "Generation attempts per provider, task and status",
		}, []string{"provider", "task", "status"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "honeypot",
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "Latency of single provider attempts",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 8, 10, 15, 20, 30},
		}, []string{"provider", "task"}),
		callbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Subsystem: "report",
			Name:      "deliveries_total",
			Help:      "Report deliveries by sink and status",
		}, []string{"sink", "status"}),
		injectionSignals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Subsystem: "guard",
			Name:      "injection_signals_total",
			Help:      "Prompt-injection signals seen in inbound messages",
		}, []string{"reason"}),
		replyGuardTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Subsystem: "guard",
			Name:      "reply_interventions_total",
			Help:      "Outbound replies scrubbed or replaced by the reply guard",
		}, []string{"action"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.decisionsTotal, m.providerAttempts, m.providerLatency, m.callbackTotal, m.injectionSignals, m.replyGuardTotal)
	return m
}

func (m *HoneypotMetrics) ObserveDecision(outcome string) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(outcome).Inc()
}

func (m *HoneypotMetrics) ObserveProviderAttempt(provider, task, status string, seconds float64) {
	if m == nil {
		return
	}
	m.providerAttempts.WithLabelValues(provider, task, status).Inc()
	m.providerLatency.WithLabelValues(provider, task).Observe(seconds)
}

func (m *HoneypotMetrics) ObserveDelivery(sink string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.callbackTotal.WithLabelValues(sink, status).Inc()
}

func (m *HoneypotMetrics) ObserveInjectionSignal(reason string) {
	if m == nil {
		return
	}
	m.injectionSignals.WithLabelValues(reason).Inc()
}

func (m *HoneypotMetrics) ObserveReplyGuard(action string) {
	if m == nil {
		return
	}
	m.replyGuardTotal.WithLabelValues(action).Inc()
}
