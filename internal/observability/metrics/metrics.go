package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for the intake pipeline.
type IntakeMetrics struct {
	turnsTotal       *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	channelFailures  *prometheus.CounterVec
	llmLatency       *prometheus.HistogramVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total conversation turns by outcome",
		}, []string{"outcome"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total booking submissions by status",
		}, []string{"status"}),
		channelFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "booking",
			Name:      "notification_failures_total",
			Help:      "Notification channel failures during fan-out",
		}, []string{"channel"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "intake",
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "Latency of structured generation calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.submissionsTotal, m.channelFailures, m.llmLatency)
	return m
}

// ObserveTurn records a processed conversation turn.
// Outcomes: ai, rule_based, emergency, degraded.
func (m *IntakeMetrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSubmission records a booking submission result.
// Statuses: accepted, rejected, failed.
func (m *IntakeMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

// ObserveChannelFailure records a failed notification channel.
func (m *IntakeMetrics) ObserveChannelFailure(channel string) {
	if m == nil {
		return
	}
	m.channelFailures.WithLabelValues(channel).Inc()
}

// ObserveLLMLatency records one structured generation call.
func (m *IntakeMetrics) ObserveLLMLatency(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(operation, status).Observe(seconds)
}
