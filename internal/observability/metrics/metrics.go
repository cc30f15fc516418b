package metrics

import "github.com/prometheus/client_golang/prometheus"

// SyncMetrics exposes counters/histograms for provider sync actions.
type SyncMetrics struct {
	actionsTotal    *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	m := &SyncMetrics{
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicehub",
			Subsystem: "sync",
			Name:      "actions_total",
			Help:      "Total provider sync actions",
		}, []string{"action", "status"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voicehub",
			Subsystem: "sync",
			Name:      "provider_latency_seconds",
			Help:      "Latency of voice-AI provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.actionsTotal, m.providerLatency)
	return m
}

func (m *SyncMetrics) ObserveAction(action, status string) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(action, status).Inc()
}

func (m *SyncMetrics) ObserveProviderLatency(action string, seconds float64) {
	if m == nil {
		return
	}
	m.providerLatency.WithLabelValues(action).Observe(seconds)
}
