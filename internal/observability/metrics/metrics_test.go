package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSyncMetricsObserve(t *testing.T) {
	m := NewSyncMetrics(prometheus.NewRegistry())
	m.ObserveAction("create-agent", "ok")
	m.ObserveAction("delete-agent", "provider_error")
	m.ObserveProviderLatency("create-agent", 0.25)
}

func TestSyncMetricsNilSafe(t *testing.T) {
	var m *SyncMetrics
	m.ObserveAction("create-agent", "ok")
	m.ObserveProviderLatency("create-agent", 0.1)
}
