package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the monitoring pipeline counters.
type Metrics struct {
	FramesRead      atomic.Uint64
	FramesProcessed atomic.Uint64
	ViolationFrames atomic.Uint64

	AlertsSent       atomic.Uint64
	AlertsSuppressed atomic.Uint64
	AlertsDropped    atomic.Uint64

	DetectErrors     atomic.Uint64
	ScreenshotErrors atomic.Uint64
	NotifyErrors     atomic.Uint64
	PublishErrors    atomic.Uint64

	registry *prometheus.Registry
}

// New creates a Metrics instance with Prometheus collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.registerPrometheusMetrics()
	return m
}

// registerPrometheusMetrics registers all counters with Prometheus.
func (m *Metrics) registerPrometheusMetrics() {
	gauges := []struct {
		name string
		help string
		load func() uint64
	}{
		{"safetywatch_frames_read_total", "Total frames read from the video source", m.FramesRead.Load},
		{"safetywatch_frames_processed_total", "Total frames run through detection", m.FramesProcessed.Load},
		{"safetywatch_violation_frames_total", "Total frames containing at least one violation", m.ViolationFrames.Load},
		{"safetywatch_alerts_sent_total", "Total alerts authorized for dispatch", m.AlertsSent.Load},
		{"safetywatch_alerts_suppressed_total", "Total alerts suppressed by the cooldown", m.AlertsSuppressed.Load},
		{"safetywatch_alerts_dropped_total", "Total alerts dropped because the queue was full", m.AlertsDropped.Load},
		{"safetywatch_detect_errors_total", "Total detection failures", m.DetectErrors.Load},
		{"safetywatch_screenshot_errors_total", "Total screenshot write failures", m.ScreenshotErrors.Load},
		{"safetywatch_notify_errors_total", "Total notification delivery failures", m.NotifyErrors.Load},
		{"safetywatch_publish_errors_total", "Total event publish failures", m.PublishErrors.Load},
	}

	for _, g := range gauges {
		load := g.load
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: g.name, Help: g.help},
			func() float64 { return float64(load()) },
		))
	}
}

// Handler returns the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
