// Package metrics provides Prometheus metrics for the sheetboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Manager owns the sheetboard metric set.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Leaderboard
	scoresRecorded  *prometheus.CounterVec
	rowsCreated     *prometheus.CounterVec
	teamNotFound    *prometheus.CounterVec
	scoreboardReads *prometheus.CounterVec

	// Store boundary
	storeRequests *prometheus.CounterVec
	storeLatency  *prometheus.HistogramVec

	// Highlighting
	highlightRequests *prometheus.CounterVec
	highlightFailures *prometheus.CounterVec
	highlightPasses   *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level recorders

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager registered on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sheetboard",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) initializeMetrics() {
	m.scoresRecorded = m.counterVec("scores_recorded_total", "Scores written to the store", "mode")
	m.rowsCreated = m.counterVec("rows_created_total", "Day rows created by the row allocator", "mode")
	m.teamNotFound = m.counterVec("team_not_found_total", "Team names that matched no header", "mode")
	m.scoreboardReads = m.counterVec("scoreboard_reads_total", "Scoreboard reads by outcome", "mode", "outcome")

	m.storeRequests = m.counterVec("store_requests_total", "Tabular store requests", "backend", "op", "outcome")
	m.storeLatency = m.histogramVec("store_request_duration_milliseconds", "Tabular store request latency", "backend", "op")

	m.highlightRequests = m.counterVec("highlight_requests_total", "Cell color requests issued", "mode", "kind")
	m.highlightFailures = m.counterVec("highlight_failures_total", "Cell color requests that failed and were dropped", "mode", "kind")
	m.highlightPasses = m.counterVec("highlight_passes_total", "Highlight passes by winners variant", "mode", "variant")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration", "endpoint", "method", "status_code")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordScore counts a score written for mode.
func (m *Manager) RecordScore(mode string) {
	if m.enabled {
		m.scoresRecorded.WithLabelValues(mode).Inc()
	}
}

// RecordRowCreated counts a newly allocated day row.
func (m *Manager) RecordRowCreated(mode string) {
	if m.enabled {
		m.rowsCreated.WithLabelValues(mode).Inc()
	}
}

// RecordTeamNotFound counts a failed team lookup.
func (m *Manager) RecordTeamNotFound(mode string) {
	if m.enabled {
		m.teamNotFound.WithLabelValues(mode).Inc()
	}
}

// RecordScoreboardRead counts a scoreboard read.
func (m *Manager) RecordScoreboardRead(mode, outcome string) {
	if m.enabled {
		m.scoreboardReads.WithLabelValues(mode, outcome).Inc()
	}
}

// RecordStoreRequest records one store call and its latency.
func (m *Manager) RecordStoreRequest(backend, op, outcome string, latencyMs float64) {
	if m.enabled {
		m.storeRequests.WithLabelValues(backend, op, outcome).Inc()
		m.storeLatency.WithLabelValues(backend, op).Observe(latencyMs)
	}
}

// RecordHighlight records a color request and whether it failed.
func (m *Manager) RecordHighlight(mode, kind string, failed bool) {
	if !m.enabled {
		return
	}
	m.highlightRequests.WithLabelValues(mode, kind).Inc()
	if failed {
		m.highlightFailures.WithLabelValues(mode, kind).Inc()
	}
}

// RecordHighlightPass counts a completed highlight pass.
func (m *Manager) RecordHighlightPass(mode, variant string) {
	if m.enabled {
		m.highlightPasses.WithLabelValues(mode, variant).Inc()
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystem sets the process gauges.
func (m *Manager) UpdateSystem(heapBytes uint64, goroutines int) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(heapBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// Package-level recorders on the global manager.

// RecordScore counts a score written for mode.
func RecordScore(mode string) { globalManager.RecordScore(mode) }

// RecordRowCreated counts a newly allocated day row.
func RecordRowCreated(mode string) { globalManager.RecordRowCreated(mode) }

// RecordTeamNotFound counts a failed team lookup.
func RecordTeamNotFound(mode string) { globalManager.RecordTeamNotFound(mode) }

// RecordScoreboardRead counts a scoreboard read.
func RecordScoreboardRead(mode, outcome string) { globalManager.RecordScoreboardRead(mode, outcome) }

// RecordStoreRequest records one store call and its latency.
func RecordStoreRequest(backend, op, outcome string, latencyMs float64) {
	globalManager.RecordStoreRequest(backend, op, outcome, latencyMs)
}

// RecordHighlight records a color request and whether it failed.
func RecordHighlight(mode, kind string, failed bool) { globalManager.RecordHighlight(mode, kind, failed) }

// RecordHighlightPass counts a completed highlight pass.
func RecordHighlightPass(mode, variant string) { globalManager.RecordHighlightPass(mode, variant) }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// UpdateSystem sets the process gauges.
func UpdateSystem(heapBytes uint64, goroutines int) { globalManager.UpdateSystem(heapBytes, goroutines) }

// GetRegistry returns the registry the global manager is registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
