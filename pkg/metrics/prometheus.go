// Package metrics provides Prometheus metrics for the ViperDraft service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values.
const (
	PickAuto   = "auto"
	PickManual = "manual"

	RejectInfeasible  = "infeasible"
	RejectUnavailable = "unavailable"

	SolveSuccess   = "success"
	SolveExhausted = "exhausted"
	SolveCancelled = "cancelled"
)

// attemptBuckets cover one-shot solves up to the default budget of 1000.
var attemptBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the ViperDraft service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Draft Metrics
	draftLoads      prometheus.Counter
	picks           *prometheus.CounterVec
	pickRejections  *prometheus.CounterVec
	duplicatePicks  prometheus.Counter
	undos           prometheus.Counter
	swaps           prometheus.Counter
	solveRuns       *prometheus.CounterVec
	solveAttempts   prometheus.Histogram
	solveDuration   prometheus.Histogram
	draftProgress   prometheus.Gauge
	candidatesTotal prometheus.Gauge

	// Snapshot Metrics
	snapshotSaves       prometheus.Counter
	snapshotErrors      prometheus.Counter
	snapshotSaveLatency prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue Metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker Metrics
	workerActive            prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram

	// Error Metrics
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "viperdraft",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.customLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Draft Metrics
	m.draftLoads = auto.NewCounter(m.counterOpts("draft_loads_total", "Total number of drafts started"))
	m.picks = auto.NewCounterVec(m.counterOpts("picks_total", "Total number of committed picks by kind"), []string{"kind"})
	m.pickRejections = auto.NewCounterVec(m.counterOpts("pick_rejections_total", "Total number of picks that could not be committed by reason"), []string{"reason"})
	m.duplicatePicks = auto.NewCounter(m.counterOpts("duplicate_picks_total", "Total number of pick requests ignored as replays"))
	m.undos = auto.NewCounter(m.counterOpts("undos_total", "Total number of undone picks"))
	m.swaps = auto.NewCounter(m.counterOpts("swaps_total", "Total number of roster swaps"))
	m.solveRuns = auto.NewCounterVec(m.counterOpts("solve_runs_total", "Total number of auto drafts by outcome"), []string{"outcome"})
	m.solveAttempts = auto.NewHistogram(m.histogramOpts("solve_attempts", "Attempts used per auto draft", attemptBuckets))
	m.solveDuration = auto.NewHistogram(m.histogramOpts("solve_duration_milliseconds", "Auto draft duration in milliseconds", m.histogramBuckets))
	m.draftProgress = auto.NewGauge(m.gaugeOpts("draft_progress_percent", "Share of picks made in the active draft"))
	m.candidatesTotal = auto.NewGauge(m.gaugeOpts("candidates_total", "Number of imported candidates"))

	// Snapshot Metrics
	m.snapshotSaves = auto.NewCounter(m.counterOpts("snapshot_saves_total", "Total number of persisted draft snapshots"))
	m.snapshotErrors = auto.NewCounter(m.counterOpts("snapshot_errors_total", "Total number of failed snapshot saves or loads"))
	m.snapshotSaveLatency = auto.NewHistogram(m.histogramOpts("snapshot_save_latency_milliseconds", "Snapshot save latency in milliseconds", m.histogramBuckets))

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	// Queue Metrics
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of pending solve jobs"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum number of pending solve jobs"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of enqueued solve jobs"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of dequeued solve jobs"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of rejected solve jobs"))

	// Worker Metrics
	m.workerActive = auto.NewGauge(m.gaugeOpts("worker_active", "Number of workers currently running a job"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Solve job processing latency in milliseconds", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of failed solve jobs"))

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: "system", Name: "memory_usage_bytes", Help: "System memory usage in bytes", ConstLabels: m.customLabels})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: "system", Name: "goroutines", Help: "Number of goroutines", ConstLabels: m.customLabels})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: "system", Name: "gc_pause_milliseconds", Help: "Average GC pause time in milliseconds", Buckets: m.histogramBuckets, ConstLabels: m.customLabels})

	// Error Metrics
	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_total", "Errors by component and type"), []string{"component", "type"})
}

// Draft Metrics Functions.

// RecordDraftLoad increments the draft loads counter.
func RecordDraftLoad() { globalManager.draftLoads.Inc() }

// RecordPick counts a committed pick.
func RecordPick(manual bool) {
	kind := PickAuto
	if manual {
		kind = PickManual
	}
	globalManager.picks.WithLabelValues(kind).Inc()
}

// RecordPickRejected counts a pick that was not committed.
func RecordPickRejected(reason string) { globalManager.pickRejections.WithLabelValues(reason).Inc() }

// RecordDuplicatePick counts a replayed pick request.
func RecordDuplicatePick() { globalManager.duplicatePicks.Inc() }

// RecordUndo increments the undo counter.
func RecordUndo() { globalManager.undos.Inc() }

// RecordSwap increments the swap counter.
func RecordSwap() { globalManager.swaps.Inc() }

// RecordSolve records one auto draft run.
func RecordSolve(outcome string, attempts int, durationMs float64) {
	globalManager.solveRuns.WithLabelValues(outcome).Inc()
	globalManager.solveAttempts.Observe(float64(attempts))
	globalManager.solveDuration.Observe(durationMs)
}

// UpdateDraftProgress sets the progress of the active draft.
func UpdateDraftProgress(percent float64) { globalManager.draftProgress.Set(percent) }

// UpdateCandidatesTotal sets the imported candidate count.
func UpdateCandidatesTotal(count int) { globalManager.candidatesTotal.Set(float64(count)) }

// Snapshot Metrics Functions.

// RecordSnapshotSave records a persisted snapshot and its latency.
func RecordSnapshotSave(latencyMs float64) {
	globalManager.snapshotSaves.Inc()
	globalManager.snapshotSaveLatency.Observe(latencyMs)
}

// RecordSnapshotError increments the snapshot error counter.
func RecordSnapshotError() { globalManager.snapshotErrors.Inc() }

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueueRate.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeueRate.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// Worker Metrics Functions.

// UpdateWorkerActive sets the number of workers running a job.
func UpdateWorkerActive(count int) { globalManager.workerActive.Set(float64(count)) }

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) { globalManager.workerProcessingLatency.Observe(latencyMs) }

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
