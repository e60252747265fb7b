// Package metrics provides Prometheus metrics for the velocast demand service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the velocast service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Training Metrics
	trainingRuns     *prometheus.CounterVec
	trainingDuration prometheus.Histogram
	trainingRows     prometheus.Gauge
	forestTrees      prometheus.Gauge
	forestNodes      prometheus.Gauge

	// Model Lifecycle Metrics
	modelLoaded      prometheus.Gauge
	modelCreatedUnix prometheus.Gauge
	modelReloads     *prometheus.CounterVec

	// Prediction Metrics
	predictions          prometheus.Counter
	predictionLatency    prometheus.Histogram
	predictionErrors     *prometheus.CounterVec
	predictionOutOfRange prometheus.Counter

	// Storage and Source Metrics
	artifactOperations *prometheus.CounterVec
	artifactLatency    *prometheus.HistogramVec
	artifactBytes      prometheus.Gauge
	recordsRead        *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "velocast",
		subsystem:        "demand",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	// Training
	m.trainingRuns = auto.NewCounterVec(
		m.counterOpts("training_runs_total", "Total number of training runs by outcome"),
		[]string{"status"},
	)
	m.trainingDuration = auto.NewHistogram(m.histogramOpts(
		"training_duration_seconds",
		"Wall-clock duration of training runs in seconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
	))
	m.trainingRows = auto.NewGauge(m.gaugeOpts("training_rows", "Rows used by the most recent training run"))
	m.forestTrees = auto.NewGauge(m.gaugeOpts("forest_trees", "Trees in the most recently fitted forest"))
	m.forestNodes = auto.NewGauge(m.gaugeOpts("forest_nodes", "Nodes across all trees of the most recently fitted forest"))

	// Model lifecycle
	m.modelLoaded = auto.NewGauge(m.gaugeOpts("model_loaded", "1 when a fitted model is available for prediction"))
	m.modelCreatedUnix = auto.NewGauge(m.gaugeOpts(
		"model_created_timestamp_seconds",
		"Creation time of the loaded model as a unix timestamp",
	))
	m.modelReloads = auto.NewCounterVec(
		m.counterOpts("model_reloads_total", "Total number of model reload attempts by outcome"),
		[]string{"status"},
	)

	// Prediction
	m.predictions = auto.NewCounter(m.counterOpts("predictions_total", "Total number of successful predictions"))
	m.predictionLatency = auto.NewHistogram(m.histogramOpts(
		"prediction_latency_milliseconds",
		"Histogram of single prediction latency in milliseconds",
		m.histogramBuckets,
	))
	m.predictionErrors = auto.NewCounterVec(
		m.counterOpts("prediction_errors_total", "Total number of failed predictions by error kind"),
		[]string{"kind"},
	)
	m.predictionOutOfRange = auto.NewCounter(m.counterOpts(
		"prediction_out_of_range_total",
		"Predictions that fell outside the target range seen in training",
	))

	// Storage and source
	m.artifactOperations = auto.NewCounterVec(
		m.counterOpts("artifact_operations_total", "Artifact store operations by backend, operation and outcome"),
		[]string{"backend", "operation", "status"},
	)
	m.artifactLatency = auto.NewHistogramVec(
		m.histogramOpts("artifact_operation_latency_milliseconds", "Artifact store operation latency in milliseconds", m.histogramBuckets),
		[]string{"backend", "operation"},
	)
	m.artifactBytes = auto.NewGauge(m.gaugeOpts("artifact_bytes", "Encoded size of the most recently written artifact"))
	m.recordsRead = auto.NewCounterVec(
		m.counterOpts("source_records_read_total", "Historical records read by source format"),
		[]string{"format"},
	)

	// HTTP
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	// System
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Training Metrics Functions.

// RecordTrainingRun records the outcome and duration of one training run.
func RecordTrainingRun(status string, duration time.Duration) {
	globalManager.trainingRuns.WithLabelValues(status).Inc()
	globalManager.trainingDuration.Observe(duration.Seconds())
}

// UpdateTrainingRows sets the number of rows used by the latest training run.
func UpdateTrainingRows(rows int) {
	globalManager.trainingRows.Set(float64(rows))
}

// UpdateForestSize sets the tree and node counts of the latest fitted forest.
func UpdateForestSize(trees, nodes int) {
	globalManager.forestTrees.Set(float64(trees))
	globalManager.forestNodes.Set(float64(nodes))
}

// Model Lifecycle Functions.

// SetModelLoaded flags whether a model is available for prediction.
func SetModelLoaded(loaded bool) {
	if loaded {
		globalManager.modelLoaded.Set(1)
		return
	}
	globalManager.modelLoaded.Set(0)
}

// UpdateModelCreated sets the creation time of the loaded model.
func UpdateModelCreated(t time.Time) {
	globalManager.modelCreatedUnix.Set(float64(t.Unix()))
}

// RecordModelReload records a reload attempt.
func RecordModelReload(status string) {
	globalManager.modelReloads.WithLabelValues(status).Inc()
}

// Prediction Metrics Functions.

// RecordPrediction records a successful prediction and its latency in milliseconds.
func RecordPrediction(latencyMs float64) {
	globalManager.predictions.Inc()
	globalManager.predictionLatency.Observe(latencyMs)
}

// RecordPredictionError increments the failed prediction counter for an error kind.
func RecordPredictionError(kind string) {
	globalManager.predictionErrors.WithLabelValues(kind).Inc()
}

// RecordPredictionOutOfRange increments the out-of-range prediction counter.
func RecordPredictionOutOfRange() {
	globalManager.predictionOutOfRange.Inc()
}

// Storage and Source Functions.

// RecordArtifactOperation records an artifact store operation and its latency.
func RecordArtifactOperation(backend, operation, status string, latencyMs float64) {
	globalManager.artifactOperations.WithLabelValues(backend, operation, status).Inc()
	globalManager.artifactLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// UpdateArtifactBytes sets the encoded size of the latest written artifact.
func UpdateArtifactBytes(n int) {
	globalManager.artifactBytes.Set(float64(n))
}

// RecordRecordsRead adds n to the records read counter for a source format.
func RecordRecordsRead(format string, n int) {
	globalManager.recordsRead.WithLabelValues(format).Add(float64(n))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
