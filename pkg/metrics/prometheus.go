// Package metrics provides Prometheus metrics for the venturecast service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Prediction metrics
	venturesTotal  prometheus.Gauge
	scoresComputed *prometheus.CounterVec
	scoringLatency prometheus.Histogram
	activeMode     *prometheus.GaugeVec

	// Calibration metrics
	calibrationEvents  *prometheus.CounterVec
	calibrationOffset  *prometheus.GaugeVec
	brierScore         *prometheus.GaugeVec
	logLoss            *prometheus.GaugeVec
	accuracy           *prometheus.GaugeVec
	averagePrediction  *prometheus.GaugeVec
	calibrationLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueEnqueued   prometheus.Counter
	queueDequeued   prometheus.Counter
	queueRejected   prometheus.Counter
	queueLatency    prometheus.Histogram
	workerCount     prometheus.Gauge
	workerProcessed prometheus.Counter
	workerErrors    prometheus.Counter
	workerLatency   prometheus.Histogram

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "venturecast",
		subsystem:        "predictor",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.venturesTotal = m.gauge("ventures_total", "Number of tracked ventures")
	m.scoresComputed = m.counterVec("scores_computed_total", "Probabilities computed by prediction mode", "mode")
	m.scoringLatency = m.histogram("scoring_latency_milliseconds", "Scoring latency in milliseconds")
	m.activeMode = m.gaugeVec("active_mode", "1 for the active prediction mode, 0 otherwise", "mode")

	m.calibrationEvents = m.counterVec("calibration_events_total", "Recorded outcomes by label", "outcome")
	m.calibrationOffset = m.gaugeVec("calibration_offset", "Current calibration offset in log-odds", "mode")
	m.brierScore = m.gaugeVec("brier_score", "Brier score over the calibration history", "mode")
	m.logLoss = m.gaugeVec("log_loss", "Log-loss over the calibration history", "mode")
	m.accuracy = m.gaugeVec("accuracy_ratio", "Thresholded accuracy over the calibration history", "mode")
	m.averagePrediction = m.gaugeVec("average_prediction", "Mean probability over the tracked ventures", "mode")
	m.calibrationLatency = m.histogram("calibration_latency_milliseconds", "Outcome recording latency in milliseconds")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.queueSize = m.gauge("queue_size", "Current size of the outcome queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum outcome queue capacity")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Observations enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Observations dequeued")
	m.queueRejected = m.counter("queue_rejected_total", "Observations rejected because the queue was full")
	m.queueLatency = m.histogram("queue_processing_latency_milliseconds", "Time from enqueue to apply in milliseconds")
	m.workerCount = m.gauge("worker_count", "Number of running outcome appliers")
	m.workerProcessed = m.counter("worker_processed_total", "Observations applied by workers")
	m.workerErrors = m.counter("worker_errors_total", "Observations that failed to apply")
	m.workerLatency = m.histogram("worker_processing_latency_milliseconds", "Worker apply latency in milliseconds")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint",
		"endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// UpdateVenturesTotal sets the number of tracked ventures.
func UpdateVenturesTotal(count int) {
	globalManager.venturesTotal.Set(float64(count))
}

// RecordScoreComputed counts one probability computed in mode.
func RecordScoreComputed(mode string) {
	globalManager.scoresComputed.WithLabelValues(mode).Inc()
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// UpdateActiveMode marks active as the only mode set to 1.
func UpdateActiveMode(active string, all []string) {
	for _, m := range all {
		v := 0.0
		if m == active {
			v = 1
		}
		globalManager.activeMode.WithLabelValues(m).Set(v)
	}
}

// RecordCalibrationEvent counts one recorded outcome.
func RecordCalibrationEvent(outcome string) {
	globalManager.calibrationEvents.WithLabelValues(outcome).Inc()
}

// RecordCalibrationLatency records outcome recording latency in milliseconds.
func RecordCalibrationLatency(latencyMs float64) {
	globalManager.calibrationLatency.Observe(latencyMs)
}

// UpdateCalibrationOffset sets the offset gauge for mode.
func UpdateCalibrationOffset(mode string, offset float64) {
	globalManager.calibrationOffset.WithLabelValues(mode).Set(offset)
}

// UpdateQualityMetrics publishes the calibration quality figures for mode.
// Nil values leave the corresponding gauge untouched.
func UpdateQualityMetrics(mode string, brier, logLoss, accuracy, avgPrediction *float64) {
	set := func(g *prometheus.GaugeVec, v *float64) {
		if v != nil {
			g.WithLabelValues(mode).Set(*v)
		}
	}
	set(globalManager.brierScore, brier)
	set(globalManager.logLoss, logLoss)
	set(globalManager.accuracy, accuracy)
	set(globalManager.averagePrediction, avgPrediction)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueRejected increments the backpressure counter.
func RecordQueueRejected() {
	globalManager.queueRejected.Inc()
}

// RecordQueueProcessingLatency records enqueue-to-apply latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessed increments the applied observations counter.
func RecordWorkerProcessed() {
	globalManager.workerProcessed.Inc()
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
