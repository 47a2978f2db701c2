// Package metrics provides Prometheus metrics for the jobdeck search service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the jobdeck service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Pipeline Metrics - What flows through ingestion
	jobsIngested    prometheus.Counter
	jobsDuplicate   prometheus.Counter
	fieldsDefaulted prometheus.Counter
	samplesCreated  prometheus.Counter

	// Search Metrics - Core request path
	searchLatency    prometheus.Histogram
	searchesByPhase  *prometheus.CounterVec
	duplicatesPruned prometheus.Counter

	// Provider Metrics - External board health
	providerFetches       *prometheus.CounterVec
	providerErrors        *prometheus.CounterVec
	providerFetchDuration *prometheus.HistogramVec

	// Cache Metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// Repository Metrics
	repositoryJobs         prometheus.Gauge
	repositoryQueryLatency prometheus.Histogram
	repositoryWriteLatency prometheus.Histogram

	// Queue Metrics - Ingest queue performance
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker Metrics - Ingest worker pool
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "jobdeck",
		subsystem:        "search",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Pipeline Metrics
	m.jobsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_ingested_total",
		Help:      "Total number of jobs normalized and persisted",
	})

	m.jobsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_duplicate_total",
		Help:      "Total number of incoming jobs rejected as duplicates",
	})

	m.fieldsDefaulted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fields_defaulted_total",
		Help:      "Total number of job fields replaced with defaults during normalization",
	})

	m.samplesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "samples_created_total",
		Help:      "Total number of sample jobs generated to fill thin result sets",
	})

	// Search Metrics
	m.searchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "search_latency_milliseconds",
		Help:      "Histogram of end to end search latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.searchesByPhase = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "searches_by_phase_total",
			Help:      "Total number of searches by resolution phase",
		},
		[]string{"strategy", "phase"},
	)

	m.duplicatesPruned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicates_pruned_total",
		Help:      "Total number of duplicates removed while assembling search results",
	})

	// Provider Metrics
	m.providerFetches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_fetches_total",
			Help:      "Total number of external provider fetches by provider and country",
		},
		[]string{"provider", "country"},
	)

	m.providerErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_errors_total",
			Help:      "Total number of external provider failures by provider",
		},
		[]string{"provider"},
	)

	m.providerFetchDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_fetch_duration_milliseconds",
			Help:      "External provider fetch duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"provider"},
	)

	// Cache Metrics
	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of search cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of search cache misses",
	})

	// Repository Metrics
	m.repositoryJobs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_jobs_total",
		Help:      "Total number of jobs held in the repository",
	})

	m.repositoryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_query_latency_milliseconds",
		Help:      "Repository query operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.repositoryWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_write_latency_milliseconds",
		Help:      "Repository write operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Queue Metrics
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the ingest queue (backlog indicator)",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum ingest queue capacity",
	})

	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of raw jobs enqueued for ingestion",
	})

	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of raw jobs dequeued for processing",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of enqueue failures (queue full or closed)",
	})

	// Worker Metrics
	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of active ingest workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Ingest worker processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrorRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of ingest worker errors",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordJobIngested increments the ingested jobs counter.
func RecordJobIngested() {
	globalManager.jobsIngested.Inc()
}

// RecordJobDuplicate increments the duplicate jobs counter.
func RecordJobDuplicate() {
	globalManager.jobsDuplicate.Inc()
}

// RecordFieldsDefaulted adds to the defaulted fields counter.
func RecordFieldsDefaulted(n int) {
	if n > 0 {
		globalManager.fieldsDefaulted.Add(float64(n))
	}
}

// RecordSamplesCreated adds to the generated sample jobs counter.
func RecordSamplesCreated(n int) {
	if n > 0 {
		globalManager.samplesCreated.Add(float64(n))
	}
}

// RecordSearchLatency records end to end search latency in milliseconds.
func RecordSearchLatency(latencyMs float64) {
	globalManager.searchLatency.Observe(latencyMs)
}

// RecordSearch counts a search by its strategy and resolution phase.
func RecordSearch(strategy, phase string) {
	globalManager.searchesByPhase.WithLabelValues(strategy, phase).Inc()
}

// RecordDuplicatesPruned adds to the pruned duplicates counter.
func RecordDuplicatesPruned(n int) {
	if n > 0 {
		globalManager.duplicatesPruned.Add(float64(n))
	}
}

// RecordProviderFetch counts a provider fetch for a country.
func RecordProviderFetch(provider, country string) {
	globalManager.providerFetches.WithLabelValues(provider, country).Inc()
}

// RecordProviderError counts a provider failure.
func RecordProviderError(provider string) {
	globalManager.providerErrors.WithLabelValues(provider).Inc()
}

// RecordProviderFetchDuration records a provider fetch duration in milliseconds.
func RecordProviderFetchDuration(provider string, durationMs float64) {
	globalManager.providerFetchDuration.WithLabelValues(provider).Observe(durationMs)
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// UpdateRepositoryJobs sets the total number of jobs in the repository.
func UpdateRepositoryJobs(count int) {
	globalManager.repositoryJobs.Set(float64(count))
}

// RecordRepositoryQueryLatency records repository query operation latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordRepositoryWriteLatency records repository write operation latency.
func RecordRepositoryWriteLatency(latencyMs float64) {
	globalManager.repositoryWriteLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current ingest queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum ingest queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerActiveCount sets the number of active ingest workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records ingest worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the ingest worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
