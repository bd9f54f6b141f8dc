package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry holds every collector exposed on /api/metrics
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Buckets span fast cache hits up to slow CMS queries and build hooks
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Content API (Directus) client metrics
	ContentAPIRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_api_operation_duration_seconds",
			Help:    "Content API operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "collection", "status"},
	)

	ContentAPIRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_api_operation_total",
			Help: "Total number of content API operations",
		},
		[]string{"operation", "collection", "status"},
	)

	ContentFallbacks = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_api_fallback_total",
			Help: "Reads answered with an empty fallback after an upstream failure",
		},
		[]string{"collection"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheSize = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries in cache",
		},
		[]string{"cache_name"},
	)

	CacheInvalidations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidated_entries_total",
			Help: "Entries removed from cache by tag invalidation",
		},
		[]string{"cache_name"},
	)

	// Webhook Metrics
	WebhookEvents = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentbridge_webhook_events_total",
			Help: "Webhook events received per endpoint and outcome",
		},
		[]string{"endpoint", "collection", "outcome"},
	)

	Revalidations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentbridge_revalidations_total",
			Help: "Platform revalidation calls per target kind",
		},
		[]string{"kind", "status"}, // kind: "path" or "tag"
	)

	RevalidationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contentbridge_revalidation_duration_seconds",
			Help:    "Duration of a single platform revalidation call",
			Buckets: CustomAPIBuckets,
		},
		[]string{"kind"},
	)

	BuildTriggers = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentbridge_build_triggers_total",
			Help: "Build hook invocations",
		},
		[]string{"status"},
	)

	Notifications = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentbridge_notifications_total",
			Help: "Notification webhook deliveries",
		},
		[]string{"status"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

func init() {
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// StatusLabel turns an error into the "success"/"error" label value
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
