package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"travelogue/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveFilterDuration(duration time.Duration)
	IncSyncEvents(source string)
	IncMalformedTokens(count int)
	IncLoadProblems(count int)
	SetVisitsTotal(count int)
	SetActiveVisits(count int)
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	filterDuration      prometheus.Histogram
	syncEvents          *prometheus.CounterVec
	malformedTokens     prometheus.Counter
	loadProblems        prometheus.Counter
	visitsTotal         prometheus.Gauge
	activeVisits        prometheus.Gauge
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveFilterDuration(duration time.Duration) {
	m.filterDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSyncEvents(source string) {
	m.syncEvents.WithLabelValues(source).Inc()
}

func (m *MetricsProvider) IncMalformedTokens(count int) {
	m.malformedTokens.Add(float64(count))
}

func (m *MetricsProvider) IncLoadProblems(count int) {
	m.loadProblems.Add(float64(count))
}

func (m *MetricsProvider) SetVisitsTotal(count int) {
	m.visitsTotal.Set(float64(count))
}

func (m *MetricsProvider) SetActiveVisits(count int) {
	m.activeVisits.Set(float64(count))
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "travelogue_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travelogue_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "travelogue_view_cache_hits_total",
			Help: "Total number of rendered view cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "travelogue_view_cache_misses_total",
			Help: "Total number of rendered view cache misses",
		}),

		filterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "travelogue_filter_duration_seconds",
			Help:    "Time spent filtering and sorting the log collection",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),

		syncEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "travelogue_sync_events_total",
			Help: "State changes handled by the history sync, by source",
		}, []string{"source"}),

		malformedTokens: promauto.NewCounter(prometheus.CounterOpts{
			Name: "travelogue_malformed_tokens_total",
			Help: "Fragment tokens skipped while decoding",
		}),

		loadProblems: promauto.NewCounter(prometheus.CounterOpts{
			Name: "travelogue_load_problems_total",
			Help: "Dataset records left out of the collection",
		}),

		visitsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "travelogue_visits_total",
			Help: "Number of visits in the loaded collection",
		}),

		activeVisits: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "travelogue_active_visits",
			Help: "Number of visits passing the current filter",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "travelogue_persistence_duration_seconds",
			Help:    "Duration of session persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveFilterDuration(_ time.Duration)            {}
func (n *noopMetrics) IncSyncEvents(_ string)                           {}
func (n *noopMetrics) IncMalformedTokens(_ int)                         {}
func (n *noopMetrics) IncLoadProblems(_ int)                            {}
func (n *noopMetrics) SetVisitsTotal(_ int)                             {}
func (n *noopMetrics) SetActiveVisits(_ int)                            {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
