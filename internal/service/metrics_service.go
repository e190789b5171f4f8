package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the resolution engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	resolveTotal    *prometheus.CounterVec
	viewCacheHits   prometheus.Counter
	viewCacheMisses prometheus.Counter
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	resolveTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_resolve_total",
		Help: "Resolve calls by resolution source",
	}, []string{"source"})

	viewCacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_view_cache_hits_total",
		Help: "Cached week views served",
	})

	viewCacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_view_cache_misses_total",
		Help: "Week views computed from the resolver",
	})

	registry.MustRegister(requestDuration, requestTotal, resolveTotal, viewCacheHits, viewCacheMisses)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		resolveTotal:    resolveTotal,
		viewCacheHits:   viewCacheHits,
		viewCacheMisses: viewCacheMisses,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one handled request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordResolve counts a resolve call by its winning source.
func (s *MetricsService) RecordResolve(source string) {
	s.resolveTotal.WithLabelValues(source).Inc()
}

// RecordViewCache counts a week-view cache lookup.
func (s *MetricsService) RecordViewCache(hit bool) {
	if hit {
		s.viewCacheHits.Inc()
		return
	}
	s.viewCacheMisses.Inc()
}
