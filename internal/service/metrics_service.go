package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the scheduling
// engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	shiftsAssigned  *prometheus.CounterVec
	shiftsSkipped   *prometheus.CounterVec
	clockEvents     *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
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

	shiftsAssigned := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shifts_assigned_total",
		Help: "Shifts assigned by auto-population, labelled by strategy",
	}, []string{"strategy"})

	shiftsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shifts_skipped_total",
		Help: "Auto-population proposals skipped due to conflicts",
	}, []string{"strategy"})

	clockEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clock_events_total",
		Help: "Recorded clock events by kind",
	}, []string{"kind"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "report_cache_hits_total",
		Help: "Report cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "report_cache_misses_total",
		Help: "Report cache misses",
	})

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestDuration,
		requestTotal,
		shiftsAssigned,
		shiftsSkipped,
		clockEvents,
		cacheHits,
		cacheMisses,
	)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		shiftsAssigned:  shiftsAssigned,
		shiftsSkipped:   shiftsSkipped,
		clockEvents:     clockEvents,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the /metrics scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records a finished request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordAssignment tracks an auto-population outcome per strategy.
func (s *MetricsService) RecordAssignment(strategy string, assigned, skipped int) {
	s.shiftsAssigned.WithLabelValues(strategy).Add(float64(assigned))
	s.shiftsSkipped.WithLabelValues(strategy).Add(float64(skipped))
}

// RecordClockEvent tracks a clock-in or clock-out.
func (s *MetricsService) RecordClockEvent(kind string) {
	s.clockEvents.WithLabelValues(kind).Inc()
}

// RecordCacheLookup tracks report cache effectiveness.
func (s *MetricsService) RecordCacheLookup(hit bool) {
	if hit {
		s.cacheHits.Inc()
		return
	}
	s.cacheMisses.Inc()
}
