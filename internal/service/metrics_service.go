package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the scheduler
// and the HTTP surface. All record methods are nil-safe so wiring metrics
// stays optional in tests.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	generationRuns     prometheus.Counter
	generationDuration prometheus.Histogram
	lastBestScore      prometheus.Gauge
	placements         prometheus.Gauge
	conflictsDetected  *prometheus.CounterVec
	conflictsResolved  prometheus.Counter
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
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

	generationRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_generation_runs_total",
		Help: "Total timetable generation runs",
	})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "Duration of full generation runs",
		Buckets: prometheus.DefBuckets,
	})

	lastBestScore := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_best_score",
		Help: "Total score of the best proposal from the last run",
	})

	placements := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_best_placements",
		Help: "Placement count of the best proposal from the last run",
	})

	conflictsDetected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_conflicts_detected_total",
		Help: "Conflicts found by detection runs",
	}, []string{"type"})

	conflictsResolved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_conflicts_resolved_total",
		Help: "Conflicts repaired by resolution runs",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, generationRuns, generationDuration,
		lastBestScore, placements, conflictsDetected, conflictsResolved, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generationRuns:     generationRuns,
		generationDuration: generationDuration,
		lastBestScore:      lastBestScore,
		placements:         placements,
		conflictsDetected:  conflictsDetected,
		conflictsResolved:  conflictsResolved,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveGeneration records one full generation run.
func (m *MetricsService) ObserveGeneration(bestScore, bestPlacements int, duration time.Duration) {
	if m == nil {
		return
	}
	m.generationRuns.Inc()
	m.generationDuration.Observe(duration.Seconds())
	m.lastBestScore.Set(float64(bestScore))
	m.placements.Set(float64(bestPlacements))
}

// RecordConflicts counts conflicts found by a detection run.
func (m *MetricsService) RecordConflicts(conflictType string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.conflictsDetected.WithLabelValues(conflictType).Add(float64(count))
}

// RecordResolved counts repaired conflicts.
func (m *MetricsService) RecordResolved(count int) {
	if m == nil || count == 0 {
		return
	}
	m.conflictsResolved.Add(float64(count))
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
