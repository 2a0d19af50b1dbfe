package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sma-wellbeing-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	storeDuration    *prometheus.HistogramVec
	storeErrors      *prometheus.CounterVec
	storeFallbacks   *prometheus.CounterVec
	redemptionsTotal *prometheus.CounterVec
	starsSpent       prometheus.Counter

	requestCount         uint64
	requestDurationTotal uint64
	storeOpCount         uint64
	storeErrorCount      uint64
	storeFallbackCount   uint64
	redemptionCount      uint64
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

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "record_store_operation_seconds",
		Help:    "Latency of record store blob reads and writes",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "collection"})

	storeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_errors_total",
		Help: "Failed record store blob operations",
	}, []string{"op", "collection"})

	storeFallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_fallbacks_total",
		Help: "Loads answered with seed data because the stored payload was unreadable",
	}, []string{"collection", "reason"})

	redemptionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reward_redemptions_total",
		Help: "Successful reward redemptions",
	}, []string{"reward"})

	starsSpent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reward_stars_spent_total",
		Help: "Stars debited by reward redemptions",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, storeDuration, storeErrors, storeFallbacks, redemptionsTotal, starsSpent, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		storeDuration:    storeDuration,
		storeErrors:      storeErrors,
		storeFallbacks:   storeFallbacks,
		redemptionsTotal: redemptionsTotal,
		starsSpent:       starsSpent,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveStoreOperation records a blob read or write.
func (m *MetricsService) ObserveStoreOperation(op, collection string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(op, collection).Observe(duration.Seconds())
	atomic.AddUint64(&m.storeOpCount, 1)
	if err != nil {
		m.storeErrors.WithLabelValues(op, collection).Inc()
		atomic.AddUint64(&m.storeErrorCount, 1)
	}
}

// RecordStoreFallback counts a load that was answered with seed data.
func (m *MetricsService) RecordStoreFallback(collection, reason string) {
	if m == nil {
		return
	}
	m.storeFallbacks.WithLabelValues(collection, reason).Inc()
	atomic.AddUint64(&m.storeFallbackCount, 1)
}

// RecordRedemption counts a successful redemption and the stars it cost.
func (m *MetricsService) RecordRedemption(reward string, cost int) {
	if m == nil {
		return
	}
	m.redemptionsTotal.WithLabelValues(reward).Inc()
	m.starsSpent.Add(float64(cost))
	atomic.AddUint64(&m.redemptionCount, 1)
}

// Snapshot returns aggregated metrics suitable for the summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		StoreOperations:          atomic.LoadUint64(&m.storeOpCount),
		StoreErrors:              atomic.LoadUint64(&m.storeErrorCount),
		StoreFallbacks:           atomic.LoadUint64(&m.storeFallbackCount),
		Redemptions:              atomic.LoadUint64(&m.redemptionCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
