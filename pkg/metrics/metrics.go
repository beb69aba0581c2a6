// Package metrics exposes the gateway's Prometheus instrumentation:
// counters and histograms built with promauto.With(registry), and
// nil-receiver-safe methods so the whole sink can be nil when metrics
// are disabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sink holds the gateway's Prometheus collectors.
type Sink struct {
	requestsTotal   *prometheus.CounterVec
	authFailTotal   *prometheus.CounterVec
	cacheHitTotal   prometheus.Counter
	cacheMissTotal  prometheus.Counter
	upstreamOK      prometheus.Counter
	upstreamErr     *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

// New registers the gateway's collectors against reg and returns a Sink.
// Pass nil to disable metrics entirely; every method on a nil *Sink is a
// no-op.
func New(reg *prometheus.Registry) *Sink {
	if reg == nil {
		return nil
	}

	return &Sink{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cachegate_requests_total",
				Help: "Total number of gateway requests by method and status",
			},
			[]string{"method", "status"},
		),
		authFailTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cachegate_auth_fail_total",
				Help: "Total number of authentication failures by method",
			},
			[]string{"method"},
		),
		cacheHitTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "cachegate_cache_hit_total",
				Help: "Total number of cache hits",
			},
		),
		cacheMissTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "cachegate_cache_miss_total",
				Help: "Total number of cache misses",
			},
		),
		upstreamOK: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "cachegate_upstream_ok_total",
				Help: "Total number of successful upstream calls",
			},
		),
		upstreamErr: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cachegate_upstream_err_total",
				Help: "Total number of failed upstream calls by error kind",
			},
			[]string{"error_kind"},
		),
		upstreamLatency: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cachegate_upstream_latency_ms",
				Help:    "Upstream call latency in milliseconds by method",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2000, 5000},
			},
			[]string{"method"},
		),
	}
}

// ObserveRequest records a completed request by method and HTTP status.
func (s *Sink) ObserveRequest(method, status string) {
	if s == nil {
		return
	}
	s.requestsTotal.WithLabelValues(method, status).Inc()
}

// ObserveAuthFail records an authentication failure for method.
func (s *Sink) ObserveAuthFail(method string) {
	if s == nil {
		return
	}
	s.authFailTotal.WithLabelValues(method).Inc()
}

// ObserveCacheHit records a cache hit.
func (s *Sink) ObserveCacheHit() {
	if s == nil {
		return
	}
	s.cacheHitTotal.Inc()
}

// ObserveCacheMiss records a cache miss.
func (s *Sink) ObserveCacheMiss() {
	if s == nil {
		return
	}
	s.cacheMissTotal.Inc()
}

// ObserveUpstream records the outcome and latency of an upstream call.
// errKind is the classified error kind ("" for success) as produced by
// upstream.ErrorKind.
func (s *Sink) ObserveUpstream(method string, duration time.Duration, errKind string) {
	if s == nil {
		return
	}
	if errKind == "" {
		s.upstreamOK.Inc()
	} else {
		s.upstreamErr.WithLabelValues(errKind).Inc()
	}
	s.upstreamLatency.WithLabelValues(method).Observe(float64(duration.Milliseconds()))
}
