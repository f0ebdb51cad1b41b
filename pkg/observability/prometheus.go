package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface with Prometheus metrics.
type PrometheusHooks struct {
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	diagnostics    prometheus.Counter
	decodeFailures *prometheus.CounterVec
	cacheOps       *prometheus.CounterVec
	cacheBytes     prometheus.Counter
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewPrometheusHooks creates the metrics and registers them with reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bundledeps_runs_total",
			Help: "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bundledeps_run_seconds",
			Help:    "Duration of pipeline runs.",
			Buckets: prometheus.DefBuckets,
		}),
		diagnostics: f.NewCounter(prometheus.CounterOpts{
			Name: "bundledeps_diagnostics_total",
			Help: "Validation diagnostics reported by pipeline runs.",
		}),
		decodeFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bundledeps_cache_decode_failures_total",
			Help: "Cached dependency streams discarded because they could not be decoded.",
		}, []string{"code"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bundledeps_cache_operations_total",
			Help: "Dependency cache operations by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "bundledeps_cache_written_bytes_total",
			Help: "Bytes written to the dependency cache.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bundledeps_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bundledeps_http_request_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (h *PrometheusHooks) OnRunStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnRunComplete(_ context.Context, _ string, diagnostics int, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	h.runs.WithLabelValues(outcome).Inc()
	h.runDuration.Observe(d.Seconds())
	h.diagnostics.Add(float64(diagnostics))
}

func (h *PrometheusHooks) OnDecodeFailure(_ context.Context, _ string, code string) {
	h.decodeFailures.WithLabelValues(code).Inc()
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
