// Package metrics provides prometheus instrumentation for the live analysis
// engine and the bundled demo backend.  The engine depends only on the
// Recorder interface; NewNopRecorder keeps tests and metric-less sessions
// free of a registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the engine-side metrics contract.  The label is always the
// analysis mode ("linear" | "planar").
type Recorder interface {
	// DebounceFired counts debounce windows that reached quiescence.
	DebounceFired(mode string)

	// RequestIssued counts analyze requests actually sent.
	RequestIssued(mode string)

	// RequestCancelled counts in-flight requests aborted by a newer one.
	RequestCancelled(mode string)

	// RequestWithheld counts executions skipped on incomplete input.
	RequestWithheld(mode string)

	// RequestSucceeded records a settled request and its round-trip time.
	RequestSucceeded(mode string, elapsed time.Duration)

	// RequestFailed counts transport or server-signalled failures.
	RequestFailed(mode string)
}

type nopRecorder struct{}

func (nopRecorder) DebounceFired(string)                    {}
func (nopRecorder) RequestIssued(string)                    {}
func (nopRecorder) RequestCancelled(string)                 {}
func (nopRecorder) RequestWithheld(string)                  {}
func (nopRecorder) RequestSucceeded(string, time.Duration)  {}
func (nopRecorder) RequestFailed(string)                    {}

// NewNopRecorder returns a Recorder that discards all observations.
func NewNopRecorder() Recorder { return nopRecorder{} }

// EngineRecorder implements Recorder on a dedicated prometheus registry.
type EngineRecorder struct {
	registry  *prometheus.Registry
	debounce  *prometheus.CounterVec
	issued    *prometheus.CounterVec
	cancelled *prometheus.CounterVec
	withheld  *prometheus.CounterVec
	failed    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inflight  *prometheus.GaugeVec
}

// NewRecorder constructs a prometheus-backed Recorder with its own registry,
// exposed via Handler().
func NewRecorder() *EngineRecorder {
	r := &EngineRecorder{registry: prometheus.NewRegistry()}

	r.debounce = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beamtune", Subsystem: "engine",
		Name: "debounce_fired_total",
		Help: "Debounce windows that reached quiescence and triggered execution.",
	}, []string{"mode"})
	r.issued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beamtune", Subsystem: "engine",
		Name: "requests_issued_total",
		Help: "Analyze requests sent to the analysis service.",
	}, []string{"mode"})
	r.cancelled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beamtune", Subsystem: "engine",
		Name: "requests_cancelled_total",
		Help: "In-flight requests aborted because a newer one superseded them.",
	}, []string{"mode"})
	r.withheld = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beamtune", Subsystem: "engine",
		Name: "requests_withheld_total",
		Help: "Executions skipped because the parameter set was incomplete.",
	}, []string{"mode"})
	r.failed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beamtune", Subsystem: "engine",
		Name: "requests_failed_total",
		Help: "Requests that settled with a transport or server error.",
	}, []string{"mode"})
	r.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "beamtune", Subsystem: "engine",
		Name:    "request_duration_seconds",
		Help:    "Round-trip time of successful analyze requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	r.inflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "beamtune", Subsystem: "engine",
		Name: "requests_in_flight",
		Help: "Analyze requests issued but not yet settled or cancelled.",
	}, []string{"mode"})

	r.registry.MustRegister(r.debounce, r.issued, r.cancelled, r.withheld, r.failed, r.duration, r.inflight)
	return r
}

func (r *EngineRecorder) DebounceFired(mode string)   { r.debounce.WithLabelValues(mode).Inc() }
func (r *EngineRecorder) RequestWithheld(mode string) { r.withheld.WithLabelValues(mode).Inc() }

func (r *EngineRecorder) RequestIssued(mode string) {
	r.issued.WithLabelValues(mode).Inc()
	r.inflight.WithLabelValues(mode).Inc()
}

// A cancelled request never reaches RequestSucceeded or RequestFailed, so
// every settlement path decrements the gauge exactly once.
func (r *EngineRecorder) RequestCancelled(mode string) {
	r.cancelled.WithLabelValues(mode).Inc()
	r.inflight.WithLabelValues(mode).Dec()
}

func (r *EngineRecorder) RequestFailed(mode string) {
	r.failed.WithLabelValues(mode).Inc()
	r.inflight.WithLabelValues(mode).Dec()
}

func (r *EngineRecorder) RequestSucceeded(mode string, elapsed time.Duration) {
	r.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	r.inflight.WithLabelValues(mode).Dec()
}

// Handler serves the recorder's registry in the prometheus text format.
func (r *EngineRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ServerMetrics instruments the demo backend's HTTP surface.
type ServerMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewServerMetrics constructs demo-backend metrics on a dedicated registry.
func NewServerMetrics() *ServerMetrics {
	m := &ServerMetrics{registry: prometheus.NewRegistry()}

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beamtune", Subsystem: "demo",
		Name: "http_requests_total",
		Help: "HTTP requests served by the demo analysis backend.",
	}, []string{"path", "status"})
	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "beamtune", Subsystem: "demo",
		Name:    "http_request_duration_seconds",
		Help:    "Latency of demo analysis backend requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	m.registry.MustRegister(m.requests, m.duration)
	return m
}

// Middleware returns a gin middleware recording request count and latency.
func (m *ServerMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requests.WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the demo backend's registry.
func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
