// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the domain-specific paths worth watching in production: suggestion
// traffic by type, proxy fetch outcomes, and the seller index size.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	suggestTotal    *prometheus.CounterVec
	proxyFetchTotal *prometheus.CounterVec
	proxyFetchBytes prometheus.Histogram

	sellerIndexSize prometheus.Gauge
}

func New(service string) *Metrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"service": service}

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by path, method and status code.",
			ConstLabels: labels,
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by path and method.",
			ConstLabels: labels,
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"path", "method"}),
		requestInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Requests currently being served.",
			ConstLabels: labels,
		}),
		suggestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "suggest_queries_total",
			Help:        "Suggestion queries by type and seller mode.",
			ConstLabels: labels,
		}, []string{"type", "mode"}),
		proxyFetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "proxy_fetch_total",
			Help:        "Document proxy fetches by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		proxyFetchBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "proxy_fetch_bytes",
			Help:        "Size of bodies relayed through the document proxy.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		sellerIndexSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "seller_index_entries",
			Help:        "Entries in the in-memory seller ranking index.",
			ConstLabels: labels,
		}),
	}

	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.requestInFlight,
		m.suggestTotal,
		m.proxyFetchTotal,
		m.proxyFetchBytes,
		m.sellerIndexSize,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveSuggest(typ, mode string) {
	m.suggestTotal.WithLabelValues(typ, mode).Inc()
}

func (m *Metrics) ObserveProxyFetch(outcome string, bytes int) {
	m.proxyFetchTotal.WithLabelValues(outcome).Inc()
	if bytes > 0 {
		m.proxyFetchBytes.Observe(float64(bytes))
	}
}

func (m *Metrics) SetSellerIndexSize(n int) {
	m.sellerIndexSize.Set(float64(n))
}

// Middleware records count, latency and in-flight gauge for every request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		path := normalizePath(r.URL.Path)
		m.requestTotal.WithLabelValues(path, r.Method, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath keeps label cardinality bounded: anything outside the known
// route set collapses into "other".
func normalizePath(path string) string {
	switch {
	case path == "/healthz",
		path == "/results",
		path == "/results/export",
		path == "/suggest",
		path == "/categories",
		path == "/documents",
		path == "/proxy-document",
		path == "/metrics":
		return path
	case strings.HasPrefix(path, "/results/"):
		return "/results/:id"
	default:
		return "other"
	}
}
