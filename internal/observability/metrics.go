package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ai_worker"

// Metrics collects application metrics.
type Metrics interface {
	RecordRequest(ctx context.Context, labels RequestLabels)
	RecordLatency(ctx context.Context, seconds float64, labels RequestLabels)
	RecordBackendError(ctx context.Context, code string)
	RecordToolInvocation(ctx context.Context, tool, outcome string)
	SetCorpusSize(size int)
}

// RequestLabels contains metric dimensions.
type RequestLabels struct {
	RequestedMode string
	ResolvedMode  string
	Outcome       string
}

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// PrometheusMetrics implements Metrics on a private Prometheus registry.
type PrometheusMetrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	backendErrors   *prometheus.CounterVec
	toolInvocations *prometheus.CounterVec
	corpusDocuments prometheus.Gauge
}

// NewPrometheusMetrics registers all collectors on a fresh registry
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	m := &PrometheusMetrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assist_requests_total",
			Help:      "Assist requests by requested mode, resolved mode and outcome.",
		}, []string{"requested_mode", "resolved_mode", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assist_request_duration_seconds",
			Help:      "Assist pipeline latency by resolved mode.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"resolved_mode"}),
		backendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Pipeline errors by stable error code.",
		}, []string{"code"}),
		toolInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_invocations_total",
			Help:      "Tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
		corpusDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_documents",
			Help:      "Documents loaded into the knowledge-base corpus.",
		}),
	}

	registry.MustRegister(
		m.requests,
		m.latency,
		m.backendErrors,
		m.toolInvocations,
		m.corpusDocuments,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry (used by tests)
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *PrometheusMetrics) RecordRequest(_ context.Context, labels RequestLabels) {
	m.requests.WithLabelValues(labels.RequestedMode, labels.ResolvedMode, labels.Outcome).Inc()
}

func (m *PrometheusMetrics) RecordLatency(_ context.Context, seconds float64, labels RequestLabels) {
	m.latency.WithLabelValues(labels.ResolvedMode).Observe(seconds)
}

func (m *PrometheusMetrics) RecordBackendError(_ context.Context, code string) {
	m.backendErrors.WithLabelValues(code).Inc()
}

func (m *PrometheusMetrics) RecordToolInvocation(_ context.Context, tool, outcome string) {
	m.toolInvocations.WithLabelValues(tool, outcome).Inc()
}

func (m *PrometheusMetrics) SetCorpusSize(size int) {
	m.corpusDocuments.Set(float64(size))
}

// NoopMetrics discards everything; used when metrics are disabled and in tests.
type NoopMetrics struct{}

func (NoopMetrics) RecordRequest(context.Context, RequestLabels) {}
func (NoopMetrics) RecordLatency(context.Context, float64, RequestLabels) {}
func (NoopMetrics) RecordBackendError(context.Context, string) {}
func (NoopMetrics) RecordToolInvocation(context.Context, string, string) {}
func (NoopMetrics) SetCorpusSize(int) {}
