package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_Record(t *testing.T) {
	ctx := context.Background()
	m := NewPrometheusMetrics()

	labels := RequestLabels{RequestedMode: "auto", ResolvedMode: "rag_only", Outcome: OutcomeSuccess}
	m.RecordRequest(ctx, labels)
	m.RecordRequest(ctx, labels)
	m.RecordLatency(ctx, 0.2, labels)
	m.RecordBackendError(ctx, "ollama_invalid_json")
	m.RecordToolInvocation(ctx, "system_info", OutcomeError)
	m.SetCorpusSize(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("auto", "rag_only", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendErrors.WithLabelValues("ollama_invalid_json")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolInvocations.WithLabelValues("system_info", OutcomeError)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.corpusDocuments))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}

func TestPrometheusMetrics_Handler(t *testing.T) {
	m := NewPrometheusMetrics()
	m.SetCorpusSize(3)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ai_worker_corpus_documents 3")
}

func TestNoopMetrics(t *testing.T) {
	var m Metrics = NoopMetrics{}

	assert.NotPanics(t, func() {
		m.RecordRequest(context.Background(), RequestLabels{})
		m.RecordLatency(context.Background(), 1, RequestLabels{})
		m.RecordBackendError(context.Background(), "x")
		m.RecordToolInvocation(context.Background(), "list_kb_files", OutcomeSuccess)
		m.SetCorpusSize(1)
	})
}
