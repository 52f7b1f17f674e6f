package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ObserveScoring(t *testing.T) {
	m := NewManager()

	m.ObserveScoring(KindReliability, OutcomeSuccess, 20*time.Millisecond)
	m.ObserveScoring(KindReliability, OutcomeSuccess, 30*time.Millisecond)
	m.ObserveScoring(KindRisk, OutcomeNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.scoringOperations.WithLabelValues(KindReliability, OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scoringOperations.WithLabelValues(KindRisk, OutcomeNotFound)))
}

func TestManager_NilIsNoop(t *testing.T) {
	var m *Manager

	assert.NotPanics(t, func() {
		m.ObserveScoring(KindRisk, OutcomeError, time.Second)
		m.ObserveBatch(KindRisk, 3)
		m.ObserveHTTP("/health", http.MethodGet, 200, time.Millisecond)
	})
	assert.Nil(t, m.Registry())
}

func TestManager_Handler(t *testing.T) {
	m := NewManager()
	m.ObserveBatch(KindReliability, 12)
	m.ObserveHTTP("/api/v1/ai/model-status", http.MethodGet, http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "insights_batch_size_bucket"))
	assert.True(t, strings.Contains(body, `insights_http_requests_total{method="GET",route="/api/v1/ai/model-status",status="200"} 1`))
}
