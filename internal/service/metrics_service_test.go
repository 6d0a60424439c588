package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceGeneration(t *testing.T) {
	m := NewMetricsService()

	m.ObserveGeneration(time.Second, 20, 0, 0, nil)
	m.ObserveGeneration(time.Second, 10, 2, 1, nil)
	m.ObserveGeneration(time.Second, 99, 9, 9, errors.New("boom"))

	assert.Equal(t, 30.0, testutil.ToFloat64(m.entriesPlaced))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.conflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks))
	assert.Equal(t, 3, testutil.CollectAndCount(m.generationDuration))
}

func TestMetricsServiceCacheRatio(t *testing.T) {
	m := NewMetricsService()

	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)

	assert.Equal(t, 0.75, testutil.ToFloat64(m.cacheHitRatio))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.cacheHits))
}

func TestMetricsServiceLifecycleAndPublish(t *testing.T) {
	m := NewMetricsService()

	m.ObservePublished(2)
	m.ObservePublished(0)
	m.ObserveLifecycle("delete", nil)
	m.ObserveLifecycle("delete", errors.New("x"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.published))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lifecycleOps.WithLabelValues("delete", "error")))
}

func TestMetricsServiceHandler(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/schedule", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))

	var nilSvc *MetricsService
	rec = httptest.NewRecorder()
	nilSvc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	nilSvc.ObserveGeneration(time.Second, 1, 1, 1, nil)
}
