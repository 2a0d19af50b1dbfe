package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest("GET", "/api/v1/moods", 200, 20*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/v1/moods", 200, 40*time.Millisecond)
	m.ObserveStoreOperation("get", repository.KeyMoods, time.Millisecond, nil)
	m.ObserveStoreOperation("set", repository.KeyMoods, time.Millisecond, errors.New("boom"))
	m.RecordStoreFallback(repository.KeyUsers, repository.FallbackCorrupted)
	m.RecordRedemption("1", 10)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 30.0, snap.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(2), snap.StoreOperations)
	assert.Equal(t, uint64(1), snap.StoreErrors)
	assert.Equal(t, uint64(1), snap.StoreFallbacks)
	assert.Equal(t, uint64(1), snap.Redemptions)
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	store := repository.NewRecordStore(repository.NewMemoryBlobStore(), nil, repository.WithStoreObserver(m))
	require.NoError(t, repository.Prepend(context.Background(), store, repository.Reports, models.BehaviorReport{ID: "r1"}))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "record_store_operation_seconds")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
	m.RecordRedemption("1", 10)
	assert.Equal(t, uint64(0), m.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
