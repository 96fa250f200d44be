package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_MetricsEndpointReturnsPrometheusFormat(t *testing.T) {
	NewCollector("test-svc-server").IncMigrationsStarted(ScopePrimary)
	server := NewServer(":0", nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "migrationstamp_migrations_started_total")
	assert.Contains(t, string(body), `service="test-svc-server"`)
}

func TestServer_CustomGatherer(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "custom_total", Help: "Custom counter"})
	registry.MustRegister(counter)
	counter.Inc()

	server := NewServer(":0", registry)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "custom_total 1")
	assert.NotContains(t, rec.Body.String(), "migrationstamp_")
}

func TestServer_UnknownPathReturnsNotFound(t *testing.T) {
	server := NewServer(":0", nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ServeStopsOnContextCancel(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}
