package adapthttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fitlog/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRequests(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	s := &Server{}
	var seenID string
	handler := s.logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/test-path", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	require.NotEmpty(t, seenID)
	assert.Equal(t, seenID, w.Header().Get("X-Request-ID"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "request", entry.Message)
	assert.Equal(t, http.MethodGet, entry.Data["method"])
	assert.Equal(t, "/test-path", entry.Data["path"])
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, seenID, entry.Data["request_id"])
}

func TestLogRequestsKeepsIncomingID(t *testing.T) {
	s := &Server{}
	handler := s.logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestPanicRecoveryWithoutMetrics(t *testing.T) {
	s := &Server{}
	handler := s.panicRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestMetricsUnknownRoute(t *testing.T) {
	m := metrics.NewTestManager()
	s := &Server{metrics: m}
	handler := s.requestMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues(http.MethodPost, "204")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HistogramRequestDuration))
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+1.5", formatSigned(1.5))
	assert.Equal(t, "-0.8", formatSigned(-0.8))
	assert.Equal(t, "0", formatSigned(0))
}
