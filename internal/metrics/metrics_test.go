package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.DebounceFired("linear")
	r.RequestIssued("linear")
	r.RequestIssued("linear")
	r.RequestCancelled("linear")
	r.RequestWithheld("planar")
	r.RequestFailed("planar")
	r.RequestSucceeded("linear", 120*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.debounce.WithLabelValues("linear")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.issued.WithLabelValues("linear")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cancelled.WithLabelValues("linear")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.withheld.WithLabelValues("planar")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failed.WithLabelValues("planar")))
}

func TestRecorder_InFlightGauge(t *testing.T) {
	r := NewRecorder()

	r.RequestIssued("linear")
	r.RequestIssued("linear")
	assert.Equal(t, 2.0, testutil.ToFloat64(r.inflight.WithLabelValues("linear")))

	r.RequestCancelled("linear")
	r.RequestSucceeded("linear", time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.inflight.WithLabelValues("linear")))
}

func TestRecorder_HandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.RequestIssued("linear")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "beamtune_engine_requests_issued_total")
}

func TestNopRecorder_DoesNotPanic(t *testing.T) {
	r := NewNopRecorder()
	assert.NotPanics(t, func() {
		r.DebounceFired("linear")
		r.RequestIssued("linear")
		r.RequestCancelled("linear")
		r.RequestWithheld("linear")
		r.RequestFailed("linear")
		r.RequestSucceeded("linear", time.Second)
	})
}

func TestServerMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewServerMetrics()

	router := gin.New()
	router.Use(m.Middleware())
	router.POST("/api/linear-array/analyze", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/linear-array/analyze", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.requests.WithLabelValues("/api/linear-array/analyze", "200")))
}
