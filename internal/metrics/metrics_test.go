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

func TestInit(t *testing.T) {
	m := Init(true)
	require.NotNil(t, m)

	metrics, ok := m.(*Metrics)
	require.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, metrics.HeartbeatsTotal)
	assert.NotNil(t, metrics.SessionsOpen)
	assert.NotNil(t, metrics.HTTPRequestsTotal)

	assert.Same(t, metrics, Init(true), "Init should register collectors once")
}

func TestInitNoop(t *testing.T) {
	m := Init(false)
	require.NotNil(t, m)

	_, ok := m.(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")

	// Every method must be callable
	m.RecordHeartbeat("ok")
	m.RecordTrialRequest("created")
	m.RecordLicenseCheck("valid")
	m.RecordSessionStarted("trial")
	m.RecordSessionStopped("trial", time.Minute)
	m.RecordUsageAccrued("trial", 60)
	m.RecordAccrualConflict("heartbeat")
	m.RecordDeviceBound(true)
	m.RecordHistorySweep(10, 2, time.Second)
	m.SetDevicesCount("trial", 3)
	m.SetDevicesOnlineCount(1)
	m.SetOpenSessionsCount(1)
	m.RecordDatabaseQueryError("count_devices")
}

func TestRecordClientCalls(t *testing.T) {
	m := Init(true).(*Metrics)

	before := testutil.ToFloat64(m.LicenseChecksTotal.WithLabelValues("device_mismatch"))
	m.RecordLicenseCheck("device_mismatch")
	after := testutil.ToFloat64(m.LicenseChecksTotal.WithLabelValues("device_mismatch"))
	assert.Equal(t, before+1, after)

	before = testutil.ToFloat64(m.DevicesBoundTotal.WithLabelValues("true"))
	m.RecordDeviceBound(true)
	assert.Equal(t, before+1, testutil.ToFloat64(m.DevicesBoundTotal.WithLabelValues("true")))
}

func TestRecordUsageAccrued(t *testing.T) {
	m := Init(true).(*Metrics)

	before := testutil.ToFloat64(m.UsageAccruedSeconds.WithLabelValues("licensed"))
	m.RecordUsageAccrued("licensed", 90)
	m.RecordUsageAccrued("licensed", 0)
	m.RecordUsageAccrued("licensed", -5)
	after := testutil.ToFloat64(m.UsageAccruedSeconds.WithLabelValues("licensed"))
	assert.Equal(t, before+90, after)
}

func TestGaugeSetters(t *testing.T) {
	m := Init(true).(*Metrics)

	m.SetDevicesCount("trial", 12)
	m.SetDevicesOnlineCount(4)
	m.SetOpenSessionsCount(3)

	assert.Equal(t, float64(12), testutil.ToFloat64(m.Devices.WithLabelValues("trial")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.DevicesOnline))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.SessionsOpen))
}

func TestHistorySweepMetrics(t *testing.T) {
	m := Init(true).(*Metrics)

	sweeps := testutil.ToFloat64(m.HistorySweepsTotal)
	pruned := testutil.ToFloat64(m.HistoryEntriesPruned)

	m.RecordHistorySweep(100, 7, 250*time.Millisecond)

	assert.Equal(t, sweeps+1, testutil.ToFloat64(m.HistorySweepsTotal))
	assert.Equal(t, pruned+7, testutil.ToFloat64(m.HistoryEntriesPruned))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := Init(true).(*Metrics)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.POST("/heartbeat", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	before := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/heartbeat", "200"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/heartbeat", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1,
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/heartbeat", "200")))
}

func TestHTTPMetricsMiddleware_Noop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(NewNoopMetrics()))
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "unknown", normalizePath(""))
	assert.Equal(t, "/check_license", normalizePath("/check_license"))
}
