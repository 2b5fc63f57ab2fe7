package metrics

import (
	"strconv"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/core"

	"github.com/gin-gonic/gin"
)

// HTTPMetricsMiddleware creates a Gin middleware that records HTTP metrics
func HTTPMetricsMiddleware(m core.Recorder) gin.HandlerFunc {
	// Only the Prometheus recorder has collectors to feed
	metrics, ok := m.(*Metrics)
	if !ok {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid self-recording
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		method := c.Request.Method
		path := normalizePath(c.FullPath()) // Use route pattern, not actual path
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// normalizePath returns the route pattern, or "unknown" for unmatched routes
func normalizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}

// RecordHeartbeat records a heartbeat outcome
func (m *Metrics) RecordHeartbeat(status string) {
	m.HeartbeatsTotal.WithLabelValues(status).Inc()
}

// RecordTrialRequest records a trial request outcome
func (m *Metrics) RecordTrialRequest(status string) {
	m.TrialRequestsTotal.WithLabelValues(status).Inc()
}

// RecordLicenseCheck records a license check outcome
func (m *Metrics) RecordLicenseCheck(status string) {
	m.LicenseChecksTotal.WithLabelValues(status).Inc()
}

// RecordSessionStarted records a newly opened session
func (m *Metrics) RecordSessionStarted(kind string) {
	m.SessionsStartedTotal.WithLabelValues(kind).Inc()
	m.SessionsOpen.Inc()
}

// RecordSessionStopped records a closed session and the length of its final segment
func (m *Metrics) RecordSessionStopped(kind string, duration time.Duration) {
	m.SessionsStoppedTotal.WithLabelValues(kind).Inc()
	m.SessionDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.SessionsOpen.Dec()
}

// RecordUsageAccrued records seconds folded into banked usage
func (m *Metrics) RecordUsageAccrued(kind string, seconds int64) {
	if seconds <= 0 {
		return
	}
	m.UsageAccruedSeconds.WithLabelValues(kind).Add(float64(seconds))
}

// RecordAccrualConflict records a conditional update that lost a race
func (m *Metrics) RecordAccrualConflict(operation string) {
	m.AccrualConflictsTotal.WithLabelValues(operation).Inc()
}

// RecordDeviceBound records a first-use license binding
func (m *Metrics) RecordDeviceBound(convertedTrial bool) {
	m.DevicesBoundTotal.WithLabelValues(strconv.FormatBool(convertedTrial)).Inc()
}

// RecordHistorySweep records one sweeper pass
func (m *Metrics) RecordHistorySweep(scanned, pruned int, duration time.Duration) {
	m.HistorySweepsTotal.Inc()
	m.HistoryEntriesPruned.Add(float64(pruned))
	m.HistorySweepDuration.Observe(duration.Seconds())
}

// SetDevicesCount sets the current count of records of one kind (for periodic updates)
func (m *Metrics) SetDevicesCount(kind string, count int) {
	m.Devices.WithLabelValues(kind).Set(float64(count))
}

// SetDevicesOnlineCount sets the current count of online devices (for periodic updates)
func (m *Metrics) SetDevicesOnlineCount(count int) {
	m.DevicesOnline.Set(float64(count))
}

// SetOpenSessionsCount sets the current count of open sessions (for periodic updates)
func (m *Metrics) SetOpenSessionsCount(count int) {
	m.SessionsOpen.Set(float64(count))
}

// RecordDatabaseQueryError records a database query error during metric collection
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
