package core

import (
	"context"
	"time"
)

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Client calls
	RecordHeartbeat(status string)
	RecordTrialRequest(status string)
	RecordLicenseCheck(status string)

	// Session accounting
	RecordSessionStarted(kind string)
	RecordSessionStopped(kind string, duration time.Duration)
	RecordUsageAccrued(kind string, seconds int64)
	RecordAccrualConflict(operation string)
	RecordDeviceBound(convertedTrial bool)

	// History sweeper
	RecordHistorySweep(scanned, pruned int, duration time.Duration)

	// Gauge Setters (for periodic updates)
	SetDevicesCount(kind string, count int)
	SetDevicesOnlineCount(count int)
	SetOpenSessionsCount(count int)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// MetricsStore defines the DB operations needed by CacheWrapper.
type MetricsStore interface {
	CountDevicesByKind(ctx context.Context, kind string) (int64, error)
	CountOnlineDevices(ctx context.Context, since int64) (int64, error)
	CountOpenSessions(ctx context.Context) (int64, error)
}
