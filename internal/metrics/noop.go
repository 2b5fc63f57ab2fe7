package metrics

import (
	"time"

	"github.com/MOOQU/CF-License-Server/internal/core"
)

// NoopMetrics is a no-operation implementation of Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ core.Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() core.Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordHeartbeat(status string)                            {}
func (n *NoopMetrics) RecordTrialRequest(status string)                         {}
func (n *NoopMetrics) RecordLicenseCheck(status string)                         {}
func (n *NoopMetrics) RecordSessionStarted(kind string)                         {}
func (n *NoopMetrics) RecordSessionStopped(kind string, duration time.Duration) {}
func (n *NoopMetrics) RecordUsageAccrued(kind string, seconds int64)            {}
func (n *NoopMetrics) RecordAccrualConflict(operation string)                   {}
func (n *NoopMetrics) RecordDeviceBound(convertedTrial bool)                    {}

func (n *NoopMetrics) RecordHistorySweep(scanned, pruned int, duration time.Duration) {}

// Gauge setters - noop implementations
func (n *NoopMetrics) SetDevicesCount(kind string, count int) {}
func (n *NoopMetrics) SetDevicesOnlineCount(count int)        {}
func (n *NoopMetrics) SetOpenSessionsCount(count int)         {}

func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
