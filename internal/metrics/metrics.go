package metrics

import (
	"sync"

	"github.com/MOOQU/CF-License-Server/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements Recorder interface at compile time
var _ core.Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Client call metrics
	HeartbeatsTotal       *prometheus.CounterVec
	TrialRequestsTotal    *prometheus.CounterVec
	LicenseChecksTotal    *prometheus.CounterVec
	DevicesBoundTotal     *prometheus.CounterVec
	AccrualConflictsTotal *prometheus.CounterVec

	// Session metrics
	SessionsStartedTotal *prometheus.CounterVec
	SessionsStoppedTotal *prometheus.CounterVec
	SessionDuration      *prometheus.HistogramVec
	UsageAccruedSeconds  *prometheus.CounterVec
	SessionsOpen         prometheus.Gauge

	// Device gauges
	Devices       *prometheus.GaugeVec
	DevicesOnline prometheus.Gauge

	// History sweeper
	HistorySweepsTotal   prometheus.Counter
	HistoryEntriesPruned prometheus.Counter
	HistorySweepDuration prometheus.Histogram

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) core.Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		HeartbeatsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_heartbeats_total",
				Help: "Total number of heartbeats received",
			},
			[]string{"status"}, // ok, active, expired, banned, no_user
		),
		TrialRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_trial_requests_total",
				Help: "Total number of trial requests",
			},
			[]string{"status"}, // created, active, expired, banned, licensed
		),
		LicenseChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_checks_total",
				Help: "Total number of license checks",
			},
			[]string{"status"}, // valid, invalid, banned, device_mismatch
		),
		DevicesBoundTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_devices_bound_total",
				Help: "Total number of licenses bound to a device",
			},
			[]string{"converted_trial"},
		),
		AccrualConflictsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_accrual_conflicts_total",
				Help: "Conditional updates that lost to a concurrent writer and were retried",
			},
			[]string{"operation"},
		),

		SessionsStartedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_sessions_started_total",
				Help: "Total number of usage sessions opened",
			},
			[]string{"kind"},
		),
		SessionsStoppedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_sessions_stopped_total",
				Help: "Total number of usage sessions closed",
			},
			[]string{"kind"},
		),
		SessionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "license_session_duration_seconds",
				Help: "Length of the last segment of closed usage sessions",
				Buckets: []float64{
					60, 300, 600, 1800, 3600, 7200, 14400, 28800,
				}, // 1m, 5m, 10m, 30m, 1h, 2h, 4h, 8h
			},
			[]string{"kind"},
		),
		UsageAccruedSeconds: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_usage_accrued_seconds_total",
				Help: "Usage seconds folded into banked usage",
			},
			[]string{"kind"},
		),
		SessionsOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "license_sessions_open",
				Help: "Current number of open usage sessions",
			},
		),

		Devices: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "license_devices",
				Help: "Current number of device records",
			},
			[]string{"kind"},
		),
		DevicesOnline: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "license_devices_online",
				Help: "Current number of devices seen within the online threshold",
			},
		),

		HistorySweepsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "license_history_sweeps_total",
				Help: "Total number of history retention sweeps",
			},
		),
		HistoryEntriesPruned: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "license_history_entries_pruned_total",
				Help: "Session history entries removed by the sweeper",
			},
		),
		HistorySweepDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "license_history_sweep_duration_seconds",
				Help:    "Time taken by one history retention sweep",
				Buckets: prometheus.DefBuckets,
			},
		),

		// HTTP Request Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001, 0.005, 0.010, 0.025, 0.050, 0.100,
					0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		// Database Query Metrics
		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors during metric collection",
			},
			[]string{"operation"}, // count_devices, count_online, count_open_sessions
		),
	}
}
