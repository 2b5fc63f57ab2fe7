package services

import (
	"context"
	"testing"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/core"
	"github.com/MOOQU/CF-License-Server/internal/metrics"
	"github.com/MOOQU/CF-License-Server/internal/models"
	"github.com/MOOQU/CF-License-Server/internal/store"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// epoch is the mock clock's starting point in every service test
var epoch = time.Unix(1_700_000_000, 0)

type testEnv struct {
	store    *store.Store
	clock    *quartz.Mock
	cfg      *config.Config
	audit    *AuditService
	sessions *SessionService
	licenses *LicenseService
	trials   *TrialService
	sweeper  *HistorySweeper
	admin    *AdminService
}

func testConfig() *config.Config {
	return &config.Config{
		TrialDuration:        2 * time.Hour,
		OnlineThreshold:      120 * time.Second,
		HeartbeatInterval:    60 * time.Second,
		SessionHistoryCap:    50,
		HistoryRetentionDays: 7,
		HistorySweepInterval: time.Hour,
		StoreTimeout:         5 * time.Second,
	}
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, testConfig(), metrics.NewNoopMetrics())
}

func newTestEnvWith(t *testing.T, cfg *config.Config, m core.Recorder) *testEnv {
	t.Helper()

	s := setupTestStore(t)
	clock := quartz.NewMock(t)
	clock.Set(epoch).MustWait(context.Background())

	audit := NewAuditService(s, clock, false, 0)
	sessions := NewSessionService(s, cfg, clock, m)
	sweeper := NewHistorySweeper(s, cfg, clock, m)

	return &testEnv{
		store:    s,
		clock:    clock,
		cfg:      cfg,
		audit:    audit,
		sessions: sessions,
		licenses: NewLicenseService(s, cfg, sessions, audit, m),
		trials:   NewTrialService(s, cfg, sessions, audit, m),
		sweeper:  sweeper,
		admin:    NewAdminService(s, cfg, sessions, sweeper, audit),
	}
}

// advance moves the mock clock forward by d
func (e *testEnv) advance(t *testing.T, d time.Duration) {
	t.Helper()
	e.clock.Advance(d).MustWait(context.Background())
}

func (e *testEnv) now() int64 {
	return e.clock.Now().Unix()
}

// device re-reads the record bound to hwid
func (e *testEnv) device(t *testing.T, hwid string) *models.Device {
	t.Helper()
	rec, err := e.store.GetDevice(context.Background(), hwid)
	require.NoError(t, err)
	return rec
}

// seedDevice inserts a record directly, bypassing the services
func (e *testEnv) seedDevice(t *testing.T, d *models.Device) *models.Device {
	t.Helper()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Username == "" {
		d.Username = "user-" + d.ID[:8]
	}
	if d.Kind == "" {
		d.Kind = models.KindTrial
	}
	if d.CreatedAt == 0 {
		d.CreatedAt = e.now()
	}
	require.NoError(t, e.store.CreateDevice(context.Background(), d))
	return d
}

// generateBound creates a license and binds it to hwid, returning the secret
func (e *testEnv) generateBound(t *testing.T, username, hwid string) string {
	t.Helper()
	ctx := context.Background()

	lic, err := e.licenses.GenerateLicense(ctx, username)
	require.NoError(t, err)
	_, err = e.licenses.CheckLicense(ctx, username, lic.License, hwid)
	require.NoError(t, err)
	return lic.License
}

func ptr[T any](v T) *T {
	return &v
}
