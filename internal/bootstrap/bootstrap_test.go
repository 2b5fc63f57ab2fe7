package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/cache"
	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/metrics"
	"github.com/MOOQU/CF-License-Server/internal/mocks"
	"github.com/MOOQU/CF-License-Server/internal/services"
	"github.com/MOOQU/CF-License-Server/internal/store"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestValidateRateLimitConfig(t *testing.T) {
	assert.NoError(t, validateRateLimitConfig(&config.Config{EnableRateLimit: false}))
	assert.NoError(t, validateRateLimitConfig(&config.Config{
		EnableRateLimit: true,
		RateLimitStore:  config.RateLimitStoreMemory,
		ClientRateLimit: 10,
		AdminRateLimit:  5,
	}))

	err := validateRateLimitConfig(&config.Config{
		EnableRateLimit: true,
		RateLimitStore:  config.RateLimitStoreMemory,
		ClientRateLimit: 0,
		AdminRateLimit:  5,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")

	err = validateRateLimitConfig(&config.Config{
		EnableRateLimit: true,
		RateLimitStore:  config.RateLimitStoreRedis,
		ClientRateLimit: 10,
		AdminRateLimit:  5,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR is required")
}

func TestErrorLogger_SuppressesRepeats(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	logger := newErrorLogger(clock)
	failure := errors.New("connection refused")

	assert.True(t, logger.logIfNeeded("count_open_sessions", failure))
	assert.False(t, logger.logIfNeeded("count_open_sessions", failure))
	assert.True(t, logger.logIfNeeded("count_online_devices", failure), "operations are tracked separately")

	clock.Advance(5 * time.Minute).MustWait(ctx)
	assert.True(t, logger.logIfNeeded("count_open_sessions", failure))
}

func TestGaugeUpdater_Update(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	clock := quartz.NewMock(t)
	now := time.Unix(1_700_000_000, 0)
	clock.Set(now).MustWait(ctx)

	counts := mocks.NewMockMetricsStore(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)

	counts.EXPECT().CountDevicesByKind(gomock.Any(), "trial").Return(int64(3), nil)
	counts.EXPECT().CountDevicesByKind(gomock.Any(), "licensed").
		Return(int64(0), errors.New("database is locked"))
	counts.EXPECT().CountOnlineDevices(gomock.Any(), now.Add(-2*time.Minute).Unix()).
		Return(int64(2), nil)
	counts.EXPECT().CountOpenSessions(gomock.Any()).Return(int64(1), nil)

	recorder.EXPECT().SetDevicesCount("trial", 3)
	recorder.EXPECT().RecordDatabaseQueryError("count_licensed_devices")
	recorder.EXPECT().SetDevicesOnlineCount(2)
	recorder.EXPECT().SetOpenSessionsCount(1)

	updater := &gaugeUpdater{
		cache:           metrics.NewCacheWrapper(counts, cache.NewMemoryCache()),
		recorder:        recorder,
		clock:           clock,
		ttl:             30 * time.Second,
		onlineThreshold: 2 * time.Minute,
		errors:          newErrorLogger(clock),
	}
	updater.update(ctx)
}

type routerEnv struct {
	router *httptest.Server
	client *http.Client
}

func newRouterEnv(t *testing.T, cfg *config.Config) routerEnv {
	t.Helper()
	ctx := context.Background()

	db, err := store.New(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := quartz.NewMock(t)
	clock.Set(time.Unix(1_700_000_000, 0)).MustWait(ctx)

	recorder := metrics.NewNoopMetrics()
	audit := services.NewAuditService(db, clock, false, 0)
	svc := initializeServices(cfg, db, clock, audit, recorder)
	h := initializeHandlers(svc.sessions, svc.trials, svc.licenses, svc.admin, audit)

	srv := httptest.NewServer(setupRouter(cfg, db, h, recorder, audit, nil))
	t.Cleanup(srv.Close)
	return routerEnv{router: srv, client: srv.Client()}
}

func (e routerEnv) post(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(
		context.Background(), http.MethodPost, e.router.URL+path, bytes.NewReader(payload),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req)
}

func (e routerEnv) get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequestWithContext(
		context.Background(), http.MethodGet, e.router.URL+path, nil,
	)
	require.NoError(t, err)
	return e.do(t, req)
}

func (e routerEnv) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func routerTestConfig() *config.Config {
	return &config.Config{
		IsProduction:         true,
		TrialDuration:        30 * time.Minute,
		OnlineThreshold:      2 * time.Minute,
		HeartbeatInterval:    time.Minute,
		SessionHistoryCap:    50,
		HistoryRetentionDays: 7,
		HistorySweepInterval: time.Hour,
		StoreTimeout:         5 * time.Second,
		RateLimitStore:       config.RateLimitStoreMemory,
		ClientRateLimit:      100,
		AdminRateLimit:       100,
	}
}

func TestRouter_ClientAndAdminRoutes(t *testing.T) {
	env := newRouterEnv(t, routerTestConfig())

	code, body := env.get(t, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])

	code, body = env.post(t, "/request_trial", map[string]string{"hwid": "hwid-router-1"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, services.StatusActive, body["status"])

	code, body = env.post(t, "/heartbeat", map[string]string{"hwid": "hwid-router-1"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, services.StatusActive, body["status"])

	code, body = env.get(t, "/userslist")
	assert.Equal(t, http.StatusOK, code)
	users, ok := body["users"].([]any)
	require.True(t, ok)
	assert.Len(t, users, 1)

	code, body = env.post(t, "/ban", map[string]string{"hwid": "hwid-unknown"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", body["status"])
}

func TestRouter_MetricsEndpointDisabled(t *testing.T) {
	env := newRouterEnv(t, routerTestConfig())

	resp, err := env.client.Get(env.router.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ClientRateLimit(t *testing.T) {
	cfg := routerTestConfig()
	cfg.EnableRateLimit = true
	cfg.ClientRateLimit = 2
	env := newRouterEnv(t, cfg)

	for range 2 {
		code, _ := env.post(t, "/check_trial", map[string]string{"hwid": "hwid-limited"})
		assert.Equal(t, http.StatusOK, code)
	}

	code, body := env.post(t, "/check_trial", map[string]string{"hwid": "hwid-limited"})
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate_limited", body["status"])

	// Admin routes draw from their own budget
	code, _ = env.get(t, "/userslist")
	assert.Equal(t, http.StatusOK, code)
}
