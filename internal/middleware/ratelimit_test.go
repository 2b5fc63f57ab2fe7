package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(t *testing.T, limiter gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(limiter)
	router.POST("/heartbeat", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func hit(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/heartbeat", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNewMemoryRateLimiter(t *testing.T) {
	limiter, err := NewMemoryRateLimiter(5)
	require.NoError(t, err)
	router := newLimitedRouter(t, limiter)

	for i := range 5 {
		assert.Equal(t, http.StatusOK, hit(router, "192.168.1.100").Code, "request %d", i+1)
	}

	w := hit(router, "192.168.1.100")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"status":"rate_limited"}`, w.Body.String())
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	limiter, err := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 2,
		StoreType:         RateLimitStoreMemory,
		CleanupInterval:   time.Minute,
	})
	require.NoError(t, err)
	router := newLimitedRouter(t, limiter)

	for range 2 {
		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.1").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(router, "10.0.0.1").Code)

	// A second address has its own budget
	assert.Equal(t, http.StatusOK, hit(router, "10.0.0.2").Code)
}

func TestRateLimiter_PrefixesAreIndependent(t *testing.T) {
	client, err := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1,
		StoreType:         RateLimitStoreMemory,
		Prefix:            "client",
	})
	require.NoError(t, err)
	admin, err := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1,
		StoreType:         RateLimitStoreMemory,
		Prefix:            "admin",
	})
	require.NoError(t, err)

	clientRouter := newLimitedRouter(t, client)
	adminRouter := newLimitedRouter(t, admin)

	assert.Equal(t, http.StatusOK, hit(clientRouter, "10.1.1.1").Code)
	assert.Equal(t, http.StatusOK, hit(adminRouter, "10.1.1.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(clientRouter, "10.1.1.1").Code)
}

func TestNewRateLimiter_InvalidConfig(t *testing.T) {
	_, err := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 0})
	require.Error(t, err)

	_, err = NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 10,
		StoreType:         RateLimitStoreRedis,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a redis client")
}

// getRedisClientForTest returns a client for a local Redis, or skips the test
func getRedisClientForTest(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// TestRedisRateLimiter_MultiInstance simulates two server instances sharing Redis
func TestRedisRateLimiter_MultiInstance(t *testing.T) {
	client := getRedisClientForTest(t)
	prefix := "ratelimit-test-" + strconv.FormatInt(time.Now().UnixNano(), 36)

	newInstance := func() *gin.Engine {
		limiter, err := NewRateLimiter(RateLimitConfig{
			RequestsPerMinute: 4,
			StoreType:         RateLimitStoreRedis,
			RedisClient:       client,
			Prefix:            prefix,
		})
		require.NoError(t, err)
		return newLimitedRouter(t, limiter)
	}
	first, second := newInstance(), newInstance()

	for i := range 4 {
		router := first
		if i%2 == 1 {
			router = second
		}
		assert.Equal(t, http.StatusOK, hit(router, "192.168.99.1").Code, "request %d", i+1)
	}

	// The budget is shared, so either instance now refuses
	assert.Equal(t, http.StatusTooManyRequests, hit(first, "192.168.99.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(second, "192.168.99.1").Code)
}
