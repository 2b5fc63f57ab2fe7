package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/cache"
	"github.com/MOOQU/CF-License-Server/internal/mocks"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCacheWrapper_GetDevicesCount_CacheHit(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)
	// No expectations: if CountDevicesByKind is called, gomock fails automatically

	wrapper := NewCacheWrapper(mockStore, memCache)
	require.NoError(t, memCache.Set(ctx, "devices:trial", 42, time.Minute))

	count, err := wrapper.GetDevicesCount(ctx, "trial", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestCacheWrapper_GetDevicesCount_CacheMiss(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)
	mockStore.EXPECT().CountDevicesByKind(gomock.Any(), "licensed").Return(int64(100), nil).Times(1)

	wrapper := NewCacheWrapper(mockStore, memCache)

	count, err := wrapper.GetDevicesCount(ctx, "licensed", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(100), count)

	cached, err := memCache.Get(ctx, "devices:licensed")
	require.NoError(t, err)
	assert.Equal(t, int64(100), cached)
}

func TestCacheWrapper_DBError(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache()
	ctrl := gomock.NewController(t)
	expectedErr := errors.New("database connection failed")
	mockStore := mocks.NewMockMetricsStore(ctrl)
	mockStore.EXPECT().CountOpenSessions(gomock.Any()).Return(int64(0), expectedErr).Times(1)

	wrapper := NewCacheWrapper(mockStore, memCache)

	_, err := wrapper.GetOpenSessionsCount(ctx, time.Minute)
	assert.ErrorIs(t, err, expectedErr)

	_, err = memCache.Get(ctx, "sessions:open")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestCacheWrapper_OnlineCountExpires(t *testing.T) {
	ctx := context.Background()
	mClock := quartz.NewMock(t)
	memCache := cache.NewMemoryCacheWithClock(mClock)
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)

	gomock.InOrder(
		mockStore.EXPECT().CountOnlineDevices(gomock.Any(), int64(1000)).Return(int64(3), nil),
		mockStore.EXPECT().CountOnlineDevices(gomock.Any(), int64(1030)).Return(int64(5), nil),
	)

	wrapper := NewCacheWrapper(mockStore, memCache)

	count, err := wrapper.GetOnlineDevicesCount(ctx, 1000, 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Within the TTL the cached count is served even though the window moved
	count, err = wrapper.GetOnlineDevicesCount(ctx, 1010, 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	mClock.Advance(30 * time.Second).MustWait(ctx)
	count, err = wrapper.GetOnlineDevicesCount(ctx, 1030, 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}
