package sensor

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestProvider(t *testing.T) (*miniredis.Miniredis, *RedisAncillaryProvider) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	provider := NewRedisAncillaryProvider(redisClient, "vital-focus:monitor:", "device-001", zap.NewNop())
	return mr, provider
}

func TestRedisAncillaryProvider_Latest(t *testing.T) {
	mr, provider := setupTestProvider(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("vital-focus:monitor:device-001:resp_rate", "18.5"))
	require.NoError(t, mr.Set("vital-focus:monitor:device-001:activity_energy", "320"))
	require.NoError(t, mr.Set("vital-focus:monitor:device-001:sleep_ratio", "0.65"))

	resp, ok := provider.LatestRespiratoryRate(ctx, time.Hour)
	require.True(t, ok)
	assert.Equal(t, 18.5, resp)

	activity, ok := provider.LatestActivityEnergy(ctx, time.Hour)
	require.True(t, ok)
	assert.Equal(t, 320.0, activity)

	sleep, ok := provider.LatestSleepRatio(ctx, time.Hour)
	require.True(t, ok)
	assert.Equal(t, 0.65, sleep)
}

func TestRedisAncillaryProvider_MissingKey(t *testing.T) {
	_, provider := setupTestProvider(t)

	_, ok := provider.LatestRespiratoryRate(context.Background(), time.Hour)
	assert.False(t, ok)
}

func TestRedisAncillaryProvider_InvalidValue(t *testing.T) {
	mr, provider := setupTestProvider(t)

	require.NoError(t, mr.Set("vital-focus:monitor:device-001:resp_rate", "not-a-number"))

	_, ok := provider.LatestRespiratoryRate(context.Background(), time.Hour)
	assert.False(t, ok)
}

func TestOrDefaultHelpers(t *testing.T) {
	ctx := context.Background()

	t.Run("NilProvider", func(t *testing.T) {
		assert.Equal(t, DefaultRespiratoryRate, RespiratoryRateOrDefault(ctx, nil, time.Hour))
		assert.Equal(t, DefaultActivityEnergy, ActivityEnergyOrDefault(ctx, nil, time.Hour))
		assert.Equal(t, DefaultSleepRatio, SleepRatioOrDefault(ctx, nil, time.Hour))
	})

	t.Run("ProviderValueWins", func(t *testing.T) {
		resp := 20.0
		p := &StaticAncillaryProvider{RespiratoryRate: &resp}
		assert.Equal(t, 20.0, RespiratoryRateOrDefault(ctx, p, time.Hour))
		// 其余指标缺失时回落默认值
		assert.Equal(t, DefaultActivityEnergy, ActivityEnergyOrDefault(ctx, p, time.Hour))
	})
}
